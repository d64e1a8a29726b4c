// Package schemas embeds the JSON Schemas used to validate external payloads.
package schemas

import _ "embed"

// TranscriptSchemaJSON is the schema for transcript payloads returned by the
// transcription service.
//
//go:embed transcript.schema.json
var TranscriptSchemaJSON string
