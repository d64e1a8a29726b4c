package models

// Segment is one timestamped speaker turn within a call transcript.
// Start and End are seconds relative to the paired audio's start; ordering is
// the array order, assumed non-decreasing in Start.
type Segment struct {
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Transcript is the payload produced by the transcription pipeline.
type Transcript struct {
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments"`
}
