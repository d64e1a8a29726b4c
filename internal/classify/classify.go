// Package classify decides which uploaded files enter the grading pipeline
// and which dispatcher they belong to, purely from the filename.
package classify

import (
	"path/filepath"
	"strings"
)

// Category distinguishes transcript files from audio files.
type Category string

const (
	CategoryTranscript Category = "transcript"
	CategoryAudio      Category = "audio"
)

// allowedExtensions is the accepted set at the batch-upload boundary.
var allowedExtensions = []string{".zip", ".json"}

// AllowedExtensions returns the accepted extensions, for user-facing messages.
func AllowedExtensions() []string {
	out := make([]string, len(allowedExtensions))
	copy(out, allowedExtensions)
	return out
}

// Classified is one accepted file, correlated to its dispatcher.
type Classified struct {
	Dispatcher string
	Filename   string
	Category   Category
}

// SplitBatch partitions a batch of filenames into accepted and rejected sets
// based on extension alone. Rejected names are returned so the caller can
// surface a single consolidated message; accepted files are unaffected by
// rejections elsewhere in the batch.
func SplitBatch(filenames []string) (accepted, rejected []string) {
	for _, name := range filenames {
		ext := strings.ToLower(filepath.Ext(name))
		ok := false
		for _, allowed := range allowedExtensions {
			if ext == allowed {
				ok = true
				break
			}
		}
		if ok {
			accepted = append(accepted, name)
		} else {
			rejected = append(rejected, name)
		}
	}
	return accepted, rejected
}

// Parse extracts the dispatcher identity from a filename following the
// <token>_<token>_<dispatcherName>.<ext> convention: the dispatcher name is
// the substring between the second underscore and the final dot.
//
// Filenames with no second underscore or no dot do not match and are skipped
// by callers without an error; that mirrors the established upload behavior.
func Parse(filename string) (Classified, bool) {
	first := strings.Index(filename, "_")
	if first == -1 {
		return Classified{}, false
	}
	second := strings.Index(filename[first+1:], "_")
	if second == -1 {
		return Classified{}, false
	}
	second += first + 1

	dot := strings.LastIndex(filename, ".")
	if dot == -1 || dot <= second {
		return Classified{}, false
	}

	c := Classified{
		Dispatcher: filename[second+1 : dot],
		Filename:   filename,
		Category:   CategoryAudio,
	}
	if strings.EqualFold(filename[dot:], ".json") {
		c.Category = CategoryTranscript
	}
	return c, true
}

// ParseBatch applies Parse to every filename, dropping non-matching names.
func ParseBatch(filenames []string) []Classified {
	var out []Classified
	for _, name := range filenames {
		if c, ok := Parse(name); ok {
			out = append(out, c)
		}
	}
	return out
}
