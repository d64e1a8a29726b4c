// Package models defines the shared data types for dispatcher records,
// transcript grades, and call transcripts.
package models

// Question status codes used by the scripted-questioning standard.
// These are the codes the grading service returns in per-question results.
const (
	CodeAskedCorrectly    = "1"
	CodeNotAsked          = "2"
	CodeAskedIncorrectly  = "3"
	CodeNotAsScripted     = "4"
	CodeNotApplicable     = "5"
	CodeObvious           = "6"
	CodeRecordedCorrectly = "RC"
)

// StatusLabels maps question status codes to their display labels.
var StatusLabels = map[string]string{
	CodeAskedCorrectly:    "Asked Correctly",
	CodeNotAsked:          "Not Asked",
	CodeAskedIncorrectly:  "Asked Incorrectly",
	CodeNotAsScripted:     "Not As Scripted",
	CodeNotApplicable:     "N/A",
	CodeObvious:           "Obvious",
	CodeRecordedCorrectly: "Recorded Correctly",
}

// QuestionResult is the grading outcome for a single scripted question.
type QuestionResult struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Status string `json:"status"`
}

// FileGrade is the result of grading one transcript file.
type FileGrade struct {
	GradePercentage    float64                   `json:"grade_percentage"`
	DetectedNatureCode string                    `json:"detected_nature_code,omitempty"`
	PerQuestion        map[string]QuestionResult `json:"per_question,omitempty"`
}

// FileSet holds the filenames associated with a dispatcher, split by category.
// Order is arrival order; each list is a set (no duplicates).
type FileSet struct {
	TranscriptFiles []string `json:"transcriptFiles"`
	AudioFiles      []string `json:"audioFiles"`
}

// Dispatcher is the aggregate record for one dispatcher, keyed by Name.
// Name is the sole merge key: every upload referencing the same name resolves
// to the same record.
//
// Grades carries a three-state distinction per transcript filename:
// key absent means grading was never attempted, a nil value means an attempt
// was made but produced no grade, and a non-nil value is the grade itself.
type Dispatcher struct {
	ID     string                `json:"id"`
	Name   string                `json:"name"`
	Files  FileSet               `json:"files"`
	Grades map[string]*FileGrade `json:"grades,omitempty"`
}

// HasFile reports whether filename is already present in the given list.
func HasFile(list []string, filename string) bool {
	for _, f := range list {
		if f == filename {
			return true
		}
	}
	return false
}
