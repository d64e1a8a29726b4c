package webapi

import "github.com/cs4273g/callreview/internal/models"

// DispatcherSummary is the API response for one dispatcher in the list.
// OverallGrade is null when no transcript file has a recorded grade.
type DispatcherSummary struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	TranscriptCount int      `json:"transcriptCount"`
	AudioCount      int      `json:"audioCount"`
	GradedCount     int      `json:"gradedCount"`
	OverallGrade    *float64 `json:"overallGrade"`
}

// TranscriptFileDetail is one transcript file with its grading state.
// Attempted distinguishes "grading tried, no grade" from "never attempted".
type TranscriptFileDetail struct {
	Filename  string            `json:"filename"`
	Attempted bool              `json:"attempted"`
	Grade     *models.FileGrade `json:"grade"`
}

// DispatcherDetail is the full per-dispatcher record.
type DispatcherDetail struct {
	DispatcherSummary
	TranscriptFiles []TranscriptFileDetail `json:"transcriptFiles"`
	AudioFiles      []string               `json:"audioFiles"`
}

// SummaryResponse is the aggregate KPI response across all dispatchers.
type SummaryResponse struct {
	TotalDispatchers int      `json:"totalDispatchers"`
	TotalTranscripts int      `json:"totalTranscripts"`
	TotalAudioFiles  int      `json:"totalAudioFiles"`
	GradedFiles      int      `json:"gradedFiles"`
	AvgOverallGrade  *float64 `json:"avgOverallGrade"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
