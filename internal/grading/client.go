// Package grading talks to the external grading service and turns its
// structured evaluation payload into a FileGrade.
package grading

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/cs4273g/callreview/internal/models"
)

// Service grades one transcript artifact.
type Service interface {
	GradeTranscript(ctx context.Context, filename string, transcript []byte) (*models.FileGrade, error)
}

// Client is the HTTP implementation of Service.
type Client struct {
	baseURL string
	c       *http.Client
}

// NewClient creates a grading client against baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		c:       &http.Client{Timeout: 120 * time.Second},
	}
}

// envelope is the loosely-typed response shape. per_question values are
// either {code,label,status} objects or bare code strings (the legacy grader
// emitted the latter), so they stay untyped until decoded below.
type envelope struct {
	GradePercentage    *float64       `mapstructure:"grade_percentage"`
	DetectedNatureCode string         `mapstructure:"detected_nature_code"`
	PerQuestion        map[string]any `mapstructure:"per_question"`
}

// GradeTranscript submits one transcript to the grading service and returns
// the resulting grade. Network failures, non-2xx responses, and payloads
// missing every expected field are errors; the caller records those files as
// attempted-but-ungraded.
func (g *Client) GradeTranscript(ctx context.Context, filename string, transcript []byte) (*models.FileGrade, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/grade", bytes.NewReader(transcript))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("grading %s: %s", resp.Status, string(body))
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("grading decode: %w", err)
	}

	var env envelope
	if err := mapstructure.Decode(raw, &env); err != nil {
		return nil, fmt.Errorf("grading decode: %w", err)
	}
	if env.GradePercentage == nil && env.PerQuestion == nil {
		return nil, fmt.Errorf("grading response for %s has no grade fields", filename)
	}

	grade := &models.FileGrade{DetectedNatureCode: env.DetectedNatureCode}
	if len(env.PerQuestion) > 0 {
		grade.PerQuestion = make(map[string]models.QuestionResult, len(env.PerQuestion))
		for id, v := range env.PerQuestion {
			q, err := decodeQuestion(v)
			if err != nil {
				return nil, fmt.Errorf("grading decode question %s: %w", id, err)
			}
			grade.PerQuestion[id] = q
		}
	}

	// The service's percentage wins when present; otherwise apply the fixed
	// scoring key to the per-question results.
	if env.GradePercentage != nil {
		grade.GradePercentage = *env.GradePercentage
	} else {
		grade.GradePercentage = Percentage(grade.PerQuestion)
	}
	return grade, nil
}

func decodeQuestion(v any) (models.QuestionResult, error) {
	// Legacy shape: a bare grade code.
	if code, ok := v.(string); ok {
		return models.QuestionResult{Code: code, Status: models.StatusLabels[code]}, nil
	}

	var q models.QuestionResult
	if err := mapstructure.Decode(v, &q); err != nil {
		return models.QuestionResult{}, err
	}
	if q.Status == "" {
		q.Status = models.StatusLabels[q.Code]
	}
	return q, nil
}

var _ Service = (*Client)(nil)
