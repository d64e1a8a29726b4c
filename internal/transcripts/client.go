// Package transcripts fetches stored call transcripts from the transcription
// service for playback review.
package transcripts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cs4273g/callreview/internal/models"
	"github.com/cs4273g/callreview/internal/validation"
)

// ErrNotFound is returned when no transcription exists for the given id.
// It is a non-fatal outcome: callers log it and show an empty state instead
// of propagating a failure.
var ErrNotFound = errors.New("transcription not found")

// Result is one fetched transcription with its associated audio reference.
type Result struct {
	Transcript *models.Transcript
	AudioFile  string
	Filename   string
}

// Client fetches transcriptions over HTTP.
type Client struct {
	baseURL string
	c       *http.Client
}

// NewClient creates a transcript client against baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		c:       &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch retrieves the transcription with the given id. The payload is
// validated against the transcript schema before it is decoded, so malformed
// service responses surface as errors rather than as broken playback.
func (c *Client) Fetch(ctx context.Context, id string) (*Result, error) {
	url := fmt.Sprintf("%s/api/transcriptions/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("transcriptions %s: %s", resp.Status, string(body))
	}

	var env struct {
		Success   bool            `json:"success"`
		Data      json.RawMessage `json:"data"`
		AudioFile string          `json:"audio_file"`
		Filename  string          `json:"filename"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("transcriptions decode: %w", err)
	}
	if !env.Success || len(env.Data) == 0 {
		return nil, fmt.Errorf("transcription %s has no data", id)
	}

	if errs := validation.ValidateTranscriptBytes(env.Data); len(errs) > 0 {
		return nil, fmt.Errorf("transcript %s failed validation: %s", id, strings.Join(errs, "; "))
	}

	var transcript models.Transcript
	if err := json.Unmarshal(env.Data, &transcript); err != nil {
		return nil, fmt.Errorf("transcriptions decode: %w", err)
	}

	return &Result{
		Transcript: &transcript,
		AudioFile:  env.AudioFile,
		Filename:   env.Filename,
	}, nil
}
