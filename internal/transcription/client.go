// Package transcription forwards archived call batches to the remote
// transcription service. Archives take a wholly different path from per-file
// uploads: the zip is submitted as-is and the service runs its own pipeline.
package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"
)

// Ack is the transcription service's acceptance response for an archive.
type Ack struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Client submits archives over HTTP.
type Client struct {
	baseURL string
	c       *http.Client
}

// NewClient creates a transcription client against baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		c:       &http.Client{Timeout: 10 * time.Minute},
	}
}

// InspectArchive opens the zip at path and returns the number of file
// entries. An unreadable or empty archive is an error; there is no point
// forwarding a batch the service cannot transcribe.
func InspectArchive(path string) (int, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return 0, fmt.Errorf("opening archive %s: %w", filepath.Base(path), err)
	}
	defer r.Close()

	count := 0
	for _, f := range r.File {
		if !f.FileInfo().IsDir() {
			count++
		}
	}
	if count == 0 {
		return 0, fmt.Errorf("archive %s contains no files", filepath.Base(path))
	}
	return count, nil
}

// SubmitArchive inspects the zip at path and forwards it whole to the
// transcription endpoint as a multipart upload.
func (c *Client) SubmitArchive(ctx context.Context, path string) (*Ack, error) {
	if _, err := InspectArchive(path); err != nil {
		return nil, err
	}

	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/transcribe", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("transcribe %s: %s", resp.Status, string(body))
	}

	var ack Ack
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return nil, fmt.Errorf("transcribe decode: %w", err)
	}
	return &ack, nil
}
