package transcription

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestInspectArchive(t *testing.T) {
	t.Run("counts file entries", func(t *testing.T) {
		path := writeArchive(t, map[string]string{
			"911_call_JaneDoe.wav": "RIFF",
			"911_call_JohnRoe.wav": "RIFF",
		})
		count, err := InspectArchive(path)
		require.NoError(t, err)
		require.Equal(t, 2, count)
	})

	t.Run("empty archive is rejected", func(t *testing.T) {
		path := writeArchive(t, nil)
		_, err := InspectArchive(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "contains no files")
	})

	t.Run("not a zip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.zip")
		require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))
		_, err := InspectArchive(path)
		require.Error(t, err)
	})
}

func TestSubmitArchive(t *testing.T) {
	t.Run("forwards the archive as multipart", func(t *testing.T) {
		path := writeArchive(t, map[string]string{"911_call_JaneDoe.wav": "RIFF"})

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/transcribe", r.URL.Path)
			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			require.Equal(t, "batch.zip", header.Filename)

			io.WriteString(w, `{"success": true, "id": "job-1", "message": "queued"}`)
		}))
		defer srv.Close()

		ack, err := NewClient(srv.URL).SubmitArchive(context.Background(), path)
		require.NoError(t, err)
		require.True(t, ack.Success)
		require.Equal(t, "job-1", ack.ID)
	})

	t.Run("service rejection surfaces status and body", func(t *testing.T) {
		path := writeArchive(t, map[string]string{"a.wav": "RIFF"})

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "unsupported audio format", http.StatusUnprocessableEntity)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).SubmitArchive(context.Background(), path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "422")
	})

	t.Run("empty archive never reaches the network", func(t *testing.T) {
		path := writeArchive(t, nil)

		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			called = true
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).SubmitArchive(context.Background(), path)
		require.Error(t, err)
		require.False(t, called)
	})
}
