package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cs4273g/callreview/internal/classify"
	"github.com/cs4273g/callreview/internal/models"
	"github.com/cs4273g/callreview/internal/store"
)

func seedRecords(t *testing.T, dir string) {
	t.Helper()
	kv, err := store.NewFileKV(filepath.Join(dir, "records"))
	require.NoError(t, err)
	agg := store.New(kv, nil)

	require.NoError(t, agg.UpsertFile("JaneDoe", "911_call_JaneDoe.json", classify.CategoryTranscript))
	require.NoError(t, agg.UpsertFile("JaneDoe", "911_call_JaneDoe.mp3", classify.CategoryAudio))
	require.NoError(t, agg.AttachGrade("JaneDoe", "911_call_JaneDoe.json", &models.FileGrade{
		GradePercentage:    85,
		DetectedNatureCode: "17",
		PerQuestion: map[string]models.QuestionResult{
			"q1": {Code: models.CodeAskedCorrectly, Label: "What is the address?", Status: "Asked Correctly"},
			"q2": {Code: models.CodeNotAsked, Label: "Any weapons involved?", Status: "Not Asked"},
		},
	}))
	require.NoError(t, agg.UpsertFile("AlexRoe", "911_call_AlexRoe.json", classify.CategoryTranscript))
	require.NoError(t, agg.AttachGrade("AlexRoe", "911_call_AlexRoe.json", nil))
}

func TestRecordsCommand(t *testing.T) {
	t.Run("empty store prints a hint", func(t *testing.T) {
		setupWorkspace(t, "http://unused.invalid")
		out, err := runCommand(t, "records")
		require.NoError(t, err)
		require.Contains(t, out, "No dispatcher records yet")
	})

	t.Run("table lists every dispatcher", func(t *testing.T) {
		dir := setupWorkspace(t, "http://unused.invalid")
		seedRecords(t, dir)

		out, err := runCommand(t, "records")
		require.NoError(t, err)
		require.Contains(t, out, "JaneDoe")
		require.Contains(t, out, "AlexRoe")
		require.Contains(t, out, "85.0%")
		// A dispatcher with no recorded grade has no overall grade.
		require.Contains(t, out, "n/a")
	})

	t.Run("detail shows per-question statuses", func(t *testing.T) {
		dir := setupWorkspace(t, "http://unused.invalid")
		seedRecords(t, dir)

		out, err := runCommand(t, "records", "JaneDoe")
		require.NoError(t, err)
		require.Contains(t, out, "Overall grade: 85.0%")
		require.Contains(t, out, "nature code 17")
		require.Contains(t, out, "What is the address?")
		require.Contains(t, out, "Asked Correctly")
		require.Contains(t, out, "911_call_JaneDoe.mp3")
	})

	t.Run("attempted but ungraded files are called out", func(t *testing.T) {
		dir := setupWorkspace(t, "http://unused.invalid")
		seedRecords(t, dir)

		out, err := runCommand(t, "records", "AlexRoe")
		require.NoError(t, err)
		require.Contains(t, out, "grading failed")
		require.Contains(t, out, "Overall grade: n/a")
	})

	t.Run("unknown dispatcher is an error", func(t *testing.T) {
		setupWorkspace(t, "http://unused.invalid")
		_, err := runCommand(t, "records", "Nobody")
		require.Error(t, err)
		require.ErrorIs(t, err, store.ErrDispatcherNotFound)
	})
}
