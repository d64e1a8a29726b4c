package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cs4273g/callreview/internal/classify"
	"github.com/cs4273g/callreview/internal/models"
)

func TestUpsertFile(t *testing.T) {
	t.Run("creates dispatcher lazily on first reference", func(t *testing.T) {
		s := New(NewMemoryKV(), nil)

		require.NoError(t, s.UpsertFile("JaneDoe", "911_call_JaneDoe.json", classify.CategoryTranscript))

		d, err := s.Get("JaneDoe")
		require.NoError(t, err)
		require.NotEmpty(t, d.ID)
		require.Equal(t, []string{"911_call_JaneDoe.json"}, d.Files.TranscriptFiles)
		require.Empty(t, d.Files.AudioFiles)
	})

	t.Run("same name merges into one record", func(t *testing.T) {
		s := New(NewMemoryKV(), nil)

		require.NoError(t, s.UpsertFile("JaneDoe", "911_call_JaneDoe.json", classify.CategoryTranscript))
		require.NoError(t, s.UpsertFile("JaneDoe", "911_call_JaneDoe.mp3", classify.CategoryAudio))

		dispatchers, err := s.Load()
		require.NoError(t, err)
		require.Len(t, dispatchers, 1)
		require.Equal(t, []string{"911_call_JaneDoe.json"}, dispatchers[0].Files.TranscriptFiles)
		require.Equal(t, []string{"911_call_JaneDoe.mp3"}, dispatchers[0].Files.AudioFiles)
	})

	t.Run("repeated upload of the same file is idempotent", func(t *testing.T) {
		s := New(NewMemoryKV(), nil)

		for i := 0; i < 3; i++ {
			require.NoError(t, s.UpsertFile("JaneDoe", "911_call_JaneDoe.json", classify.CategoryTranscript))
		}

		d, err := s.Get("JaneDoe")
		require.NoError(t, err)
		require.Equal(t, []string{"911_call_JaneDoe.json"}, d.Files.TranscriptFiles)
	})

	t.Run("identity survives reloads", func(t *testing.T) {
		kv := NewMemoryKV()
		s := New(kv, nil)
		require.NoError(t, s.UpsertFile("JaneDoe", "911_call_JaneDoe.json", classify.CategoryTranscript))

		first, err := s.Get("JaneDoe")
		require.NoError(t, err)

		// A fresh store over the same KV sees the same record.
		s2 := New(kv, nil)
		require.NoError(t, s2.UpsertFile("JaneDoe", "911_call_JaneDoe.wav", classify.CategoryAudio))
		second, err := s2.Get("JaneDoe")
		require.NoError(t, err)
		require.Equal(t, first.ID, second.ID)
	})
}

func TestAttachGrade(t *testing.T) {
	t.Run("three-state distinction", func(t *testing.T) {
		s := New(NewMemoryKV(), nil)
		require.NoError(t, s.UpsertFile("JaneDoe", "a.json", classify.CategoryTranscript))
		require.NoError(t, s.UpsertFile("JaneDoe", "b.json", classify.CategoryTranscript))

		require.NoError(t, s.AttachGrade("JaneDoe", "a.json", &models.FileGrade{GradePercentage: 80}))
		require.NoError(t, s.AttachGrade("JaneDoe", "b.json", nil))

		d, err := s.Get("JaneDoe")
		require.NoError(t, err)

		graded, present := d.Grades["a.json"]
		require.True(t, present)
		require.NotNil(t, graded)

		ungraded, present := d.Grades["b.json"]
		require.True(t, present)
		require.Nil(t, ungraded)

		_, present = d.Grades["never-attempted.json"]
		require.False(t, present)
	})

	t.Run("three states survive the JSON round-trip", func(t *testing.T) {
		kv := NewMemoryKV()
		s := New(kv, nil)
		require.NoError(t, s.AttachGrade("JaneDoe", "a.json", &models.FileGrade{GradePercentage: 80}))
		require.NoError(t, s.AttachGrade("JaneDoe", "b.json", nil))

		d, err := New(kv, nil).Get("JaneDoe")
		require.NoError(t, err)
		require.NotNil(t, d.Grades["a.json"])
		g, present := d.Grades["b.json"]
		require.True(t, present)
		require.Nil(t, g)
	})

	t.Run("re-grade overwrites", func(t *testing.T) {
		s := New(NewMemoryKV(), nil)
		require.NoError(t, s.AttachGrade("JaneDoe", "a.json", nil))
		require.NoError(t, s.AttachGrade("JaneDoe", "a.json", &models.FileGrade{GradePercentage: 90}))

		d, err := s.Get("JaneDoe")
		require.NoError(t, err)
		require.NotNil(t, d.Grades["a.json"])
		require.Equal(t, 90.0, d.Grades["a.json"].GradePercentage)
	})
}

func TestOverallGrade(t *testing.T) {
	t.Run("zero graded files is undefined, not zero", func(t *testing.T) {
		d := &models.Dispatcher{
			Files: models.FileSet{TranscriptFiles: []string{"a.json"}},
		}
		_, ok := OverallGrade(d)
		require.False(t, ok)
	})

	t.Run("ungraded files excluded from the average", func(t *testing.T) {
		d := &models.Dispatcher{
			Files: models.FileSet{TranscriptFiles: []string{"a.json", "b.json"}},
			Grades: map[string]*models.FileGrade{
				"a.json": {GradePercentage: 80},
				"b.json": nil,
			},
		}
		grade, ok := OverallGrade(d)
		require.True(t, ok)
		require.Equal(t, 80.0, grade)
	})

	t.Run("mean across graded files", func(t *testing.T) {
		d := &models.Dispatcher{
			Files: models.FileSet{TranscriptFiles: []string{"a.json", "b.json"}},
			Grades: map[string]*models.FileGrade{
				"a.json": {GradePercentage: 80},
				"b.json": {GradePercentage: 60},
			},
		}
		grade, ok := OverallGrade(d)
		require.True(t, ok)
		require.Equal(t, 70.0, grade)
	})
}

func TestBusNotifications(t *testing.T) {
	t.Run("one notification per mutation", func(t *testing.T) {
		bus := NewBus()
		ch := bus.Subscribe()
		s := New(NewMemoryKV(), bus)

		require.NoError(t, s.UpsertFile("JaneDoe", "a.json", classify.CategoryTranscript))
		select {
		case <-ch:
		default:
			t.Fatal("expected a change notification after UpsertFile")
		}

		require.NoError(t, s.AttachGrade("JaneDoe", "a.json", nil))
		select {
		case <-ch:
		default:
			t.Fatal("expected a change notification after AttachGrade")
		}
	})

	t.Run("delivery coalesces for slow subscribers", func(t *testing.T) {
		bus := NewBus()
		ch := bus.Subscribe()
		s := New(NewMemoryKV(), bus)

		require.NoError(t, s.UpsertFile("JaneDoe", "a.json", classify.CategoryTranscript))
		require.NoError(t, s.UpsertFile("JaneDoe", "b.json", classify.CategoryTranscript))

		<-ch
		select {
		case <-ch:
			t.Fatal("expected pending notifications to coalesce into one")
		default:
		}
	})
}

func TestFileKV(t *testing.T) {
	t.Run("round-trip", func(t *testing.T) {
		kv, err := NewFileKV(t.TempDir())
		require.NoError(t, err)

		_, found, err := kv.Get("dispatchers")
		require.NoError(t, err)
		require.False(t, found)

		require.NoError(t, kv.Set("dispatchers", `[{"name":"JaneDoe"}]`))

		v, found, err := kv.Get("dispatchers")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, `[{"name":"JaneDoe"}]`, v)
	})

	t.Run("overwrite replaces the whole value", func(t *testing.T) {
		kv, err := NewFileKV(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, kv.Set("k", "one"))
		require.NoError(t, kv.Set("k", "two"))

		v, _, err := kv.Get("k")
		require.NoError(t, err)
		require.Equal(t, "two", v)
	})
}
