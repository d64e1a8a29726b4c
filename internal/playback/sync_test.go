package playback

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cs4273g/callreview/internal/models"
)

func TestActiveSegment(t *testing.T) {
	segments := []models.Segment{
		{Speaker: "dispatcher", Text: "911, what is the address?", Start: 0, End: 5},
		{Speaker: "caller", Text: "123 Main Street", Start: 8, End: 12},
	}

	t.Run("time inside a segment", func(t *testing.T) {
		idx, ok := ActiveSegment(segments, 3)
		require.True(t, ok)
		require.Equal(t, 0, idx)

		idx, ok = ActiveSegment(segments, 10)
		require.True(t, ok)
		require.Equal(t, 1, idx)
	})

	t.Run("gap resolves to the last finished segment", func(t *testing.T) {
		idx, ok := ActiveSegment(segments, 6)
		require.True(t, ok)
		require.Equal(t, 0, idx)
	})

	t.Run("boundaries are inclusive", func(t *testing.T) {
		idx, ok := ActiveSegment(segments, 0)
		require.True(t, ok)
		require.Equal(t, 0, idx)

		idx, ok = ActiveSegment(segments, 5)
		require.True(t, ok)
		require.Equal(t, 0, idx)

		idx, ok = ActiveSegment(segments, 12)
		require.True(t, ok)
		require.Equal(t, 1, idx)
	})

	t.Run("before the first segment defaults to index 0", func(t *testing.T) {
		idx, ok := ActiveSegment(segments, -1)
		require.True(t, ok)
		require.Equal(t, 0, idx)
	})

	t.Run("past the last segment sticks to the last", func(t *testing.T) {
		idx, ok := ActiveSegment(segments, 100)
		require.True(t, ok)
		require.Equal(t, 1, idx)
	})

	t.Run("gap between later segments picks the most recent finished", func(t *testing.T) {
		three := append(segments, models.Segment{Start: 20, End: 25})
		idx, ok := ActiveSegment(three, 15)
		require.True(t, ok)
		require.Equal(t, 1, idx)
	})

	t.Run("empty segment list is a defined no-transcript state", func(t *testing.T) {
		for _, tm := range []float64{-1, 0, 3, 100} {
			idx, ok := ActiveSegment(nil, tm)
			require.False(t, ok)
			require.Equal(t, -1, idx)
		}
	})
}
