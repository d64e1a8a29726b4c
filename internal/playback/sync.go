// Package playback maps an advancing audio playback position onto the
// discrete speaker-turn segments of a transcript.
package playback

import "github.com/cs4273g/callreview/internal/models"

// ActiveSegment returns the index of the segment considered "currently
// spoken" at time t (seconds). It is a pure function of (segments, t):
//
//   - the active segment is the first one whose interval contains t;
//   - in a gap between segments it is the most recent segment that has
//     already finished (last index with end < t, scanning backward);
//   - before any segment has finished it defaults to index 0.
//
// An empty segment list means "no transcript loaded": ok is false and the
// index is -1. Callers must treat that distinctly from an out-of-range time,
// which still resolves to a segment.
func ActiveSegment(segments []models.Segment, t float64) (index int, ok bool) {
	if len(segments) == 0 {
		return -1, false
	}

	for i, seg := range segments {
		if t >= seg.Start && t <= seg.End {
			return i, true
		}
	}

	for i := len(segments) - 1; i >= 0; i-- {
		if t > segments[i].End {
			return i, true
		}
	}

	return 0, true
}
