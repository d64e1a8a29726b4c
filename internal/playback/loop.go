package playback

import (
	"context"
	"sync"
	"time"

	"github.com/cs4273g/callreview/internal/models"
)

// Update is one recomputed active-segment value delivered to the consumer.
type Update struct {
	Index int
	// HasSegment is false while no transcript is loaded.
	HasSegment bool
}

// Synchronizer owns the current transcript and drives the polling loop that
// keeps an observable active-segment value in step with audio playback.
//
// The only hidden state is the identity of the most recent segment list:
// swapping the transcript invalidates any loop started against the previous
// one, so a stale loop can never deliver updates computed from old segments.
type Synchronizer struct {
	mu         sync.Mutex
	segments   []models.Segment
	generation uint64
}

// NewSynchronizer creates a Synchronizer with no transcript loaded.
func NewSynchronizer() *Synchronizer {
	return &Synchronizer{}
}

// SetTranscript replaces the segment list. Any running loop stops on its next
// tick; playback conceptually restarts at the beginning of the new list.
func (s *Synchronizer) SetTranscript(segments []models.Segment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.segments = segments
	s.generation++
}

func (s *Synchronizer) snapshot() ([]models.Segment, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.segments, s.generation
}

// ActiveAt computes the active segment for the currently loaded transcript.
func (s *Synchronizer) ActiveAt(t float64) Update {
	segments, _ := s.snapshot()
	idx, ok := ActiveSegment(segments, t)
	return Update{Index: idx, HasSegment: ok}
}

// Run polls position every interval and calls update with the recomputed
// active segment whenever it changes. It blocks until ctx is cancelled or the
// transcript is swapped out from under it; in both cases it returns without
// delivering further updates. Start it when playback starts and cancel ctx on
// pause or when the audio source changes.
func (s *Synchronizer) Run(ctx context.Context, interval time.Duration, position func() float64, update func(Update)) {
	segments, generation := s.snapshot()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := Update{Index: -1}
	delivered := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, g := s.snapshot(); g != generation {
				return
			}
			idx, ok := ActiveSegment(segments, position())
			u := Update{Index: idx, HasSegment: ok}
			if !delivered || u != last {
				update(u)
				last = u
				delivered = true
			}
		}
	}
}
