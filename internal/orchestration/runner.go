// Package orchestration drives a classified upload batch through grading and
// reconciles every outcome, success or failure, into the aggregate store.
package orchestration

import (
	"context"
	"fmt"
	"sync"

	"github.com/cs4273g/callreview/internal/classify"
	"github.com/cs4273g/callreview/internal/grading"
	"github.com/cs4273g/callreview/internal/store"
)

// Item is one classified file awaiting processing. Content is the raw
// transcript body for transcript items and is unused for audio items.
type Item struct {
	Dispatcher string
	Filename   string
	Content    []byte
}

// Batch is a classified upload: audio items persist immediately, transcript
// items go through the grading service one at a time, in order.
type Batch struct {
	Audio       []Item
	Transcripts []Item
}

// EventType identifies a progress event.
type EventType string

// Progress event types.
const (
	EventBatchStart    EventType = "batch_start"
	EventFileStart     EventType = "file_start"
	EventFileGraded    EventType = "file_graded"
	EventFileFailed    EventType = "file_failed"
	EventBatchComplete EventType = "batch_complete"
)

// ProgressEvent is a progress update emitted while a batch runs.
type ProgressEvent struct {
	EventType  EventType
	Dispatcher string
	Filename   string
	FileNum    int
	TotalFiles int
	Err        string
}

// ProgressListener receives progress updates.
type ProgressListener func(event ProgressEvent)

// BatchRunner orchestrates grading for one upload batch. Transcripts are
// processed strictly sequentially, one grading call fully resolved before the
// next begins. That keeps the store's full-collection read-modify-write
// race-free and keeps progress messages in a coherent one-at-a-time order.
type BatchRunner struct {
	store *store.AggregateStore
	svc   grading.Service

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// NewBatchRunner creates a runner over the given store and grading service.
func NewBatchRunner(s *store.AggregateStore, svc grading.Service) *BatchRunner {
	return &BatchRunner{store: s, svc: svc}
}

// OnProgress registers a progress listener.
func (r *BatchRunner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *BatchRunner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Outcome is the bookkeeping for one completed batch.
type Outcome struct {
	SuccessCount int
	ErrorCount   int

	// Errors holds one "<filename>: <message>" entry per failed grading call.
	Errors []string

	// Pending lists files still awaiting processing. After a run that was not
	// cut short by a persistence failure it is empty.
	Pending []string
}

// Run processes the batch. Audio files are persisted synchronously before any
// transcript submission starts; each transcript is then graded in order, and
// a grading failure never aborts the batch: the file is recorded as
// attempted-but-ungraded and the run continues. Only a store (persistence)
// failure is fatal, returning the partial outcome alongside the error.
func (r *BatchRunner) Run(ctx context.Context, batch Batch) (*Outcome, error) {
	// The files-pending set is explicit data threaded through the run, not
	// incidental state captured across awaited calls.
	pending := make([]string, 0, len(batch.Audio)+len(batch.Transcripts))
	for _, it := range batch.Audio {
		pending = append(pending, it.Filename)
	}
	for _, it := range batch.Transcripts {
		pending = append(pending, it.Filename)
	}

	outcome := &Outcome{}
	finish := func(err error) (*Outcome, error) {
		outcome.Pending = pending
		return outcome, err
	}

	r.notifyProgress(ProgressEvent{
		EventType:  EventBatchStart,
		TotalFiles: len(pending),
	})

	for _, it := range batch.Audio {
		if err := r.store.UpsertFile(it.Dispatcher, it.Filename, classify.CategoryAudio); err != nil {
			return finish(fmt.Errorf("storing %s: %w", it.Filename, err))
		}
		pending = remove(pending, it.Filename)
	}

	for i, it := range batch.Transcripts {
		r.notifyProgress(ProgressEvent{
			EventType:  EventFileStart,
			Dispatcher: it.Dispatcher,
			Filename:   it.Filename,
			FileNum:    i + 1,
			TotalFiles: len(batch.Transcripts),
		})

		if err := r.store.UpsertFile(it.Dispatcher, it.Filename, classify.CategoryTranscript); err != nil {
			return finish(fmt.Errorf("storing %s: %w", it.Filename, err))
		}

		grade, err := r.svc.GradeTranscript(ctx, it.Filename, it.Content)
		if err != nil {
			outcome.ErrorCount++
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("%s: %v", it.Filename, err))
			// Record the attempt so the file doesn't vanish from the record.
			if serr := r.store.AttachGrade(it.Dispatcher, it.Filename, nil); serr != nil {
				return finish(fmt.Errorf("storing %s: %w", it.Filename, serr))
			}
			pending = remove(pending, it.Filename)
			r.notifyProgress(ProgressEvent{
				EventType:  EventFileFailed,
				Dispatcher: it.Dispatcher,
				Filename:   it.Filename,
				FileNum:    i + 1,
				TotalFiles: len(batch.Transcripts),
				Err:        err.Error(),
			})
			continue
		}

		if err := r.store.AttachGrade(it.Dispatcher, it.Filename, grade); err != nil {
			return finish(fmt.Errorf("storing %s: %w", it.Filename, err))
		}
		outcome.SuccessCount++
		pending = remove(pending, it.Filename)
		r.notifyProgress(ProgressEvent{
			EventType:  EventFileGraded,
			Dispatcher: it.Dispatcher,
			Filename:   it.Filename,
			FileNum:    i + 1,
			TotalFiles: len(batch.Transcripts),
		})
	}

	r.notifyProgress(ProgressEvent{EventType: EventBatchComplete})
	return finish(nil)
}

func remove(list []string, name string) []string {
	out := list[:0]
	for _, f := range list {
		if f != name {
			out = append(out, f)
		}
	}
	return out
}
