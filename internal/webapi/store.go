package webapi

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cs4273g/callreview/internal/models"
	"github.com/cs4273g/callreview/internal/store"
)

// DispatcherStore provides read access to the aggregated dispatcher records.
type DispatcherStore interface {
	// ListDispatchers returns all dispatchers, sorted by the given field and order.
	ListDispatchers(sortField, order string) ([]DispatcherSummary, error)
	// GetDispatcher returns one dispatcher with full per-file grading detail.
	GetDispatcher(name string) (*DispatcherDetail, error)
	// Summary returns aggregate metrics across all dispatchers.
	Summary() (*SummaryResponse, error)
}

// StoreReader is a read-through cache over the aggregate store. The durable
// store stays authoritative: the cache is dropped whenever the change bus
// signals, and lazily refilled on the next read.
type StoreReader struct {
	store *store.AggregateStore

	mu     sync.RWMutex
	cached []models.Dispatcher
	valid  bool
}

// NewStoreReader creates a StoreReader over s.
func NewStoreReader(s *store.AggregateStore) *StoreReader {
	return &StoreReader{store: s}
}

// Invalidate drops the cached collection.
func (r *StoreReader) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.valid = false
	r.cached = nil
}

// Watch invalidates the cache on every signal from changes until ctx ends.
func (r *StoreReader) Watch(ctx context.Context, changes <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			r.Invalidate()
		}
	}
}

func (r *StoreReader) load() ([]models.Dispatcher, error) {
	r.mu.RLock()
	if r.valid {
		cached := r.cached
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	dispatchers, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cached = dispatchers
	r.valid = true
	r.mu.Unlock()
	return dispatchers, nil
}

func toSummary(d *models.Dispatcher) DispatcherSummary {
	s := DispatcherSummary{
		ID:              d.ID,
		Name:            d.Name,
		TranscriptCount: len(d.Files.TranscriptFiles),
		AudioCount:      len(d.Files.AudioFiles),
	}
	for _, f := range d.Files.TranscriptFiles {
		if d.Grades[f] != nil {
			s.GradedCount++
		}
	}
	if grade, ok := store.OverallGrade(d); ok {
		s.OverallGrade = &grade
	}
	return s
}

func toDetail(d *models.Dispatcher) *DispatcherDetail {
	detail := &DispatcherDetail{
		DispatcherSummary: toSummary(d),
		AudioFiles:        append([]string{}, d.Files.AudioFiles...),
		TranscriptFiles:   []TranscriptFileDetail{},
	}
	for _, f := range d.Files.TranscriptFiles {
		grade, attempted := d.Grades[f]
		detail.TranscriptFiles = append(detail.TranscriptFiles, TranscriptFileDetail{
			Filename:  f,
			Attempted: attempted,
			Grade:     grade,
		})
	}
	return detail
}

// ListDispatchers returns all dispatchers sorted by the given field and order.
func (r *StoreReader) ListDispatchers(sortField, order string) ([]DispatcherSummary, error) {
	dispatchers, err := r.load()
	if err != nil {
		return nil, err
	}

	summaries := make([]DispatcherSummary, 0, len(dispatchers))
	for i := range dispatchers {
		summaries = append(summaries, toSummary(&dispatchers[i]))
	}

	sortSummaries(summaries, sortField, order)
	return summaries, nil
}

// GetDispatcher returns one dispatcher with per-file grading detail.
func (r *StoreReader) GetDispatcher(name string) (*DispatcherDetail, error) {
	dispatchers, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range dispatchers {
		if dispatchers[i].Name == name {
			return toDetail(&dispatchers[i]), nil
		}
	}
	return nil, store.ErrDispatcherNotFound
}

// Summary returns aggregate metrics across all dispatchers.
func (r *StoreReader) Summary() (*SummaryResponse, error) {
	dispatchers, err := r.load()
	if err != nil {
		return nil, err
	}

	resp := &SummaryResponse{TotalDispatchers: len(dispatchers)}
	var gradeSum float64
	var gradedDispatchers int

	for i := range dispatchers {
		d := &dispatchers[i]
		resp.TotalTranscripts += len(d.Files.TranscriptFiles)
		resp.TotalAudioFiles += len(d.Files.AudioFiles)
		for _, f := range d.Files.TranscriptFiles {
			if d.Grades[f] != nil {
				resp.GradedFiles++
			}
		}
		if grade, ok := store.OverallGrade(d); ok {
			gradeSum += grade
			gradedDispatchers++
		}
	}

	if gradedDispatchers > 0 {
		avg := gradeSum / float64(gradedDispatchers)
		resp.AvgOverallGrade = &avg
	}
	return resp, nil
}

func sortSummaries(summaries []DispatcherSummary, field, order string) {
	less := func(i, j int) bool {
		switch field {
		case "grade":
			gi, gj := -1.0, -1.0
			if summaries[i].OverallGrade != nil {
				gi = *summaries[i].OverallGrade
			}
			if summaries[j].OverallGrade != nil {
				gj = *summaries[j].OverallGrade
			}
			return gi < gj
		case "files":
			return summaries[i].TranscriptCount+summaries[i].AudioCount <
				summaries[j].TranscriptCount+summaries[j].AudioCount
		default: // "name" or empty
			return strings.ToLower(summaries[i].Name) < strings.ToLower(summaries[j].Name)
		}
	}

	if order == "desc" {
		sort.Slice(summaries, func(i, j int) bool { return less(j, i) })
	} else {
		sort.Slice(summaries, less)
	}
}

// Ensure StoreReader satisfies DispatcherStore.
var _ DispatcherStore = (*StoreReader)(nil)
