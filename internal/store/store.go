package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cs4273g/callreview/internal/classify"
	"github.com/cs4273g/callreview/internal/models"
)

// collectionKey is the fixed key the whole dispatcher collection lives under.
const collectionKey = "dispatchers"

// ErrDispatcherNotFound is returned when a name does not match any record.
var ErrDispatcherNotFound = errors.New("dispatcher not found")

// AggregateStore is the durable per-dispatcher record store. Every mutation
// is a full read-modify-write of the collection under collectionKey; callers
// must serialize mutations (the grading pipeline runs strictly sequentially,
// which is what makes this safe without a separate lock).
type AggregateStore struct {
	kv  KV
	bus *Bus
}

// New creates an AggregateStore over kv, publishing change notifications on
// bus. A nil bus disables notifications.
func New(kv KV, bus *Bus) *AggregateStore {
	return &AggregateStore{kv: kv, bus: bus}
}

// Load reads the full dispatcher collection. An absent key is an empty
// collection, not an error; a corrupt value propagates as a fatal error.
func (s *AggregateStore) Load() ([]models.Dispatcher, error) {
	raw, found, err := s.kv.Get(collectionKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var dispatchers []models.Dispatcher
	if err := json.Unmarshal([]byte(raw), &dispatchers); err != nil {
		return nil, fmt.Errorf("decoding dispatcher collection: %w", err)
	}
	return dispatchers, nil
}

// Get returns the record for name.
func (s *AggregateStore) Get(name string) (*models.Dispatcher, error) {
	dispatchers, err := s.Load()
	if err != nil {
		return nil, err
	}
	for i := range dispatchers {
		if dispatchers[i].Name == name {
			return &dispatchers[i], nil
		}
	}
	return nil, ErrDispatcherNotFound
}

// UpsertFile appends filename to the dispatcher's transcript or audio list,
// creating the record on first reference to name. The append is idempotent:
// re-uploading the same filename leaves the list unchanged.
func (s *AggregateStore) UpsertFile(name, filename string, category classify.Category) error {
	return s.mutate(name, func(d *models.Dispatcher) {
		switch category {
		case classify.CategoryTranscript:
			if !models.HasFile(d.Files.TranscriptFiles, filename) {
				d.Files.TranscriptFiles = append(d.Files.TranscriptFiles, filename)
			}
		default:
			if !models.HasFile(d.Files.AudioFiles, filename) {
				d.Files.AudioFiles = append(d.Files.AudioFiles, filename)
			}
		}
	})
}

// AttachGrade records the grading outcome for filename, overwriting any
// previous entry. A nil grade still creates the map entry: that is the
// "attempted, ungraded" state, distinct from the key being absent.
func (s *AggregateStore) AttachGrade(name, filename string, grade *models.FileGrade) error {
	return s.mutate(name, func(d *models.Dispatcher) {
		if d.Grades == nil {
			d.Grades = make(map[string]*models.FileGrade)
		}
		d.Grades[filename] = grade
	})
}

// mutate runs the load / find-or-create / write-back cycle and notifies the
// bus exactly once on success.
func (s *AggregateStore) mutate(name string, apply func(*models.Dispatcher)) error {
	dispatchers, err := s.Load()
	if err != nil {
		return err
	}

	idx := -1
	for i := range dispatchers {
		if dispatchers[i].Name == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		dispatchers = append(dispatchers, models.Dispatcher{
			ID:   uuid.NewString(),
			Name: name,
		})
		idx = len(dispatchers) - 1
	}

	apply(&dispatchers[idx])

	raw, err := json.Marshal(dispatchers)
	if err != nil {
		return fmt.Errorf("encoding dispatcher collection: %w", err)
	}
	if err := s.kv.Set(collectionKey, string(raw)); err != nil {
		return err
	}

	if s.bus != nil {
		s.bus.Notify()
	}
	return nil
}

// OverallGrade computes the mean grade percentage across the dispatcher's
// graded transcript files. Files without a recorded grade are excluded from
// both numerator and denominator; with zero graded files the overall grade is
// undefined and ok is false.
func OverallGrade(d *models.Dispatcher) (grade float64, ok bool) {
	var sum float64
	var count int
	for _, filename := range d.Files.TranscriptFiles {
		if g := d.Grades[filename]; g != nil {
			sum += g.GradePercentage
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
