package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kubev2v/job-tracker/internal/store/model"
	"github.com/kubev2v/job-tracker/pkg/slot"
	"go.uber.org/zap"
)

type LocalOption func(*LocalJobStore)

// WithLatency delays every operation, mimicking a remote round trip.
func WithLatency(d time.Duration) LocalOption {
	return func(s *LocalJobStore) {
		s.latency = d
	}
}

func WithIDGenerator(g *IDGenerator) LocalOption {
	return func(s *LocalJobStore) {
		s.ids = g
	}
}

// LocalJobStore keeps every record in memory and mirrors the full set to a
// slot after each mutation. The slot is read once, at construction.
type LocalJobStore struct {
	mu      sync.Mutex
	records []model.JobRecord
	slot    slot.Slot
	ids     *IDGenerator
	latency time.Duration
}

var _ Job = (*LocalJobStore)(nil)

func NewLocalJobStore(s slot.Slot, opts ...LocalOption) (*LocalJobStore, error) {
	js := &LocalJobStore{
		slot:    s,
		ids:     NewIDGenerator(),
		records: []model.JobRecord{},
	}
	for _, o := range opts {
		o(js)
	}

	if _, err := s.Load(&js.records); err != nil {
		return nil, fmt.Errorf("loading jobs: %w", err)
	}
	if js.records == nil {
		js.records = []model.JobRecord{}
	}
	for _, r := range js.records {
		js.ids.Observe(r.ID)
	}
	zap.S().Named("local_store").Debugf("loaded %d jobs", len(js.records))

	return js, nil
}

func (s *LocalJobStore) List(ctx context.Context, userID string) ([]model.Job, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := []model.Job{}
	for _, r := range s.records {
		if r.UserID == userID {
			jobs = append(jobs, r.Job)
		}
	}
	sortNewestFirst(jobs)
	return jobs, nil
}

func (s *LocalJobStore) Create(ctx context.Context, userID string, form model.JobForm) (*model.Job, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, createdAt := s.ids.Next()
	record := model.NewJobRecord(id, userID, createdAt, form)

	s.records = append(s.records, record)
	if err := s.save(); err != nil {
		s.records = s.records[:len(s.records)-1]
		return nil, err
	}

	job := record.Job
	return &job, nil
}

func (s *LocalJobStore) Update(ctx context.Context, userID, id string, patch model.JobPatch) (*model.Job, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.find(userID, id)
	if idx < 0 {
		return nil, ErrRecordNotFound
	}

	previous := s.records[idx]
	patch.Apply(&s.records[idx].Job)
	if err := s.save(); err != nil {
		s.records[idx] = previous
		return nil, err
	}

	job := s.records[idx].Job
	return &job, nil
}

func (s *LocalJobStore) Delete(ctx context.Context, userID, id string) (bool, error) {
	if err := s.wait(ctx); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.find(userID, id)
	if idx < 0 {
		return false, nil
	}

	previous := s.records
	remaining := make([]model.JobRecord, 0, len(s.records)-1)
	remaining = append(remaining, s.records[:idx]...)
	remaining = append(remaining, s.records[idx+1:]...)
	s.records = remaining
	if err := s.save(); err != nil {
		s.records = previous
		return false, err
	}
	return true, nil
}

func (s *LocalJobStore) find(userID, id string) int {
	for i, r := range s.records {
		if r.ID == id && r.UserID == userID {
			return i
		}
	}
	return -1
}

// save must be called with mu held.
func (s *LocalJobStore) save() error {
	if err := s.slot.Save(s.records); err != nil {
		return fmt.Errorf("saving jobs: %w", err)
	}
	return nil
}

func (s *LocalJobStore) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type LocalStore struct {
	jobs *LocalJobStore
}

var _ Store = (*LocalStore)(nil)

func NewLocalStore(s slot.Slot, opts ...LocalOption) (*LocalStore, error) {
	jobs, err := NewLocalJobStore(s, opts...)
	if err != nil {
		return nil, err
	}
	return &LocalStore{jobs: jobs}, nil
}

func (l *LocalStore) Job() Job {
	return l.jobs
}

func (l *LocalStore) InitialMigration(_ context.Context) error {
	return nil
}

func (l *LocalStore) Close() error {
	return nil
}
