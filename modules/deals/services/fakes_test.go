package services_test

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/modules/deals/domain/aggregates/job"
	"github.com/iota-uz/recruiting-crm/modules/deals/domain/entities/split"
)

type memStore struct {
	mu     sync.Mutex
	jobs   map[uuid.UUID]*job.Job
	splits map[uuid.UUID][]split.Split
	// failInsert makes the next Insert fail after the delete already ran.
	failInsert error
}

func newMemStore() *memStore {
	return &memStore{
		jobs:   map[uuid.UUID]*job.Job{},
		splits: map[uuid.UUID][]split.Split{},
	}
}

func (s *memStore) Snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := maps.Clone(s.jobs)
	splits := maps.Clone(s.splits)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.jobs = jobs
		s.splits = splits
	}
}

func (s *memStore) splitsOf(jobID uuid.UUID) []split.Split {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.splits[jobID]
}

type jobRepo struct{ s *memStore }

func (r jobRepo) GetByID(_ context.Context, id uuid.UUID) (*job.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.jobs[id]
	if !ok {
		return nil, job.ErrNotFound
	}
	return j, nil
}

func (r jobRepo) LockByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	return r.GetByID(ctx, id)
}

func (r jobRepo) List(_ context.Context) ([]*job.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*job.Job, 0, len(r.s.jobs))
	for _, j := range r.s.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt().After(out[k].CreatedAt()) })
	return out, nil
}

func (r jobRepo) Create(_ context.Context, j *job.Job) (*job.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.jobs[j.ID()] = j
	return j, nil
}

type splitRepo struct{ s *memStore }

func (r splitRepo) ListByJob(_ context.Context, jobID uuid.UUID) ([]split.Split, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]split.Split{}, r.s.splits[jobID]...), nil
}

func (r splitRepo) DeleteByJob(_ context.Context, jobID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := int64(len(r.s.splits[jobID]))
	delete(r.s.splits, jobID)
	return n, nil
}

func (r splitRepo) Insert(_ context.Context, splits []split.Split) ([]split.Split, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failInsert; err != nil {
		r.s.failInsert = nil
		return nil, err
	}
	if len(splits) == 0 {
		return []split.Split{}, nil
	}
	jobID := splits[0].JobID
	r.s.splits[jobID] = append([]split.Split{}, splits...)
	return append([]split.Split{}, splits...), nil
}
