package services_test

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/aggregates/candidate"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/entities/history"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/entities/status"
)

// memStore backs the in-memory candidate, status and history repositories.
// The mutex only protects the maps; transactional isolation comes from uowtest.
type memStore struct {
	mu         sync.Mutex
	candidates map[uuid.UUID]candidate.Candidate
	statuses   map[uuid.UUID]*status.Status
	history    []history.Entry
	clock      time.Time
}

func newMemStore() *memStore {
	return &memStore{
		candidates: map[uuid.UUID]candidate.Candidate{},
		statuses:   map[uuid.UUID]*status.Status{},
		clock:      time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) Snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidates := maps.Clone(s.candidates)
	statuses := maps.Clone(s.statuses)
	hist := slices.Clone(s.history)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.candidates = candidates
		s.statuses = statuses
		s.history = hist
	}
}

func (s *memStore) historyFor(candidateID uuid.UUID) []history.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []history.Entry
	for _, e := range s.history {
		if e.CandidateID == candidateID {
			out = append(out, e)
		}
	}
	return out
}

func (s *memStore) candidate(id uuid.UUID) candidate.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.candidates[id]
}

func (s *memStore) addStatus(st *status.Status) *status.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[st.ID()] = st
	return st
}

func (s *memStore) addCandidate(c candidate.Candidate) candidate.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[c.ID()] = c
	return c
}

type candidateRepo struct{ s *memStore }

func (r candidateRepo) GetByID(_ context.Context, id uuid.UUID) (candidate.Candidate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.candidates[id]
	if !ok {
		return nil, candidate.ErrNotFound
	}
	return c, nil
}

func (r candidateRepo) LockByID(ctx context.Context, id uuid.UUID) (candidate.Candidate, error) {
	return r.GetByID(ctx, id)
}

func (r candidateRepo) Create(_ context.Context, c candidate.Candidate) (candidate.Candidate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.statuses[c.CurrentStatusID()]; !ok {
		return nil, status.ErrNotFound
	}
	r.s.candidates[c.ID()] = c
	return c, nil
}

func (r candidateRepo) UpdateStatus(_ context.Context, id, statusID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.candidates[id]
	if !ok {
		return candidate.ErrNotFound
	}
	if _, ok := r.s.statuses[statusID]; !ok {
		return status.ErrNotFound
	}
	r.s.candidates[id] = c.MoveTo(statusID)
	return nil
}

type statusRepo struct{ s *memStore }

func (r statusRepo) List(_ context.Context) ([]*status.Status, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := slices.Collect(maps.Values(r.s.statuses))
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex() < out[j].OrderIndex() })
	return out, nil
}

func (r statusRepo) GetByID(_ context.Context, id uuid.UUID) (*status.Status, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.statuses[id]
	if !ok {
		return nil, status.ErrNotFound
	}
	return st, nil
}

func (r statusRepo) GetByName(_ context.Context, name string) (*status.Status, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.statuses {
		if strings.EqualFold(st.Name(), name) {
			return st, nil
		}
	}
	return nil, status.ErrNotFound
}

func (r statusRepo) Upsert(_ context.Context, st *status.Status) (*status.Status, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.statuses {
		if existing.Name() == st.Name() {
			updated := status.New(st.Name(), st.OrderIndex(),
				status.WithID(id),
				status.WithTerminal(st.IsTerminal()),
				status.WithCreatedAt(existing.CreatedAt()),
			)
			r.s.statuses[id] = updated
			return updated, nil
		}
	}
	r.s.statuses[st.ID()] = st
	return st, nil
}

type historyRepo struct{ s *memStore }

func (r historyRepo) Append(_ context.Context, e history.Entry) (history.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.statuses[e.ToStatusID]; !ok {
		return history.Entry{}, status.ErrNotFound
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.s.clock = r.s.clock.Add(time.Minute)
	e.ChangeDate = r.s.clock
	r.s.history = append(r.s.history, e)
	return e, nil
}

func (r historyRepo) ListByCandidate(_ context.Context, candidateID uuid.UUID) ([]history.View, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]history.View, 0)
	for i := len(r.s.history) - 1; i >= 0; i-- {
		e := r.s.history[i]
		if e.CandidateID != candidateID {
			continue
		}
		v := history.View{Entry: e}
		if st, ok := r.s.statuses[e.ToStatusID]; ok {
			v.ToStatusName = st.Name()
		}
		if st, ok := r.s.statuses[e.FromStatusID]; ok {
			v.FromStatusName = st.Name()
		}
		out = append(out, v)
	}
	return out, nil
}

func (r historyRepo) PlacementsByMonth(_ context.Context) ([]history.MonthlyPlacements, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	type key struct {
		month time.Time
		name  string
	}
	counts := map[key]int64{}
	for _, e := range r.s.history {
		st, ok := r.s.statuses[e.ToStatusID]
		if !ok || !st.IsTerminal() {
			continue
		}
		month := time.Date(e.ChangeDate.Year(), e.ChangeDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		counts[key{month, st.Name()}]++
	}
	out := make([]history.MonthlyPlacements, 0, len(counts))
	for k, n := range counts {
		out = append(out, history.MonthlyPlacements{Month: k.month, StatusName: k.name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Month.Equal(out[j].Month) {
			return out[i].Month.After(out[j].Month)
		}
		return out[i].StatusName < out[j].StatusName
	})
	return out, nil
}
