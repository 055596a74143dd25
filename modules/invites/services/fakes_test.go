package services_test

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/modules/core/domain/aggregates/user"
	"github.com/iota-uz/recruiting-crm/modules/invites/domain/aggregates/invite"
)

type memStore struct {
	mu      sync.Mutex
	invites map[string]invite.Invite
	users   map[string]user.User
}

func newMemStore() *memStore {
	return &memStore{
		invites: map[string]invite.Invite{},
		users:   map[string]user.User{},
	}
}

func (s *memStore) Snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	invites := maps.Clone(s.invites)
	users := maps.Clone(s.users)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.invites = invites
		s.users = users
	}
}

func (s *memStore) invite(code string) invite.Invite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invites[code]
}

func (s *memStore) userCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type inviteRepo struct{ s *memStore }

func (r inviteRepo) GetByCode(_ context.Context, code string) (invite.Invite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invites[code]
	if !ok {
		return nil, invite.ErrInvalidCode
	}
	return inv, nil
}

func (r inviteRepo) LockByCode(ctx context.Context, code string) (invite.Invite, error) {
	return r.GetByCode(ctx, code)
}

func (r inviteRepo) ListByOrganization(_ context.Context, organizationID uuid.UUID) ([]invite.Invite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]invite.Invite, 0)
	for _, inv := range r.s.invites {
		if inv.OrganizationID() == organizationID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out, nil
}

func (r inviteRepo) Create(_ context.Context, i invite.Invite) (invite.Invite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invites[i.Code()]; ok {
		return nil, invite.ErrCodeTaken
	}
	r.s.invites[i.Code()] = i
	return i, nil
}

func (r inviteRepo) SaveUsage(_ context.Context, i invite.Invite) error {
	return r.save(i)
}

func (r inviteRepo) SaveRevocation(_ context.Context, i invite.Invite) error {
	return r.save(i)
}

func (r inviteRepo) save(i invite.Invite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invites[i.Code()]; !ok {
		return invite.ErrInvalidCode
	}
	r.s.invites[i.Code()] = i
	return nil
}

type userRepo struct{ s *memStore }

func (r userRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ID() == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r userRepo) GetByExternalID(_ context.Context, externalID string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[externalID]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (r userRepo) ListByOrganization(_ context.Context, organizationID uuid.UUID) ([]user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []user.User
	for _, u := range r.s.users {
		if u.OrganizationID() == organizationID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r userRepo) UpsertByExternalID(_ context.Context, u user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.users[u.ExternalID()]; ok {
		u = user.New(u.ExternalID(), u.Email(), u.Name(), u.Role(), u.OrganizationID(),
			user.WithID(existing.ID()),
			user.WithCreatedAt(existing.CreatedAt()),
		)
	}
	r.s.users[u.ExternalID()] = u
	return u, nil
}
