package service_test

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	errorvalues "github.com/hard75/api/internal/error_values"
	"github.com/hard75/api/pkg/entity"
)

// In-memory repository fakes. Setting err makes every call fail with it.

type usersRepoMock struct {
	users []*entity.User
	err   error
}

func (m *usersRepoMock) Create(ctx context.Context, user *entity.User) error {
	if m.err != nil {
		return m.err
	}
	for _, u := range m.users {
		if u.Username == user.Username || u.ClerkID == user.ClerkID {
			return errorvalues.ErrUserExists
		}
	}
	stored := *user
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	m.users = append(m.users, &stored)
	return nil
}

func (m *usersRepoMock) Upsert(ctx context.Context, user *entity.User) error {
	if m.err != nil {
		return m.err
	}
	for _, u := range m.users {
		if u.ClerkID == user.ClerkID {
			u.Email = user.Email
			u.Username = user.Username
			u.Name = user.Name
			user.ID = u.ID
			user.CreatedAt = u.CreatedAt
			return nil
		}
	}
	stored := *user
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	m.users = append(m.users, &stored)
	user.ID = stored.ID
	user.CreatedAt = stored.CreatedAt
	return nil
}

func (m *usersRepoMock) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errorvalues.ErrUserNotFound
}

func (m *usersRepoMock) FindByClerkID(ctx context.Context, clerkID string) (*entity.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.ClerkID == clerkID {
			return u, nil
		}
	}
	return nil, errorvalues.ErrUserNotFound
}

func (m *usersRepoMock) FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.ID == uid {
			return u, nil
		}
	}
	return nil, errorvalues.ErrUserNotFound
}

func (m *usersRepoMock) List(ctx context.Context) ([]*entity.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users, nil
}

func (m *usersRepoMock) UpdateStreaks(ctx context.Context, clerkID string, current, longest int) error {
	if m.err != nil {
		return m.err
	}
	for _, u := range m.users {
		if u.ClerkID == clerkID {
			u.CurrentStreak = current
			u.LongestStreak = longest
			return nil
		}
	}
	return errorvalues.ErrUserNotFound
}

type friendshipsRepoMock struct {
	edges []*entity.Friendship
	err   error
}

func (m *friendshipsRepoMock) Create(ctx context.Context, f *entity.Friendship) (uuid.UUID, error) {
	if m.err != nil {
		return uuid.UUID{}, m.err
	}
	stored := *f
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	m.edges = append(m.edges, &stored)
	return stored.ID, nil
}

func (m *friendshipsRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.Friendship, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, f := range m.edges {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, errorvalues.ErrFriendshipNotFound
}

func (m *friendshipsRepoMock) ListByClerkID(ctx context.Context, clerkID string) ([]*entity.Friendship, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make([]*entity.Friendship, 0)
	for _, f := range m.edges {
		if f.ClerkRequesterID == clerkID || f.ClerkReceiverID == clerkID {
			result = append(result, f)
		}
	}
	return result, nil
}

func (m *friendshipsRepoMock) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.FriendshipStatus) error {
	if m.err != nil {
		return m.err
	}
	for _, f := range m.edges {
		if f.ID == id {
			f.Status = status
			return nil
		}
	}
	return errorvalues.ErrFriendshipNotFound
}

func (m *friendshipsRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	for i, f := range m.edges {
		if f.ID == id {
			m.edges = append(m.edges[:i], m.edges[i+1:]...)
			return nil
		}
	}
	return errorvalues.ErrFriendshipNotFound
}

type activitiesRepoMock struct {
	logged []*entity.Activity
	err    error
}

func (m *activitiesRepoMock) Create(ctx context.Context, a *entity.Activity) (uuid.UUID, error) {
	if m.err != nil {
		return uuid.UUID{}, m.err
	}
	stored := *a
	stored.ID = uuid.New()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	m.logged = append(m.logged, &stored)
	return stored.ID, nil
}

func (m *activitiesRepoMock) ListRecent(ctx context.Context, limit int) ([]*entity.Activity, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make([]*entity.Activity, 0, limit)
	for i := len(m.logged) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.logged[i])
	}
	return result, nil
}

func (m *activitiesRepoMock) kinds() []entity.ActivityKind {
	kinds := make([]entity.ActivityKind, len(m.logged))
	for i, a := range m.logged {
		kinds[i] = a.Kind
	}
	return kinds
}

type encouragementsRepoMock struct {
	sent []*entity.Encouragement
	err  error
}

func (m *encouragementsRepoMock) Create(ctx context.Context, e *entity.Encouragement) (uuid.UUID, error) {
	if m.err != nil {
		return uuid.UUID{}, m.err
	}
	stored := *e
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	m.sent = append(m.sent, &stored)
	return stored.ID, nil
}

func (m *encouragementsRepoMock) ListByRecipient(ctx context.Context, toClerkID string, limit int) ([]*entity.Encouragement, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make([]*entity.Encouragement, 0, limit)
	for i := len(m.sent) - 1; i >= 0 && len(result) < limit; i-- {
		if m.sent[i].ToClerkID == toClerkID {
			result = append(result, m.sent[i])
		}
	}
	return result, nil
}

type identityMock struct {
	table map[string]uuid.UUID
	err   error
}

func newIdentityMock() *identityMock {
	return &identityMock{table: make(map[string]uuid.UUID)}
}

func (m *identityMock) Resolve(externalID string) (uuid.UUID, error) {
	if m.err != nil {
		return uuid.UUID{}, m.err
	}
	if externalID == "" {
		return uuid.UUID{}, errors.New("external id is empty")
	}
	if id, ok := m.table[externalID]; ok {
		return id, nil
	}
	id := uuid.New()
	m.table[externalID] = id
	return id, nil
}

func (m *identityMock) ReverseResolve(internalID uuid.UUID) (string, bool) {
	for externalID, id := range m.table {
		if id == internalID {
			return externalID, true
		}
	}
	return "", false
}

func mockUser(clerkID, username string) *entity.User {
	return &entity.User{
		ID:       uuid.New(),
		ClerkID:  clerkID,
		Username: username,
		Email:    strings.ToLower(username) + "@example.com",
	}
}
