// Package servicetest provides UserStore fakes for tests that exercise
// the auth flows without a database.
package servicetest

import (
	"context"
	"sync"
	"time"

	"github.com/dpetrov/auth-service/internal/models"
	"github.com/dpetrov/auth-service/internal/service"
)

// MemStore is an in-memory UserStore enforcing email uniqueness under a
// mutex, mirroring the unique index the SQL store relies on.
type MemStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*models.User
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{users: make(map[string]*models.User)}
}

func (m *MemStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return service.ErrEmailTaken
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	m.users[user.Email] = &cp
	return nil
}

func (m *MemStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// FailingStore returns Err from every operation, standing in for an
// unreachable database.
type FailingStore struct {
	Err error
}

func (f *FailingStore) CreateUser(ctx context.Context, user *models.User) error {
	return f.Err
}

func (f *FailingStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, f.Err
}
