package memory

import (
	"context"
	"sync"

	"quizzing/internal/domain"
)

// AccountStore is an in-memory implementation of account.Store. Nothing
// survives a restart; it exists for tests and for running without a backend.
type AccountStore struct {
	mu      sync.RWMutex
	users   []domain.User
	current string
}

func NewAccountStore() *AccountStore {
	return &AccountStore{}
}

func (s *AccountStore) LoadUsers(context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.User(nil), s.users...), nil
}

func (s *AccountStore) SaveUsers(_ context.Context, users []domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append([]domain.User(nil), users...)
	return nil
}

func (s *AccountStore) LoadCurrentUserID(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, nil
}

func (s *AccountStore) SaveCurrentUserID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = id
	return nil
}
