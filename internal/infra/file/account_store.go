package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"quizzing/internal/domain"
)

const (
	usersFile   = "users.json"
	currentFile = "current_user.json"
)

// AccountStore persists the user collection and the current-user reference as
// JSON files under a data directory. Writes go to a temp file first and are
// renamed into place so a crash cannot leave a half-written record.
type AccountStore struct {
	mu  sync.Mutex
	dir string
}

func NewAccountStore(dir string) (*AccountStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &AccountStore{dir: dir}, nil
}

func (s *AccountStore) LoadUsers(context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(filepath.Join(s.dir, usersFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode %s: %w", usersFile, err)
	}
	return users, nil
}

func (s *AccountStore) SaveUsers(_ context.Context, users []domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	return s.writeFile(usersFile, data)
}

func (s *AccountStore) LoadCurrentUserID(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(filepath.Join(s.dir, currentFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var ref struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(data, &ref); err != nil {
		return "", fmt.Errorf("decode %s: %w", currentFile, err)
	}
	return ref.UserID, nil
}

func (s *AccountStore) SaveCurrentUserID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		err := os.Remove(filepath.Join(s.dir, currentFile))
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	data, err := json.Marshal(struct {
		UserID string `json:"userId"`
	}{UserID: id})
	if err != nil {
		return err
	}
	return s.writeFile(currentFile, data)
}

func (s *AccountStore) writeFile(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
