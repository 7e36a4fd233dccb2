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

const quizzesFile = "quizzes.json"

// QuizStore keeps authored quizzes in a single JSON file next to the account
// records.
type QuizStore struct {
	mu  sync.Mutex
	dir string
}

func NewQuizStore(dir string) (*QuizStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &QuizStore{dir: dir}, nil
}

func (s *QuizStore) SaveQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quizzes, err := s.readLocked()
	if err != nil {
		return err
	}
	quizzes[quiz.ID] = quiz
	data, err := json.MarshalIndent(quizzes, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, quizzesFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *QuizStore) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quizzes, err := s.readLocked()
	if err != nil {
		return domain.Quiz{}, err
	}
	if quiz, ok := quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (s *QuizStore) readLocked() (map[string]domain.Quiz, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, quizzesFile))
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]domain.Quiz{}, nil
	}
	if err != nil {
		return nil, err
	}
	quizzes := map[string]domain.Quiz{}
	if err := json.Unmarshal(data, &quizzes); err != nil {
		return nil, fmt.Errorf("decode %s: %w", quizzesFile, err)
	}
	return quizzes, nil
}
