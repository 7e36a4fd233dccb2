package memory

import (
	"context"
	"errors"
	"sync"

	"quizzing/internal/domain"
)

// StaticQuizLoader serves a fixed set of quizzes, such as the built-in sample.
type StaticQuizLoader struct {
	quizzes map[string]domain.Quiz
}

func NewStaticQuizLoader(quizzes map[string]domain.Quiz) *StaticQuizLoader {
	return &StaticQuizLoader{quizzes: quizzes}
}

func (l *StaticQuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := l.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

// QuizStore holds authored quizzes in memory. It is both a QuizLoader and a
// saver, used for demos and tests.
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
}

func NewQuizStore() *QuizStore {
	return &QuizStore{quizzes: make(map[string]domain.Quiz)}
}

func (s *QuizStore) SaveQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.ID] = quiz
	return nil
}

func (s *QuizStore) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if quiz, ok := s.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

// ChainLoader tries each loader in order until one resolves the quiz.
type ChainLoader []QuizLoader

func (c ChainLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	for _, loader := range c {
		quiz, err := loader.LoadQuiz(ctx, quizID)
		if err == nil {
			return quiz, nil
		}
		if !errors.Is(err, domain.ErrQuizNotFound) {
			return domain.Quiz{}, err
		}
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}
