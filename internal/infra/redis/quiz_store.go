package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"quizzing/internal/domain"
)

const authoredKey = "quizzing:authored"

// QuizStore durably holds authored quizzes in a Redis hash, no TTL, so the
// lobby can offer them across restarts.
type QuizStore struct {
	client *redis.Client
}

func NewQuizStore(client *redis.Client) *QuizStore {
	return &QuizStore{client: client}
}

func (s *QuizStore) SaveQuiz(ctx context.Context, quiz domain.Quiz) error {
	blob, err := json.Marshal(quiz)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, authoredKey, quiz.ID, blob).Err()
}

func (s *QuizStore) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	blob, err := s.client.HGet(ctx, authoredKey, quizID).Bytes()
	if err == redis.Nil {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, err
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(blob, &quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}
