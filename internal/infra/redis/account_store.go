package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"quizzing/internal/domain"
)

const (
	usersKey       = "quizzing:users"
	currentUserKey = "quizzing:current_user"
)

// AccountStore keeps the user collection as a Redis hash keyed by user ID and
// the current-user reference as a plain key. Records live forever; accounts
// are never deleted in this design.
type AccountStore struct {
	client *redis.Client
}

func NewAccountStore(client *redis.Client) *AccountStore {
	return &AccountStore{client: client}
}

func (s *AccountStore) LoadUsers(ctx context.Context) ([]domain.User, error) {
	raw, err := s.client.HGetAll(ctx, usersKey).Result()
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(raw))
	for _, blob := range raw {
		var u domain.User
		if err := json.Unmarshal([]byte(blob), &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *AccountStore) SaveUsers(ctx context.Context, users []domain.User) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, usersKey)
	for _, u := range users {
		blob, err := json.Marshal(u)
		if err != nil {
			return err
		}
		pipe.HSet(ctx, usersKey, u.ID, blob)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *AccountStore) LoadCurrentUserID(ctx context.Context) (string, error) {
	id, err := s.client.Get(ctx, currentUserKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	return id, err
}

func (s *AccountStore) SaveCurrentUserID(ctx context.Context, id string) error {
	if id == "" {
		return s.client.Del(ctx, currentUserKey).Err()
	}
	return s.client.Set(ctx, currentUserKey, id, 0).Err()
}
