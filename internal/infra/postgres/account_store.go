package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizzing/internal/domain"
)

// AccountStore persists user records as JSONB rows and the current-user
// reference as a single-row table.
type AccountStore struct {
	pool *pgxpool.Pool
}

func NewAccountStore(pool *pgxpool.Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

func (s *AccountStore) LoadUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var u domain.User
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil, fmt.Errorf("unmarshal user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *AccountStore) SaveUsers(ctx context.Context, users []domain.User) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, u := range users {
		data, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO users (id, data) VALUES ($1, $2::jsonb)
			 ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`,
			u.ID, string(data)); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (s *AccountStore) LoadCurrentUserID(ctx context.Context) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `SELECT user_id FROM current_user_ref WHERE singleton`).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return id, err
}

func (s *AccountStore) SaveCurrentUserID(ctx context.Context, id string) error {
	if id == "" {
		_, err := s.pool.Exec(ctx, `DELETE FROM current_user_ref WHERE singleton`)
		return err
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO current_user_ref (singleton, user_id) VALUES (TRUE, $1)
		 ON CONFLICT (singleton) DO UPDATE SET user_id=EXCLUDED.user_id`,
		id)
	return err
}
