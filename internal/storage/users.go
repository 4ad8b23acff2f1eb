package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdant-io/planttracker/internal/user"
)

// UserStore implements user.Store using PostgreSQL.
type UserStore struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

func NewUserStore(pool *pgxpool.Pool, queryTimeout time.Duration) *UserStore {
	return &UserStore{pool: pool, queryTimeout: queryTimeout}
}

func (s *UserStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout > 0 {
		return context.WithTimeout(ctx, s.queryTimeout)
	}
	return ctx, func() {}
}

func (s *UserStore) Create(ctx context.Context, u user.User) (*user.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, password)
		VALUES ($1, $2)
		RETURNING username, password, created_at
	`, u.Username, u.Password)

	var created user.User
	if err := row.Scan(&created.Username, &created.Password, &created.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, user.ErrExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &created, nil
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx, `
		SELECT username, password, created_at FROM users WHERE username = $1
	`, username)

	var u user.User
	if err := row.Scan(&u.Username, &u.Password, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
