package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, full_name, email, password, role,
	avatar_public_id, avatar_url,
	subscription_id, subscription_status,
	forgot_password_token, forgot_password_expiry,
	created_at, updated_at`

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, u *User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, full_name, email, password, role,
			avatar_public_id, avatar_url,
			subscription_id, subscription_status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, u.ID, u.FullName, u.Email, u.PasswordHash, u.Role,
		u.Avatar.PublicID, u.Avatar.URL,
		u.Subscription.ID, u.Subscription.Status,
		u.CreatedAt, u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrEmailExists
		}
		return err
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (*User, error) {
	return s.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *PostgresStore) List(ctx context.Context) ([]*User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u := &User{}
		if err := rows.Scan(
			&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role,
			&u.Avatar.PublicID, &u.Avatar.URL,
			&u.Subscription.ID, &u.Subscription.Status,
			&u.ResetTokenHash, &u.ResetTokenExpiry,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *PostgresStore) GetByResetToken(ctx context.Context, tokenHash string) (*User, error) {
	return s.get(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE forgot_password_token = $1 AND forgot_password_expiry > NOW()
	`, tokenHash)
}

func (s *PostgresStore) get(ctx context.Context, query string, args ...any) (*User, error) {
	u := &User{}
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role,
		&u.Avatar.PublicID, &u.Avatar.URL,
		&u.Subscription.ID, &u.Subscription.Status,
		&u.ResetTokenHash, &u.ResetTokenExpiry,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *PostgresStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return s.exec(ctx, `
		UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2
	`, passwordHash, id)
}

func (s *PostgresStore) UpdateFullName(ctx context.Context, id, fullName string) error {
	return s.exec(ctx, `
		UPDATE users SET full_name = $1, updated_at = NOW() WHERE id = $2
	`, fullName, id)
}

func (s *PostgresStore) UpdateAvatar(ctx context.Context, id string, avatar Avatar) error {
	return s.exec(ctx, `
		UPDATE users SET avatar_public_id = $1, avatar_url = $2, updated_at = NOW()
		WHERE id = $3
	`, avatar.PublicID, avatar.URL, id)
}

func (s *PostgresStore) SetResetToken(ctx context.Context, id, tokenHash string, expiry time.Time) error {
	return s.exec(ctx, `
		UPDATE users SET forgot_password_token = $1, forgot_password_expiry = $2,
			updated_at = NOW()
		WHERE id = $3
	`, tokenHash, expiry, id)
}

func (s *PostgresStore) ClearResetToken(ctx context.Context, id string) error {
	return s.exec(ctx, `
		UPDATE users SET forgot_password_token = NULL, forgot_password_expiry = NULL,
			updated_at = NOW()
		WHERE id = $1
	`, id)
}

func (s *PostgresStore) CompleteReset(ctx context.Context, id, passwordHash string) error {
	return s.exec(ctx, `
		UPDATE users SET password = $1,
			forgot_password_token = NULL, forgot_password_expiry = NULL,
			updated_at = NOW()
		WHERE id = $2
	`, passwordHash, id)
}

func (s *PostgresStore) exec(ctx context.Context, query string, args ...any) error {
	ct, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
