package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
)

type User struct {
	ID               string
	Email            string
	PasswordHash     string
	TwoFactorEnabled bool
	TwoFactorSecret  *string
	CreatedAt        time.Time
}

// Session is a server-side refresh session. Only the SHA-256 of the refresh
// token is stored; the raw token lives in the client's cookie.
type Session struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type UserRepository interface {
	Save(ctx context.Context, user User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	SetTwoFactorSecret(ctx context.Context, userID, secret string) error
	EnableTwoFactor(ctx context.Context, userID string) error
	DisableTwoFactor(ctx context.Context, userID string) error
}

type SessionRepository interface {
	Save(ctx context.Context, session Session) error
	Find(ctx context.Context, tokenHash string) (*Session, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type userRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func NewUserRepository(db *sql.DB, sb sq.StatementBuilderType) UserRepository {
	return &userRepository{db: db, sb: sb}
}

const userColumns = "id, email, password_hash, two_factor_enabled, two_factor_secret, created_at"

func (r *userRepository) Save(ctx context.Context, user User) error {
	query, args, err := r.sb.
		Insert("users").
		Columns("id", "email", "password_hash", "two_factor_enabled", "two_factor_secret", "created_at").
		Values(user.ID, user.Email, user.PasswordHash, user.TwoFactorEnabled, user.TwoFactorSecret, user.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query, args, err := r.sb.
		Select(userColumns).
		From("users").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanUser(r.db.QueryRowContext(ctx, query, args...))
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query, args, err := r.sb.
		Select(userColumns).
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanUser(r.db.QueryRowContext(ctx, query, args...))
}

func (r *userRepository) scanUser(row *sql.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.TwoFactorEnabled, &user.TwoFactorSecret, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SetTwoFactorSecret(ctx context.Context, userID, secret string) error {
	return r.updateUser(ctx, userID, func(b sq.UpdateBuilder) sq.UpdateBuilder {
		return b.Set("two_factor_secret", secret)
	})
}

func (r *userRepository) EnableTwoFactor(ctx context.Context, userID string) error {
	return r.updateUser(ctx, userID, func(b sq.UpdateBuilder) sq.UpdateBuilder {
		return b.Set("two_factor_enabled", true)
	})
}

func (r *userRepository) DisableTwoFactor(ctx context.Context, userID string) error {
	return r.updateUser(ctx, userID, func(b sq.UpdateBuilder) sq.UpdateBuilder {
		return b.Set("two_factor_enabled", false).Set("two_factor_secret", nil)
	})
}

func (r *userRepository) updateUser(ctx context.Context, userID string, set func(sq.UpdateBuilder) sq.UpdateBuilder) error {
	query, args, err := set(r.sb.Update("users")).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

type sessionRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func NewSessionRepository(db *sql.DB, sb sq.StatementBuilderType) SessionRepository {
	return &sessionRepository{db: db, sb: sb}
}

func (r *sessionRepository) Save(ctx context.Context, session Session) error {
	query, args, err := r.sb.
		Insert("sessions").
		Columns("token_hash", "user_id", "expires_at", "created_at").
		Values(session.TokenHash, session.UserID, session.ExpiresAt, session.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *sessionRepository) Find(ctx context.Context, tokenHash string) (*Session, error) {
	query, args, err := r.sb.
		Select("token_hash", "user_id", "expires_at", "created_at").
		From("sessions").
		Where(sq.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var session Session
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&session.TokenHash, &session.UserID, &session.ExpiresAt, &session.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, tokenHash string) error {
	query, args, err := r.sb.
		Delete("sessions").
		Where(sq.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := r.sb.
		Delete("sessions").
		Where(sq.LtOrEq{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
