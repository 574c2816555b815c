package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidEmail           = errors.New("invalid email address")
	ErrWeakPassword           = errors.New("password must be at least 8 characters")
	ErrEmailTaken             = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrTwoFactorRequired      = errors.New("two-factor code required")
	ErrInvalidTwoFactorCode   = errors.New("invalid two-factor code")
	ErrTwoFactorNotConfigured = errors.New("two-factor authentication is not configured")
	ErrInvalidSessionToken    = errors.New("session token is invalid")
	ErrExpiredSessionToken    = errors.New("session token is expired")
)

const minPasswordLength = 8

type Tokens struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type Service interface {
	Register(ctx context.Context, email, password string) (*User, error)
	Login(ctx context.Context, email, password, code string) (*Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUser(ctx context.Context, userID string) (*User, error)
	SetupTwoFactor(ctx context.Context, userID string) (otpauthURL, secret string, err error)
	VerifyTwoFactor(ctx context.Context, userID, code string) error
	DisableTwoFactor(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
	RequireUser(next http.Handler) http.Handler
}

type service struct {
	users         UserRepository
	sessions      SessionRepository
	jwtManager    *JWTManager
	authenticator Authenticator
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewService(users UserRepository, sessions SessionRepository, jwtManager *JWTManager, accessTTL, refreshTTL time.Duration) Service {
	return &service{
		users:      users,
		sessions:   sessions,
		jwtManager: jwtManager,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *service) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *service) Login(ctx context.Context, email, password, code string) (*Tokens, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		if code == "" {
			return nil, ErrTwoFactorRequired
		}
		if user.TwoFactorSecret == nil || !s.authenticator.VerifyCode(*user.TwoFactorSecret, code) {
			return nil, ErrInvalidTwoFactorCode
		}
	}

	return s.issueTokens(ctx, user.ID)
}

// Refresh rotates the refresh session: the presented token is deleted and a
// fresh pair is issued, so a replayed token is rejected.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	session, err := s.sessions.Find(ctx, hashToken(refreshToken))
	if errors.Is(err, ErrSessionNotFound) {
		return nil, ErrInvalidSessionToken
	}
	if err != nil {
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, session.TokenHash)
		return nil, ErrExpiredSessionToken
	}

	if err := s.sessions.Delete(ctx, session.TokenHash); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, session.UserID)
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	return s.sessions.Delete(ctx, hashToken(refreshToken))
}

func (s *service) GetUser(ctx context.Context, userID string) (*User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *service) SetupTwoFactor(ctx context.Context, userID string) (string, string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", "", err
	}

	otpauthURL, secret, err := s.authenticator.GenerateSecret(user.Email)
	if err != nil {
		return "", "", err
	}
	if err := s.users.SetTwoFactorSecret(ctx, userID, secret); err != nil {
		return "", "", err
	}
	return otpauthURL, secret, nil
}

func (s *service) VerifyTwoFactor(ctx context.Context, userID, code string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TwoFactorSecret == nil {
		return ErrTwoFactorNotConfigured
	}
	if !s.authenticator.VerifyCode(*user.TwoFactorSecret, code) {
		return ErrInvalidTwoFactorCode
	}
	return s.users.EnableTwoFactor(ctx, userID)
}

func (s *service) DisableTwoFactor(ctx context.Context, userID string) error {
	return s.users.DisableTwoFactor(ctx, userID)
}

func (s *service) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, time.Now().UTC())
}

func (s *service) issueTokens(ctx context.Context, userID string) (*Tokens, error) {
	accessToken, err := s.jwtManager.GenerateAccessJWT(userID, s.accessTTL)
	if err != nil {
		return nil, err
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, err
	}
	refreshToken := hex.EncodeToString(tokenBytes)
	expiresAt := time.Now().UTC().Add(s.refreshTTL)

	session := Session{
		TokenHash: hashToken(refreshToken),
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return &Tokens{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: expiresAt,
	}, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
