package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// PrincipalStore is the persistence surface Authenticate needs. *Store
// implements it; tests substitute fakes.
type PrincipalStore interface {
	GetByEmail(ctx context.Context, email string) (*Principal, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	InsertLoginEvent(ctx context.Context, ev *LoginEvent) error
}

// LoginContext is request metadata recorded in the login-event log.
type LoginContext struct {
	IP        string
	UserAgent string
}

type Service struct {
	store PrincipalStore
}

func NewService(store PrincipalStore) *Service {
	return &Service{store: store}
}

// Authenticate verifies email/password and, on success only, records the
// login (lastLoginAt update plus one audit event) before returning the
// session snapshot. Unknown email and wrong password are indistinguishable
// to the caller. A persistence failure aborts the login: no session is
// ever returned alongside an error.
func (s *Service) Authenticate(ctx context.Context, email, password string, lc LoginContext) (*SessionUser, error) {
	principal, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	now := time.Now().UTC()
	if err := s.store.UpdateLastLogin(ctx, principal.ID, now); err != nil {
		return nil, err
	}
	ev := &LoginEvent{
		ID:          uuid.New(),
		PrincipalID: principal.ID,
		IP:          lc.IP,
		UserAgent:   lc.UserAgent,
		CreatedAt:   now,
	}
	if err := s.store.InsertLoginEvent(ctx, ev); err != nil {
		return nil, err
	}
	user := SessionUserOf(principal, now)
	return &user, nil
}
