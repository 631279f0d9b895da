// Package auth registers viewers and opens explicit per-request sessions for them.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/commentsense/internal/db"
	"github.com/spacesedan/commentsense/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	MIN_AGE = 5
	MAX_AGE = 100
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid registration input")
	ErrSessionClosed      = errors.New("session is closed")
	ErrSessionInvalid     = errors.New("session is no longer valid, log in again")
)

var genders = []string{"Male", "Female", "Other"}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("[Auth] failed to hash password: %w", err)
	}
	return string(hash), nil
}

func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Age      int
	Gender   string
	Password string
}

func (in RegisterInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: email %q is not valid", ErrInvalidInput, in.Email)
	}
	if in.Age < MIN_AGE || in.Age > MAX_AGE {
		return fmt.Errorf("%w: age must be between %d and %d", ErrInvalidInput, MIN_AGE, MAX_AGE)
	}
	if in.Password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	for _, g := range genders {
		if in.Gender == g {
			return nil
		}
	}
	return fmt.Errorf("%w: gender must be one of %s", ErrInvalidInput, strings.Join(genders, ", "))
}

// Session is an authenticated viewer for the lifetime of one analysis request.
type Session struct {
	ID        string
	Viewer    models.Viewer
	CreatedAt time.Time
	closed    bool
}

func NewSession(viewer models.Viewer) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Viewer:    viewer,
		CreatedAt: time.Now().UTC(),
	}
}

// Active reports whether the session can still be used.
func (s *Session) Active() bool {
	return s != nil && !s.closed
}

func (s *Session) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	slog.Debug("[Auth] Session closed", slog.String("session_id", s.ID))
}

type Service struct {
	viewers db.ViewerRepository
	now     func() time.Time
}

func NewService(viewers db.ViewerRepository) *Service {
	return &Service{viewers: viewers, now: time.Now}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	account := models.Account{
		Viewer:       models.Viewer{Name: strings.TrimSpace(in.Name), Email: in.Email, Age: in.Age},
		Phone:        in.Phone,
		Gender:       in.Gender,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.viewers.Create(ctx, account); err != nil {
		return nil, err
	}

	slog.Info("[Auth] Registered viewer", slog.String("email", in.Email))
	return &account, nil
}

// Login checks the password and opens a new session. Unknown emails and wrong
// passwords both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	account, err := s.viewers.GetByEmail(ctx, email)
	if errors.Is(err, db.ErrViewerNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(account.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	session := NewSession(account.Viewer)
	hash, err := HashPassword(session.ID)
	if err != nil {
		return nil, err
	}
	if err := s.viewers.SetSessionHash(ctx, account.Email, hash); err != nil {
		return nil, err
	}

	slog.Info("[Auth] Login successful",
		slog.String("email", account.Email),
		slog.String("session_id", session.ID))
	return session, nil
}

// Resume reopens the session a viewer got from Login, e.g. one remembered by
// the CLI between invocations. Only the most recent login can be resumed.
func (s *Service) Resume(ctx context.Context, email, sessionID string) (*Session, error) {
	account, err := s.verifySession(ctx, email, sessionID)
	if err != nil {
		return nil, err
	}
	return &Session{ID: sessionID, Viewer: account.Viewer, CreatedAt: s.now().UTC()}, nil
}

// Logout invalidates the viewer's current login so it cannot be resumed.
func (s *Service) Logout(ctx context.Context, email, sessionID string) error {
	account, err := s.verifySession(ctx, email, sessionID)
	if err != nil {
		return err
	}
	if err := s.viewers.SetSessionHash(ctx, account.Email, ""); err != nil {
		return err
	}
	slog.Info("[Auth] Logged out", slog.String("email", account.Email))
	return nil
}

func (s *Service) verifySession(ctx context.Context, email, sessionID string) (*models.Account, error) {
	account, err := s.viewers.GetByEmail(ctx, email)
	if errors.Is(err, db.ErrViewerNotFound) {
		return nil, ErrSessionInvalid
	}
	if err != nil {
		return nil, err
	}
	if sessionID == "" || account.SessionHash == "" || !VerifyPassword(account.SessionHash, sessionID) {
		return nil, ErrSessionInvalid
	}
	return account, nil
}
