package auth

import (
	"context"
	"testing"
	"time"

	"github.com/spacesedan/commentsense/internal/db"
	"github.com/spacesedan/commentsense/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockViewerRepo struct {
	accounts map[string]models.Account
}

func newMockViewerRepo() *mockViewerRepo {
	return &mockViewerRepo{accounts: make(map[string]models.Account)}
}

func (m *mockViewerRepo) Create(_ context.Context, a models.Account) error {
	if _, ok := m.accounts[a.Email]; ok {
		return db.ErrEmailTaken
	}
	m.accounts[a.Email] = a
	return nil
}

func (m *mockViewerRepo) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	a, ok := m.accounts[email]
	if !ok {
		return nil, db.ErrViewerNotFound
	}
	return &a, nil
}

func (m *mockViewerRepo) SetSessionHash(_ context.Context, email, hash string) error {
	a, ok := m.accounts[email]
	if !ok {
		return db.ErrViewerNotFound
	}
	a.SessionHash = hash
	m.accounts[email] = a
	return nil
}

func validInput() RegisterInput {
	return RegisterInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Phone:    "555-0100",
		Age:      34,
		Gender:   "Female",
		Password: "correct horse",
	}
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestRegister_StoresHashedAccount(t *testing.T) {
	repo := newMockViewerRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC) }

	account, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	stored := repo.accounts["ada@example.com"]
	assert.Equal(t, 34, stored.Age)
	assert.Equal(t, "Female", stored.Gender)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	assert.Equal(t, svc.now(), account.CreatedAt)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewService(newMockViewerRepo())
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validInput())
	assert.ErrorIs(t, err, db.ErrEmailTaken)
}

func TestRegister_Validation(t *testing.T) {
	tests := map[string]func(*RegisterInput){
		"missing name":   func(in *RegisterInput) { in.Name = " " },
		"bad email":      func(in *RegisterInput) { in.Email = "not-an-email" },
		"too young":      func(in *RegisterInput) { in.Age = 4 },
		"too old":        func(in *RegisterInput) { in.Age = 101 },
		"bad gender":     func(in *RegisterInput) { in.Gender = "unknown" },
		"empty password": func(in *RegisterInput) { in.Password = "" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := NewService(newMockViewerRepo()).Register(context.Background(), in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestLogin(t *testing.T) {
	svc := NewService(newMockViewerRepo())
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), "ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, 34, session.Viewer.Age)
	assert.True(t, session.Active())

	session.Close()
	assert.False(t, session.Active())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := NewService(newMockViewerRepo())
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ada@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "bob@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_StoresSessionHash(t *testing.T) {
	repo := newMockViewerRepo()
	svc := NewService(repo)
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), "ada@example.com", "correct horse")
	require.NoError(t, err)

	stored := repo.accounts["ada@example.com"].SessionHash
	assert.NotEmpty(t, stored)
	assert.NotEqual(t, session.ID, stored)
	assert.True(t, VerifyPassword(stored, session.ID))
}

func TestResume(t *testing.T) {
	repo := newMockViewerRepo()
	svc := NewService(repo)
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	other := validInput()
	other.Email = "kid@example.com"
	other.Age = 9
	_, err = svc.Register(context.Background(), other)
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), "ada@example.com", "correct horse")
	require.NoError(t, err)

	resumed, err := svc.Resume(context.Background(), "ada@example.com", session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, resumed.ID)
	assert.Equal(t, 34, resumed.Viewer.Age)
	assert.True(t, resumed.Active())

	tests := map[string]struct{ email, id string }{
		"wrong session id": {"ada@example.com", "not-the-session"},
		"empty session id": {"ada@example.com", ""},
		"other viewer":     {"kid@example.com", session.ID},
		"unknown viewer":   {"bob@example.com", session.ID},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Resume(context.Background(), tt.email, tt.id)
			assert.ErrorIs(t, err, ErrSessionInvalid)
		})
	}
}

func TestResume_OnlyLatestLogin(t *testing.T) {
	svc := NewService(newMockViewerRepo())
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	first, err := svc.Login(context.Background(), "ada@example.com", "correct horse")
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), "ada@example.com", "correct horse")
	require.NoError(t, err)

	_, err = svc.Resume(context.Background(), "ada@example.com", first.ID)
	assert.ErrorIs(t, err, ErrSessionInvalid)
	_, err = svc.Resume(context.Background(), "ada@example.com", second.ID)
	assert.NoError(t, err)
}

func TestLogout(t *testing.T) {
	repo := newMockViewerRepo()
	svc := NewService(repo)
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	session, err := svc.Login(context.Background(), "ada@example.com", "correct horse")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Logout(context.Background(), "ada@example.com", "forged"), ErrSessionInvalid)
	require.NoError(t, svc.Logout(context.Background(), "ada@example.com", session.ID))
	assert.Empty(t, repo.accounts["ada@example.com"].SessionHash)

	_, err = svc.Resume(context.Background(), "ada@example.com", session.ID)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessions_AreDistinct(t *testing.T) {
	a := NewSession(models.Viewer{Age: 10})
	b := NewSession(models.Viewer{Age: 10})
	assert.NotEqual(t, a.ID, b.ID)

	var nilSession *Session
	assert.False(t, nilSession.Active())
	nilSession.Close()
}
