package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spacesedan/commentsense/internal/auth"
	"gopkg.in/yaml.v3"
)

var errNotLoggedIn = errors.New("not logged in")

// storedSession remembers the last login. The session id is checked against
// the hash stored with the account, so editing the email does not switch viewers.
type storedSession struct {
	SessionID string    `yaml:"session_id"`
	Email     string    `yaml:"email"`
	LoggedIn  time.Time `yaml:"logged_in"`
}

func sessionPath() (string, error) {
	if p := os.Getenv("COMMENTSENSE_SESSION_FILE"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".commentsense", "session.yaml"), nil
}

func saveSession(s *auth.Session) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(storedSession{SessionID: s.ID, Email: s.Viewer.Email, LoggedIn: s.CreatedAt})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func loadSession() (*storedSession, error) {
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errNotLoggedIn
	}
	if err != nil {
		return nil, err
	}

	var s storedSession
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("corrupt session file %s: %w", path, err)
	}
	if s.Email == "" {
		return nil, errNotLoggedIn
	}
	return &s, nil
}

func clearSession() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
