package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"civic-cli/internal/model"

	"github.com/golang-jwt/jwt/v4"
)

// Store owns the persisted session: the token pair plus the cached user
// profile. Nothing else touches session.json directly.
type Store struct {
	// Dir overrides the config dir (fixtures/tests). Empty means ~/.civic.
	Dir string
}

type Session struct {
	AccessToken  string             `json:"accessToken,omitempty"`
	RefreshToken string             `json:"refreshToken,omitempty"`
	Profile      *model.UserProfile `json:"profile,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.civic).
	if v := strings.TrimSpace(os.Getenv("CIVIC_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".civic"), nil
}

func (s Store) path() (string, error) {
	dir := strings.TrimSpace(s.Dir)
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	return filepath.Join(dir, "session.json"), nil
}

// Load returns the persisted session, or an empty one when none exists.
func (s Store) Load() (*Session, error) {
	path, err := s.path()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Session{}, nil
		}
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s Store) save(sess *Session) error {
	path, err := s.path()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, "session.json.*.tmp", path, b, 0o600)
}

// Tokens are credentials: write via unique temp file + rename so a
// concurrent reader never observes a torn session.
func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func (s Store) AccessToken() string {
	sess, err := s.Load()
	if err != nil {
		return ""
	}
	return sess.AccessToken
}

func (s Store) SetAccessToken(t string) error {
	sess, err := s.Load()
	if err != nil {
		return err
	}
	sess.AccessToken = t
	return s.save(sess)
}

func (s Store) RefreshToken() string {
	sess, err := s.Load()
	if err != nil {
		return ""
	}
	return sess.RefreshToken
}

func (s Store) SetRefreshToken(t string) error {
	sess, err := s.Load()
	if err != nil {
		return err
	}
	sess.RefreshToken = t
	return s.save(sess)
}

func (s Store) Profile() *model.UserProfile {
	sess, err := s.Load()
	if err != nil {
		return nil
	}
	return sess.Profile
}

func (s Store) SetProfile(p *model.UserProfile) error {
	sess, err := s.Load()
	if err != nil {
		return err
	}
	sess.Profile = p
	return s.save(sess)
}

// SetTokens persists both tokens in one write (login/refresh path).
func (s Store) SetTokens(access, refresh string) error {
	sess, err := s.Load()
	if err != nil {
		return err
	}
	sess.AccessToken = access
	if refresh != "" {
		sess.RefreshToken = refresh
	}
	return s.save(sess)
}

// Clear destroys the whole session. Removing the file is atomic, so a
// subsequent read sees either the full session or none.
func (s Store) Clear() error {
	path, err := s.path()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// AccessTokenExpired peeks the unverified exp claim so callers can
// refresh proactively. The server verifies signatures; we only schedule.
// A missing or unparsable claim means "assume valid, let the server 401".
func (s Store) AccessTokenExpired(now time.Time) bool {
	tok := strings.TrimSpace(s.AccessToken())
	if tok == "" {
		return true
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Before(now)
}
