package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"civic-cli/internal/model"
)

func testStore(t *testing.T) Store {
	t.Helper()
	return Store{Dir: t.TempDir()}
}

func TestLoadEmptyWhenMissing(t *testing.T) {
	s := testStore(t)
	sess, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess.AccessToken != "" || sess.RefreshToken != "" || sess.Profile != nil {
		t.Fatalf("expected empty session, got %+v", sess)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s := testStore(t)
	if err := s.SetTokens("acc-1", "ref-1"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	if got := s.AccessToken(); got != "acc-1" {
		t.Fatalf("AccessToken: expected acc-1, got %q", got)
	}
	if got := s.RefreshToken(); got != "ref-1" {
		t.Fatalf("RefreshToken: expected ref-1, got %q", got)
	}

	// Refresh replaces only the access token when refresh is empty.
	if err := s.SetTokens("acc-2", ""); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	if got := s.AccessToken(); got != "acc-2" {
		t.Fatalf("AccessToken: expected acc-2, got %q", got)
	}
	if got := s.RefreshToken(); got != "ref-1" {
		t.Fatalf("RefreshToken: expected ref-1 preserved, got %q", got)
	}
}

func TestSetAccessTokenKeepsProfile(t *testing.T) {
	s := testStore(t)
	if err := s.SetProfile(&model.UserProfile{Username: "kari", Role: model.RoleCitizen}); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	if err := s.SetAccessToken("acc"); err != nil {
		t.Fatalf("SetAccessToken: %v", err)
	}
	p := s.Profile()
	if p == nil || p.Username != "kari" {
		t.Fatalf("expected profile preserved, got %+v", p)
	}
}

func TestClearRemovesEverything(t *testing.T) {
	s := testStore(t)
	if err := s.SetTokens("a", "r"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	if err := s.SetProfile(&model.UserProfile{Username: "kari"}); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := s.AccessToken(); got != "" {
		t.Fatalf("expected empty access token after clear, got %q", got)
	}
	if p := s.Profile(); p != nil {
		t.Fatalf("expected no profile after clear, got %+v", p)
	}
	if _, err := os.Stat(filepath.Join(s.Dir, "session.json")); !os.IsNotExist(err) {
		t.Fatalf("expected session file removed")
	}
	// Clearing twice is fine.
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestConfigDirEnvOverride(t *testing.T) {
	t.Setenv("CIVIC_CONFIG_DIR", "/tmp/civic-test-dir")
	d, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir: %v", err)
	}
	if d != "/tmp/civic-test-dir" {
		t.Fatalf("expected env override, got %q", d)
	}
}

// unsignedJWT builds a syntactically valid token with the given exp;
// AccessTokenExpired never checks the signature.
func unsignedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	hdr := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body, err := json.Marshal(map[string]any{"exp": exp.Unix()})
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(body)
	sig := base64.RawURLEncoding.EncodeToString([]byte("sig"))
	return fmt.Sprintf("%s.%s.%s", hdr, payload, sig)
}

func TestAccessTokenExpired(t *testing.T) {
	now := time.Now()

	s := testStore(t)
	if !s.AccessTokenExpired(now) {
		t.Fatalf("missing token should read as expired")
	}

	if err := s.SetAccessToken(unsignedJWT(t, now.Add(time.Hour))); err != nil {
		t.Fatalf("SetAccessToken: %v", err)
	}
	if s.AccessTokenExpired(now) {
		t.Fatalf("future exp should not be expired")
	}

	if err := s.SetAccessToken(unsignedJWT(t, now.Add(-time.Hour))); err != nil {
		t.Fatalf("SetAccessToken: %v", err)
	}
	if !s.AccessTokenExpired(now) {
		t.Fatalf("past exp should be expired")
	}

	// Opaque (non-JWT) tokens are assumed valid; the server will 401.
	if err := s.SetAccessToken("opaque-token"); err != nil {
		t.Fatalf("SetAccessToken: %v", err)
	}
	if s.AccessTokenExpired(now) {
		t.Fatalf("opaque token should not read as expired")
	}
}
