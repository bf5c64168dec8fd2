package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"material-market/internal/dto/response"
	"material-market/pkg/token"
)

// ErrNoSession means the caller is logged out: nothing is stored, or the
// stored token has expired.
var ErrNoSession = errors.New("no active session")

// Session is the logged-in state of a client: the bearer token and the user
// it was issued to.
type Session struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expiresAt"`
	User      response.PublicUser `json:"user"`
}

// Active reports whether the session still holds a usable token at now.
func (s Session) Active(now time.Time) bool {
	return s.Token != "" && now.Before(s.ExpiresAt)
}

type sessionKey struct{}

// WithSession returns a context whose requests are sent as s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

// SessionStore persists a session as a JSON file.
type SessionStore struct {
	path string
	now  func() time.Time
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path, now: time.Now}
}

// Load returns the stored session or ErrNoSession. An expired session is
// cleared on the way out.
func (s *SessionStore) Load() (Session, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil || sess.Token == "" {
		_ = s.Clear()
		return Session{}, ErrNoSession
	}

	// The token itself is authoritative for expiry.
	exp, err := token.ExpiresAt(sess.Token)
	if err != nil {
		_ = s.Clear()
		return Session{}, ErrNoSession
	}
	sess.ExpiresAt = exp

	if !sess.Active(s.now()) {
		_ = s.Clear()
		return Session{}, ErrNoSession
	}
	return sess, nil
}

func (s *SessionStore) Save(sess Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear logs out. Clearing an absent session is not an error.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
