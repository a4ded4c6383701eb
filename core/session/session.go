package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/pkg/errors"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNoSession = errors.New("no session")
	ErrNotFound  = errors.New("session not found")
)

type (
	// Session binds a random token, carried by a signed cookie, to a Student.
	Session struct {
		Token     string    `db:"token"`
		StudentID string    `db:"student_guid"`
		CreatedAt time.Time `db:"created_at"` // UTC
		ExpiresAt time.Time `db:"expires_at"` // UTC
	}

	// Store persists sessions server-side.
	Store interface {
		CreateSession(ctx context.Context, sess Session) error
		// GetSession returns ErrNotFound for unknown tokens.
		GetSession(ctx context.Context, token string) (Session, error)
		// DeleteSession is a no-op for unknown tokens.
		DeleteSession(ctx context.Context, token string) error
		DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
	}
)

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Manager starts, resolves and ends sessions.
type Manager struct {
	store  Store
	signer signer
	maxAge time.Duration
}

func NewManager(store Store, secretKey string, maxAge time.Duration) *Manager {
	return &Manager{
		store:  store,
		signer: signer{secretKey: []byte(secretKey)},
		maxAge: maxAge,
	}
}

func (m *Manager) MaxAge() time.Duration {
	return m.maxAge
}

// Start ends the session behind prevCookie (if any) and creates a new one for studentID.
// It returns the signed cookie value of the new session.
func (m *Manager) Start(ctx context.Context, studentID, prevCookie string) (string, Session, error) {
	if err := m.End(ctx, prevCookie); err != nil {
		return "", Session{}, errors.Wrap(err, "ending previous session")
	}

	token, err := newToken()
	if err != nil {
		return "", Session{}, errors.Wrap(err, "generating session token")
	}
	now := NowFunc().UTC()
	sess := Session{
		Token:     token,
		StudentID: studentID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.maxAge),
	}
	if err = m.store.CreateSession(ctx, sess); err != nil {
		return "", Session{}, errors.Wrap(err, "creating session")
	}
	return m.signer.sign(token), sess, nil
}

// Resolve returns the live session behind cookie, or ErrNoSession.
func (m *Manager) Resolve(ctx context.Context, cookie string) (Session, error) {
	token, ok := m.signer.verify(cookie)
	if !ok {
		return Session{}, ErrNoSession
	}

	sess, err := m.store.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrNoSession
		}
		return Session{}, errors.Wrap(err, "getting session")
	}
	if sess.Expired(NowFunc()) {
		if err = m.store.DeleteSession(ctx, token); err != nil {
			return Session{}, errors.Wrap(err, "deleting expired session")
		}
		return Session{}, ErrNoSession
	}
	return sess, nil
}

// End deletes the session behind cookie. Ending an unknown or empty session is not an error.
func (m *Manager) End(ctx context.Context, cookie string) error {
	token, ok := m.signer.verify(cookie)
	if !ok {
		return nil
	}
	return m.store.DeleteSession(ctx, token)
}

// PurgeExpired deletes every expired session and returns how many were deleted.
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpiredSessions(ctx, NowFunc().UTC())
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
