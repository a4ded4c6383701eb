package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]Session)}
}

func (s *memStore) CreateSession(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sess
	return nil
}

func (s *memStore) GetSession(_ context.Context, token string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *memStore) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *memStore) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for token, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, token)
			n++
		}
	}
	return n, nil
}

func TestSigner(t *testing.T) {
	s := signer{secretKey: []byte("secret")}
	signed := s.sign("tok3n")

	other := signer{secretKey: []byte("other")}

	tests := []struct {
		name      string
		value     string
		wantToken string
		wantOk    bool
	}{
		{name: "empty", value: ""},
		{name: "no separator", value: "tok3n"},
		{name: "empty signature", value: "tok3n."},
		{name: "empty token", value: ".sig"},
		{name: "tampered token", value: "t0k3n" + signed[len("tok3n"):]},
		{name: "tampered signature", value: signed + "x"},
		{name: "other secret", value: other.sign("tok3n")},
		{name: "valid", value: signed, wantToken: "tok3n", wantOk: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := s.verify(tt.value)
			if ok != tt.wantOk || token != tt.wantToken {
				t.Errorf("verify() = (%q, %v), want (%q, %v)", token, ok, tt.wantToken, tt.wantOk)
			}
		})
	}
}

func TestManager(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	mgr := NewManager(store, "secret", time.Hour)

	t.Run("start and resolve", func(t *testing.T) {
		cookie, sess, err := mgr.Start(ctx, "student-1", "")
		require.NoError(t, err)

		got, err := mgr.Resolve(ctx, cookie)
		require.NoError(t, err)
		assert.Equal(t, "student-1", got.StudentID)
		assert.Equal(t, sess.Token, got.Token)
	})

	t.Run("start clears the previous session", func(t *testing.T) {
		first, _, err := mgr.Start(ctx, "student-1", "")
		require.NoError(t, err)
		second, _, err := mgr.Start(ctx, "student-2", first)
		require.NoError(t, err)

		_, err = mgr.Resolve(ctx, first)
		assert.ErrorIs(t, err, ErrNoSession)

		got, err := mgr.Resolve(ctx, second)
		require.NoError(t, err)
		assert.Equal(t, "student-2", got.StudentID)
	})

	t.Run("unsigned cookie", func(t *testing.T) {
		_, sess, err := mgr.Start(ctx, "student-1", "")
		require.NoError(t, err)
		_, err = mgr.Resolve(ctx, sess.Token)
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("end is idempotent", func(t *testing.T) {
		cookie, _, err := mgr.Start(ctx, "student-1", "")
		require.NoError(t, err)

		require.NoError(t, mgr.End(ctx, cookie))
		require.NoError(t, mgr.End(ctx, cookie))
		require.NoError(t, mgr.End(ctx, ""))

		_, err = mgr.Resolve(ctx, cookie)
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("expired", func(t *testing.T) {
		NowFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		cookie, sess, err := mgr.Start(ctx, "student-1", "")
		NowFunc = time.Now // reset
		require.NoError(t, err)

		_, err = mgr.Resolve(ctx, cookie)
		assert.ErrorIs(t, err, ErrNoSession)

		_, err = store.GetSession(ctx, sess.Token)
		assert.ErrorIs(t, err, ErrNotFound, "expired session should be deleted on resolve")
	})

	t.Run("purge expired", func(t *testing.T) {
		NowFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		_, _, err := mgr.Start(ctx, "student-1", "")
		NowFunc = time.Now // reset
		require.NoError(t, err)
		live, _, err := mgr.Start(ctx, "student-1", "")
		require.NoError(t, err)

		n, err := mgr.PurgeExpired(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1))

		_, err = mgr.Resolve(ctx, live)
		assert.NoError(t, err)
	})
}
