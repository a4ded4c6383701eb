package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core/session"
)

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)

	client, err := Connect(ctx, "redis://"+srv.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	store := NewSessionStore(client)

	now := time.Now().UTC()
	sess := session.Session{Token: "tok3n", StudentID: "student-1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, store.CreateSession(ctx, sess))

	got, err := store.GetSession(ctx, "tok3n")
	require.NoError(t, err)
	assert.Equal(t, "student-1", got.StudentID)
	assert.True(t, sess.ExpiresAt.Equal(got.ExpiresAt))

	_, err = store.GetSession(ctx, "unknown")
	assert.Equal(t, session.ErrNotFound, err)

	t.Run("expires with the session", func(t *testing.T) {
		short := session.Session{Token: "short", StudentID: "student-1", CreatedAt: now, ExpiresAt: time.Now().Add(time.Minute)}
		require.NoError(t, store.CreateSession(ctx, short))
		srv.FastForward(2 * time.Minute)

		_, err := store.GetSession(ctx, "short")
		assert.Equal(t, session.ErrNotFound, err)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.DeleteSession(ctx, "tok3n"))
		require.NoError(t, store.DeleteSession(ctx, "tok3n"))
		_, err := store.GetSession(ctx, "tok3n")
		assert.Equal(t, session.ErrNotFound, err)
	})

	t.Run("works with the manager", func(t *testing.T) {
		mgr := session.NewManager(store, "secret", time.Hour)
		cookie, _, err := mgr.Start(ctx, "student-2", "")
		require.NoError(t, err)
		got, err := mgr.Resolve(ctx, cookie)
		require.NoError(t, err)
		assert.Equal(t, "student-2", got.StudentID)
	})
}
