package sqlxrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/session"
)

const sessionColumns = "token, student_guid, created_at, expires_at"

type sessionStore struct {
	db core.DB
}

var _ session.Store = (*sessionStore)(nil)

// NewSessionStore keeps sessions in the sessions table.
func NewSessionStore(db core.DB) session.Store {
	return &sessionStore{db: db}
}

func (store sessionStore) CreateSession(ctx context.Context, sess session.Session) error {
	q := store.db.Rebind("INSERT INTO sessions (" + sessionColumns + ") VALUES (?, ?, ?, ?)")
	_, err := store.db.ExecContext(ctx, q, sess.Token, sess.StudentID, sess.CreatedAt, sess.ExpiresAt)
	return errors.Wrap(err, "inserting session")
}

func (store sessionStore) GetSession(ctx context.Context, token string) (session.Session, error) {
	var sess session.Session
	q := store.db.Rebind("SELECT " + sessionColumns + " FROM sessions WHERE token = ?")
	if err := store.db.GetContext(ctx, &sess, q, token); err != nil {
		return session.Session{}, trapNoRowsErr(err, session.ErrNotFound)
	}
	return sess, nil
}

func (store sessionStore) DeleteSession(ctx context.Context, token string) error {
	q := store.db.Rebind("DELETE FROM sessions WHERE token = ?")
	_, err := store.db.ExecContext(ctx, q, token)
	return errors.Wrap(err, "deleting session")
}

func (store sessionStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	q := store.db.Rebind("DELETE FROM sessions WHERE expires_at <= ?")
	res, err := store.db.ExecContext(ctx, q, now.UTC())
	if err != nil {
		return 0, errors.Wrap(err, "deleting expired sessions")
	}
	n, err := res.RowsAffected()
	return n, errors.Wrap(err, "getting affected rows")
}
