// Package shared builds the dependencies both the API server and the admin CLI need.
package shared

import (
	"context"
	"fmt"
	"io"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/session"
	"github.com/trezcool/gradebook/core/student"
	sqlxrepos "github.com/trezcool/gradebook/storage/database/sqlx"
	redisstore "github.com/trezcool/gradebook/storage/redis"
)

const (
	SessionStoreDB    = "db"
	SessionStoreRedis = "redis"
)

// NewValidator returns a validator with the form field names, custom tags and password policy registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	return validate, translator
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewSessionStore returns the configured session.Store and the io.Closer releasing its connection.
func NewSessionStore(ctx context.Context, conf *core.Config, db core.DB) (session.Store, io.Closer, error) {
	switch conf.Session.Store {
	case SessionStoreDB, "":
		return sqlxrepos.NewSessionStore(db), nopCloser{}, nil
	case SessionStoreRedis:
		client, err := redisstore.Connect(ctx, conf.Session.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewSessionStore(client), client, nil
	default:
		return nil, nil, fmt.Errorf("unsupported session store %q", conf.Session.Store)
	}
}

// NewSessionManager wires the configured store into a session.Manager.
func NewSessionManager(conf *core.Config, store session.Store) *session.Manager {
	return session.NewManager(store, conf.SecretKey, conf.Session.MaxAge)
}
