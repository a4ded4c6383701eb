// Package di assembles the API server's dependencies in a dig.Container.
package di

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/gradebook/apps/api/echo"
	"github.com/trezcool/gradebook/apps/shared"
	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/course"
	"github.com/trezcool/gradebook/core/grade"
	"github.com/trezcool/gradebook/core/grading"
	"github.com/trezcool/gradebook/core/session"
	"github.com/trezcool/gradebook/core/student"
	logsvc "github.com/trezcool/gradebook/services/logger"
	"github.com/trezcool/gradebook/storage/database"
	sqlxrepos "github.com/trezcool/gradebook/storage/database/sqlx"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	sessionStoreResult struct {
		dig.Out
		Store  session.Store
		Closer io.Closer `name:"sessionStore"`
	}

	// Cleanup releases what the container opened.
	Cleanup struct {
		dig.In
		DB           *sqlx.DB
		SessionStore io.Closer `name:"sessionStore"`
	}
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, core.DB) {
	setUp := func() (*sqlx.DB, error) {
		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		if err = database.Migrate(db, "up"); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db
}

func newSessionStore(conf *core.Config, db core.DB, logger core.Logger) sessionStoreResult {
	store, closer, err := shared.NewSessionStore(context.Background(), conf, db)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up session store: %v", err), err)
	}
	return sessionStoreResult{Store: store, Closer: closer}
}

func newServer(
	conf *core.Config,
	logger core.Logger,
	sessions *session.Manager,
	studentSvc *student.Service,
	courseSvc *course.Service,
	gradeSvc *grade.Service,
) (*echoapi.Server, error) {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Sessions:   sessions,
		StudentSvc: studentSvc,
		CourseSvc:  courseSvc,
		GradeSvc:   gradeSvc,
	})
}

// New returns a new dependency injection dig.Container.
func New(newConfig func() *core.Config) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(shared.NewValidator))

	must(c.Provide(sqlxrepos.NewStudentRepository))
	must(c.Provide(sqlxrepos.NewCourseRepository))
	must(c.Provide(sqlxrepos.NewGradeRepository))
	must(c.Provide(sqlxrepos.NewRuleRepository))
	must(c.Provide(grading.NewEngine))

	must(c.Provide(student.NewService))
	must(c.Provide(course.NewService))
	must(c.Provide(grade.NewService))

	must(c.Provide(newSessionStore))
	must(c.Provide(shared.NewSessionManager))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
