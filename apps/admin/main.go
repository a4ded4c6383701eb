package main

import (
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/gradebook/apps/shared"
	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grading"
	"github.com/trezcool/gradebook/core/student"
	logsvc "github.com/trezcool/gradebook/services/logger"
	"github.com/trezcool/gradebook/storage/database"
	sqlxrepos "github.com/trezcool/gradebook/storage/database/sqlx"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()

	rollbarLogger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	rollbarLogger.Enable(!conf.Debug)
	logger = rollbarLogger

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)

	cli, closeCLI, err := newCommandLine(conf, db)
	errAndDie(err)

	// start CLI
	err = cli.run(os.Args)
	_ = closeCLI()
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("admin command failed: "+err.Error(), err)
		}
		os.Exit(1)
	}
}

func newCommandLine(conf *core.Config, db *sqlx.DB) (*commandLine, func() error, error) {
	validate, translator := shared.NewValidator()
	store, closer, err := shared.NewSessionStore(context.Background(), conf, db)
	if err != nil {
		return nil, nil, err
	}

	cli := &commandLine{
		db:         db,
		studentSvc: student.NewService(db, sqlxrepos.NewStudentRepository(), validate, translator),
		sessions:   shared.NewSessionManager(conf, store),
		rules:      grading.NewEngine(sqlxrepos.NewRuleRepository()),
	}
	return cli, closer.Close, nil
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
