package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/gradebook/core/grading"
	"github.com/trezcool/gradebook/core/session"
	"github.com/trezcool/gradebook/core/student"
	"github.com/trezcool/gradebook/storage/database"
)

var (
	gooseRunFunc     = database.Migrate  // mockable
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db         *sqlx.DB
	studentSvc *student.Service
	sessions   *session.Manager
	rules      *grading.Engine
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a migration command (up, up-by-one, up-to, down, down-to, redo, reset, status, version)")
	fmt.Println("  resetpassword -student STUDENT_NUMBER|EMAIL - reset a student's password")
	fmt.Println("  clearsessions - delete expired sessions")
	fmt.Println("  checkrules - check that the grading rules do not overlap or leave gaps")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordStudent := resetPasswordCmd.String("student", "", "The student's number or email. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordStudent == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordStudent, string(pwd))
	case "clearsessions":
		return cli.clearSessions()
	case "checkrules":
		return cli.checkRules()
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) migrate(args []string) error {
	return gooseRunFunc(cli.db, args[0], args[1:]...)
}

func (cli *commandLine) resetPassword(identifier, pwd string) error {
	return cli.studentSvc.ResetPassword(context.Background(), identifier, pwd)
}

func (cli *commandLine) clearSessions() error {
	n, err := cli.sessions.PurgeExpired(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("deleted %d expired sessions\n", n)
	return nil
}

func (cli *commandLine) checkRules() error {
	rules, err := cli.rules.Rules(context.Background(), cli.db)
	if err != nil {
		return err
	}
	if err = grading.CheckRules(rules); err != nil {
		return err
	}
	fmt.Printf("%d grading rules OK\n", len(rules))
	return nil
}
