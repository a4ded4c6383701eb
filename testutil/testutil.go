package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/course"
	"github.com/trezcool/gradebook/core/student"
	"github.com/trezcool/gradebook/storage/database"
)

func init() {
	student.PasswordCost = bcrypt.MinCost
}

// NewConfig returns a test configuration backed by a sqlite file in a temporary directory.
func NewConfig(t *testing.T) *core.Config {
	return &core.Config{
		AppName:   "Gradebook",
		Env:       "TEST",
		Debug:     false,
		TestMode:  true,
		SecretKey: "test-secret",
		Database: core.DatabaseConfig{
			Driver: database.DriverSQLite,
			DSN:    filepath.Join(t.TempDir(), "test.sqlite"),
		},
		Session: core.SessionConfig{
			CookieName: "gradebook_session",
			MaxAge:     time.Hour,
			Store:      "db",
		},
	}
}

// OpenDB opens a fresh migrated database, closed when the test ends.
func OpenDB(t *testing.T, conf ...*core.Config) *sqlx.DB {
	var c *core.Config
	if len(conf) > 0 {
		c = conf[0]
	} else {
		c = NewConfig(t)
	}

	db, err := database.Open(c)
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db, "up"); err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	return db
}

// NewValidator returns a validator and translator set up like the apps do.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	return validate, translator
}

func CreateStudent(t *testing.T, db core.DB, repo student.Repository, studentNumber, email, pwd string) student.Student {
	std := student.Student{
		ID:            uuid.New().String(),
		StudentNumber: studentNumber,
		Email:         email,
		CreatedAt:     time.Now().UTC(),
	}
	if pwd != "" {
		if err := std.SetPassword(pwd); err != nil {
			t.Fatalf("CreateStudent() failed: %v", err)
		}
	}
	std, err := repo.CreateStudent(context.Background(), db, std)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreateCourse(t *testing.T, db core.DB, repo course.Repository, code, name, passingGrade string) course.Course {
	crs, err := repo.CreateCourse(context.Background(), db, course.Course{
		ID:           uuid.New().String(),
		Code:         code,
		Name:         name,
		PassingGrade: passingGrade,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}
