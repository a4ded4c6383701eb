package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/student"
	"github.com/trezcool/gradebook/storage/database"
)

const studentColumns = "guid, student_number, email, password, created_at"

type studentRepository struct{}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository() student.Repository {
	return &studentRepository{}
}

func (repo studentRepository) CheckUniqueness(ctx context.Context, exec core.DBExecutor, studentNumber, email string) error {
	var taken []struct {
		StudentNumber string `db:"student_number"`
		Email         string `db:"email"`
	}
	q := exec.Rebind("SELECT student_number, email FROM students WHERE student_number = ? OR email = ?")
	if err := exec.SelectContext(ctx, &taken, q, studentNumber, email); err != nil {
		return errors.Wrap(err, "selecting students")
	}
	for _, s := range taken {
		if s.StudentNumber == studentNumber {
			return student.ErrStudentNumberExists
		}
	}
	if len(taken) > 0 {
		return student.ErrEmailExists
	}
	return nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, exec core.DBExecutor, s student.Student) (student.Student, error) {
	q := exec.Rebind("INSERT INTO students (" + studentColumns + ") VALUES (?, ?, ?, ?, ?)")
	if _, err := exec.ExecContext(ctx, q, s.ID, s.StudentNumber, s.Email, s.PasswordHash, s.CreatedAt); err != nil {
		if database.IsUniqueViolation(err) {
			return student.Student{}, student.ErrDuplicateIdentity
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return s, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, exec core.DBExecutor, filter student.GetFilter) (student.Student, error) {
	var col, val string
	switch {
	case filter.ID != "":
		col, val = "guid", filter.ID
	case filter.StudentNumber != "":
		col, val = "student_number", filter.StudentNumber
	case filter.Email != "":
		col, val = "email", filter.Email
	default:
		return student.Student{}, student.ErrNotFound
	}

	var s student.Student
	q := exec.Rebind("SELECT " + studentColumns + " FROM students WHERE " + col + " = ?")
	if err := exec.GetContext(ctx, &s, q, val); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound)
	}
	return s, nil
}

func (repo studentRepository) UpdatePassword(ctx context.Context, exec core.DBExecutor, id, hash string) error {
	q := exec.Rebind("UPDATE students SET password = ? WHERE guid = ?")
	res, err := exec.ExecContext(ctx, q, hash, id)
	if err != nil {
		return errors.Wrap(err, "updating student password")
	}
	return checkAffected(res, student.ErrNotFound)
}

// trapNoRowsErr maps sql.ErrNoRows to notFound.
func trapNoRowsErr(err, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return err
}

// checkAffected returns notFound when res affected no rows.
func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "getting affected rows")
	}
	if n == 0 {
		return notFound
	}
	return nil
}
