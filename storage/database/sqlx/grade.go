package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/course"
	"github.com/trezcool/gradebook/core/grade"
	"github.com/trezcool/gradebook/storage/database"
)

const gradeColumns = "guid, student_guid, course_guid, score, grade"

type gradeRepository struct{}

var _ grade.Repository = (*gradeRepository)(nil)

func NewGradeRepository() grade.Repository {
	return &gradeRepository{}
}

func (repo gradeRepository) CreateGrade(ctx context.Context, exec core.DBExecutor, g grade.Grade) (grade.Grade, error) {
	q := exec.Rebind("INSERT INTO grades (" + gradeColumns + ") VALUES (?, ?, ?, ?, ?)")
	if _, err := exec.ExecContext(ctx, q, g.ID, g.StudentID, g.CourseID, g.Score, g.Grade); err != nil {
		return grade.Grade{}, trapGradeConstraintErr(err, "inserting grade")
	}
	return g, nil
}

func (repo gradeRepository) GetGrade(ctx context.Context, exec core.DBExecutor, id string) (grade.Grade, error) {
	var g grade.Grade
	q := exec.Rebind("SELECT " + gradeColumns + " FROM grades WHERE guid = ?")
	if err := exec.GetContext(ctx, &g, q, id); err != nil {
		return grade.Grade{}, trapNoRowsErr(err, grade.ErrNotFound)
	}
	return g, nil
}

func (repo gradeRepository) UpdateGrade(ctx context.Context, exec core.DBExecutor, g grade.Grade) (grade.Grade, error) {
	q := exec.Rebind("UPDATE grades SET course_guid = ?, score = ?, grade = ? WHERE guid = ?")
	res, err := exec.ExecContext(ctx, q, g.CourseID, g.Score, g.Grade, g.ID)
	if err != nil {
		return grade.Grade{}, trapGradeConstraintErr(err, "updating grade")
	}
	if err = checkAffected(res, grade.ErrNotFound); err != nil {
		return grade.Grade{}, err
	}
	return g, nil
}

// trapGradeConstraintErr maps a (student, course) collision to grade.ErrDuplicateGrade
// and a dangling course reference to course.ErrNotFound.
func trapGradeConstraintErr(err error, msg string) error {
	switch {
	case database.IsUniqueViolation(err):
		return grade.ErrDuplicateGrade
	case database.IsForeignKeyViolation(err):
		return course.ErrNotFound
	default:
		return errors.Wrap(err, msg)
	}
}

func (repo gradeRepository) DeleteGrade(ctx context.Context, exec core.DBExecutor, id string) error {
	q := exec.Rebind("DELETE FROM grades WHERE guid = ?")
	_, err := exec.ExecContext(ctx, q, id)
	return errors.Wrap(err, "deleting grade")
}

func (repo gradeRepository) QueryStudentGrades(ctx context.Context, exec core.DBExecutor, studentID string) ([]grade.Detail, error) {
	q := exec.Rebind(`
		SELECT g.guid, g.student_guid, g.course_guid, g.score, g.grade,
		       c.course_code, c.course_name, c.passing_grade
		FROM grades g
		JOIN courses c ON c.guid = g.course_guid
		WHERE g.student_guid = ?
		ORDER BY c.course_name ASC, c.course_code ASC`)

	grades := make([]grade.Detail, 0)
	if err := exec.SelectContext(ctx, &grades, q, studentID); err != nil {
		return nil, errors.Wrap(err, "selecting student grades")
	}
	return grades, nil
}
