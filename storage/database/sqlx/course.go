package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/course"
)

const courseColumns = "guid, course_code, course_name, passing_grade"

type courseRepository struct{}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository() course.Repository {
	return &courseRepository{}
}

func (repo courseRepository) CreateCourse(ctx context.Context, exec core.DBExecutor, c course.Course) (course.Course, error) {
	q := exec.Rebind("INSERT INTO courses (" + courseColumns + ") VALUES (?, ?, ?, ?)")
	if _, err := exec.ExecContext(ctx, q, c.ID, c.Code, c.Name, c.PassingGrade); err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return c, nil
}

func (repo courseRepository) GetCourse(ctx context.Context, exec core.DBExecutor, id string) (course.Course, error) {
	var c course.Course
	q := exec.Rebind("SELECT " + courseColumns + " FROM courses WHERE guid = ?")
	if err := exec.GetContext(ctx, &c, q, id); err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound)
	}
	return c, nil
}

func (repo courseRepository) QueryAllCourses(ctx context.Context, exec core.DBExecutor, orderings ...core.DBOrdering) ([]course.Course, error) {
	q := "SELECT " + courseColumns + " FROM courses" +
		core.OrderByClause(orderings, course.OrderingFields, course.DefaultOrdering)

	courses := make([]course.Course, 0)
	if err := exec.SelectContext(ctx, &courses, q); err != nil {
		return nil, errors.Wrap(err, "selecting courses")
	}
	return courses, nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, exec core.DBExecutor, c course.Course) (course.Course, error) {
	q := exec.Rebind("UPDATE courses SET course_code = ?, course_name = ?, passing_grade = ? WHERE guid = ?")
	res, err := exec.ExecContext(ctx, q, c.Code, c.Name, c.PassingGrade, c.ID)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if err = checkAffected(res, course.ErrNotFound); err != nil {
		return course.Course{}, err
	}
	return c, nil
}

func (repo courseRepository) DeleteCourse(ctx context.Context, exec core.DBExecutor, id string) error {
	q := exec.Rebind("DELETE FROM courses WHERE guid = ?")
	_, err := exec.ExecContext(ctx, q, id)
	return errors.Wrap(err, "deleting course")
}
