package grade_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/course"
	"github.com/trezcool/gradebook/core/grade"
	"github.com/trezcool/gradebook/core/grading"
	sqlxrepos "github.com/trezcool/gradebook/storage/database/sqlx"
	"github.com/trezcool/gradebook/testutil"
)

func newService(t *testing.T) (*grade.Service, *sqlx.DB) {
	db := testutil.OpenDB(t)
	validate, translator := testutil.NewValidator()
	engine := grading.NewEngine(sqlxrepos.NewRuleRepository())
	svc := grade.NewService(db, sqlxrepos.NewGradeRepository(), sqlxrepos.NewCourseRepository(), engine, validate, translator)
	return svc, db
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	stdRepo := sqlxrepos.NewStudentRepository()
	std := testutil.CreateStudent(t, db, stdRepo, "S0001", "s1@test.cd", "")
	crs := testutil.CreateCourse(t, db, sqlxrepos.NewCourseRepository(), "CS101", "Algorithms", "")

	tests := []struct {
		name     string
		form     grade.GradeForm
		wantMsgs []string
	}{
		{name: "missing fields", form: grade.GradeForm{}, wantMsgs: []string{"please select a course", "please input a score"}},
		{name: "not a number", form: grade.GradeForm{CourseID: crs.ID, Score: "9.5"}, wantMsgs: []string{"score must be a whole number"}},
		{name: "negative", form: grade.GradeForm{CourseID: crs.ID, Score: "-1"}, wantMsgs: []string{"score must be a whole number"}},
		{name: "too high", form: grade.GradeForm{CourseID: crs.ID, Score: "101"}, wantMsgs: []string{"score must be between 0 and 100"}},
		{name: "unknown course", form: grade.GradeForm{CourseID: "nope", Score: "50"}, wantMsgs: []string{"invalid course"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, std.ID, tt.form)
			var vErr *core.ValidationError
			if assert.ErrorAs(t, err, &vErr) {
				assert.Equal(t, tt.wantMsgs, vErr.Messages())
			}
		})
	}

	grd, err := svc.Create(ctx, std.ID, grade.GradeForm{CourseID: crs.ID, Score: "92"})
	require.NoError(t, err)
	assert.Equal(t, "A", grd.Grade)
	assert.Equal(t, std.ID, grd.StudentID)

	_, err = svc.Create(ctx, std.ID, grade.GradeForm{CourseID: crs.ID, Score: "40"})
	assert.ErrorIs(t, err, grade.ErrDuplicateGrade)

	// the pre-existing grade is unchanged
	got, err := svc.Get(ctx, grd.ID, std.ID, true)
	require.NoError(t, err)
	assert.Equal(t, grd, got)

	require.NoError(t, svc.Delete(ctx, std.ID, grd.ID))
	_, err = svc.Create(ctx, std.ID, grade.GradeForm{CourseID: crs.ID, Score: "92"})
	assert.NoError(t, err)
}

func TestService_Ownership(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	stdRepo := sqlxrepos.NewStudentRepository()
	owner := testutil.CreateStudent(t, db, stdRepo, "S0001", "s1@test.cd", "")
	other := testutil.CreateStudent(t, db, stdRepo, "S0002", "s2@test.cd", "")
	crsRepo := sqlxrepos.NewCourseRepository()
	algo := testutil.CreateCourse(t, db, crsRepo, "CS101", "Algorithms", "B")
	calc := testutil.CreateCourse(t, db, crsRepo, "MA101", "Calculus", "")

	grd, err := svc.Create(ctx, owner.ID, grade.GradeForm{CourseID: algo.ID, Score: "85"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner.ID, grade.GradeForm{CourseID: calc.ID, Score: "30"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, grd.ID, other.ID, true)
	assert.ErrorIs(t, err, grade.ErrForbidden)
	_, err = svc.Get(ctx, grd.ID, other.ID, false)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, "nope", owner.ID, true)
	assert.ErrorIs(t, err, grade.ErrNotFound)

	_, err = svc.Update(ctx, other.ID, grd.ID, grade.GradeForm{CourseID: algo.ID, Score: "10"})
	assert.ErrorIs(t, err, grade.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, other.ID, grd.ID), grade.ErrForbidden)

	// moving the grade onto a course that already has one
	_, err = svc.Update(ctx, owner.ID, grd.ID, grade.GradeForm{CourseID: calc.ID, Score: "70"})
	assert.ErrorIs(t, err, grade.ErrDuplicateGrade)

	updated, err := svc.Update(ctx, owner.ID, grd.ID, grade.GradeForm{CourseID: algo.ID, Score: "75"})
	require.NoError(t, err)
	assert.Equal(t, "C", updated.Grade)
	assert.Equal(t, owner.ID, updated.StudentID)

	grades, err := svc.ListForStudent(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, grades, 2)
	assert.Equal(t, "Algorithms", grades[0].CourseName)
	assert.False(t, grades[0].Passed, "C does not pass a B course")
	assert.Equal(t, "Calculus", grades[1].CourseName)
	assert.True(t, grades[1].Passed, "no passing grade")

	grades, err = svc.ListForStudent(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, grades)
}

// staleCourseRepository still finds courses that were deleted after being listed.
type staleCourseRepository struct {
	course.Repository
}

func (staleCourseRepository) GetCourse(_ context.Context, _ core.DBExecutor, id string) (course.Course, error) {
	return course.Course{ID: id}, nil
}

func TestService_deletedCourse(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	validate, translator := testutil.NewValidator()
	engine := grading.NewEngine(sqlxrepos.NewRuleRepository())
	crsRepo := sqlxrepos.NewCourseRepository()
	svc := grade.NewService(db, sqlxrepos.NewGradeRepository(), staleCourseRepository{crsRepo}, engine, validate, translator)

	std := testutil.CreateStudent(t, db, sqlxrepos.NewStudentRepository(), "S0001", "s1@test.cd", "")
	crs := testutil.CreateCourse(t, db, crsRepo, "CS101", "Algorithms", "")
	grd, err := svc.Create(ctx, std.ID, grade.GradeForm{CourseID: crs.ID, Score: "80"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		write func() error
	}{
		{
			name: "create",
			write: func() error {
				_, err := svc.Create(ctx, std.ID, grade.GradeForm{CourseID: "deleted-course", Score: "80"})
				return err
			},
		},
		{
			name: "update",
			write: func() error {
				_, err := svc.Update(ctx, std.ID, grd.ID, grade.GradeForm{CourseID: "deleted-course", Score: "80"})
				return err
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var vErr *core.ValidationError
			require.ErrorAs(t, tt.write(), &vErr)
			assert.Equal(t, []string{"invalid course"}, vErr.Messages())
		})
	}
}
