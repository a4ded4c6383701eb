package course_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/course"
	"github.com/trezcool/gradebook/core/grading"
	sqlxrepos "github.com/trezcool/gradebook/storage/database/sqlx"
	"github.com/trezcool/gradebook/testutil"
)

func newService(t *testing.T) *course.Service {
	db := testutil.OpenDB(t)
	validate, translator := testutil.NewValidator()
	engine := grading.NewEngine(sqlxrepos.NewRuleRepository())
	return course.NewService(db, sqlxrepos.NewCourseRepository(), engine, validate, translator)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	tests := []struct {
		name     string
		form     course.CourseForm
		want     course.Course
		wantMsgs []string
	}{
		{
			name:     "missing fields",
			form:     course.CourseForm{Code: "  ", Name: ""},
			wantMsgs: []string{"course code is required", "course name is required"},
		},
		{
			name:     "unknown passing grade",
			form:     course.CourseForm{Code: "cs101", Name: "algorithms", PassingGrade: "e"},
			wantMsgs: []string{"passing grade must be one of the grades of the rule table"},
		},
		{
			name: "normalised",
			form: course.CourseForm{Code: " cs101 ", Name: "  intro to   algorithms ", PassingGrade: "c"},
			want: course.Course{Code: "CS101", Name: "Intro To Algorithms", PassingGrade: "C"},
		},
		{
			name: "spaced code",
			form: course.CourseForm{Code: " math 101 ", Name: "Calculus"},
			want: course.Course{Code: "MATH 101", Name: "Calculus"},
		},
		{
			name: "dotted code",
			form: course.CourseForm{Code: "cs.101", Name: "Algorithms"},
			want: course.Course{Code: "CS.101", Name: "Algorithms"},
		},
		{
			name: "duplicate code is allowed",
			form: course.CourseForm{Code: "CS101", Name: "Algorithms"},
			want: course.Course{Code: "CS101", Name: "Algorithms"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Create(ctx, tt.form)
			if tt.wantMsgs != nil {
				var vErr *core.ValidationError
				if assert.ErrorAs(t, err, &vErr) {
					assert.Equal(t, tt.wantMsgs, vErr.Messages())
				}
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			tt.want.ID = got.ID
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	crs, err := svc.Create(ctx, course.CourseForm{Code: "MA101", Name: "Calculus"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "nope", course.CourseForm{Code: "MA101", Name: "Calculus"})
	assert.ErrorIs(t, err, course.ErrNotFound)

	updated, err := svc.Update(ctx, crs.ID, course.CourseForm{Code: "ma102", Name: "calculus ii", PassingGrade: "D"})
	require.NoError(t, err)
	assert.Equal(t, course.Course{ID: crs.ID, Code: "MA102", Name: "Calculus Ii", PassingGrade: "D"}, updated)

	courses, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []course.Course{updated}, courses)

	require.NoError(t, svc.Delete(ctx, crs.ID))
	require.NoError(t, svc.Delete(ctx, crs.ID))
	_, err = svc.Get(ctx, crs.ID)
	assert.ErrorIs(t, err, course.ErrNotFound)
}
