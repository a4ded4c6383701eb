package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestStringHelpers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{name: "clean", fn: func(s string) string { return CleanString(s) }, in: "  Mixed Case ", want: "Mixed Case"},
		{name: "clean lower", fn: func(s string) string { return CleanString(s, true) }, in: " S1@Test.CD", want: "s1@test.cd"},
		{name: "upper", fn: UpperString, in: " cs101 ", want: "CS101"},
		{name: "title", fn: TitleString, in: "  intro   to GO ", want: "Intro To Go"},
		{name: "title empty", fn: TitleString, in: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestOrderByClause(t *testing.T) {
	allowed := []string{"course_code", "course_name"}
	def := DBOrdering{Field: "course_name", Ascending: true}

	tests := []struct {
		name      string
		orderings []DBOrdering
		want      string
	}{
		{name: "default", want: " ORDER BY course_name ASC"},
		{name: "unknown field", orderings: []DBOrdering{{Field: "1; DROP TABLE courses"}}, want: " ORDER BY course_name ASC"},
		{
			name:      "several",
			orderings: []DBOrdering{{Field: "course_code"}, {Field: "nope"}, {Field: "course_name", Ascending: true}},
			want:      " ORDER BY course_code DESC, course_name ASC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OrderByClause(tt.orderings, allowed, def))
		})
	}
	assert.Empty(t, OrderByClause(nil, allowed))
}

func TestValidationError(t *testing.T) {
	sentinel := errors.New("duplicate")

	err := NewValidationError(sentinel, FieldError{Field: "course", Error: "already graded"})
	assert.True(t, errors.Is(errors.Wrap(err, "creating"), sentinel))
	assert.Equal(t, "duplicate", err.Error())

	var vErr *ValidationError
	if assert.True(t, errors.As(err, &vErr)) {
		assert.Equal(t, []string{"already graded"}, vErr.Messages())
	}

	err = NewValidationError(nil, FieldError{Field: "a", Error: "a is required"}, FieldError{Field: "b", Error: "b is required"})
	assert.Equal(t, "a is required", err.Error())
	assert.Equal(t, []string{"a is required", "b is required"}, err.(*ValidationError).Messages())

	assert.Equal(t, []string{"duplicate"}, NewValidationError(sentinel).(*ValidationError).Messages())
}
