package grade

import (
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
)

const (
	MinScore = 0
	MaxScore = 100
)

type Grade struct {
	ID        string `db:"guid"`
	StudentID string `db:"student_guid"`
	CourseID  string `db:"course_guid"`
	Score     int    `db:"score"`
	Grade     string `db:"grade"`
}

// Detail is a Grade joined with its course.
type Detail struct {
	Grade
	CourseCode   string `db:"course_code"`
	CourseName   string `db:"course_name"`
	PassingGrade string `db:"passing_grade"`
	Passed       bool   `db:"-"`
}

// GradeForm is submitted to create or update a Grade.
type GradeForm struct {
	CourseID string `form:"course" validate:"required"`
	Score    string `form:"score" validate:"required,number"`

	score int
}

var gradeFormTexts = map[string]string{
	"course.required": "please select a course",
	"score.required":  "please input a score",
	"score.number":    "score must be a whole number",
}

func (gf *GradeForm) Validate(validate *validator.Validate, translator ut.Translator) error {
	gf.CourseID = core.CleanString(gf.CourseID)
	gf.Score = core.CleanString(gf.Score)

	if err := core.ValidateStruct(validate, translator, gf, gradeFormTexts); err != nil {
		return err
	}

	score, err := strconv.Atoi(gf.Score)
	if err != nil || score < MinScore || score > MaxScore {
		return core.NewValidationError(nil, core.FieldError{Field: "score", Error: "score must be between 0 and 100"})
	}
	gf.score = score
	return nil
}

// ParsedScore is only meaningful after a successful Validate.
func (gf GradeForm) ParsedScore() int {
	return gf.score
}
