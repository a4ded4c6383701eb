package course

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
)

type Course struct {
	ID           string `db:"guid"`
	Code         string `db:"course_code"`
	Name         string `db:"course_name"`
	PassingGrade string `db:"passing_grade"`
}

// CourseForm is submitted to create or update a Course.
type CourseForm struct {
	Code         string `form:"course_code" validate:"required,max=16"`
	Name         string `form:"course_name" validate:"required,max=128"`
	PassingGrade string `form:"passing_grade" validate:"omitempty,max=2"`
}

// Clean upper-cases the code and passing grade and title-cases the name.
func (cf *CourseForm) Clean() {
	cf.Code = core.UpperString(cf.Code)
	cf.Name = core.TitleString(cf.Name)
	cf.PassingGrade = core.UpperString(cf.PassingGrade)
}

func (cf *CourseForm) Validate(validate *validator.Validate, translator ut.Translator) error {
	cf.Clean()
	return core.ValidateStruct(validate, translator, cf, nil)
}
