package grade

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/course"
	"github.com/trezcool/gradebook/core/grading"
)

var (
	// errors
	ErrNotFound       = errors.New("grade not found")
	ErrForbidden      = errors.New("grade belongs to another student")
	ErrDuplicateGrade = errors.New("already have a grade for that course")

	errInvalidCourse = "invalid course"
)

type (
	Repository interface {
		// CreateGrade returns ErrDuplicateGrade when the student already has a grade for the course.
		CreateGrade(ctx context.Context, exec core.DBExecutor, g Grade) (Grade, error)
		// GetGrade returns ErrNotFound for unknown ids.
		GetGrade(ctx context.Context, exec core.DBExecutor, id string) (Grade, error)
		// UpdateGrade writes course, score and grade; the owner is never changed.
		UpdateGrade(ctx context.Context, exec core.DBExecutor, g Grade) (Grade, error)
		DeleteGrade(ctx context.Context, exec core.DBExecutor, id string) error
		// QueryStudentGrades returns the student's grades joined with their courses, by course name.
		QueryStudentGrades(ctx context.Context, exec core.DBExecutor, studentID string) ([]Detail, error)
	}

	Service struct {
		db         core.DB
		repo       Repository
		courseRepo course.Repository
		rules      *grading.Engine
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(
	db core.DB,
	repo Repository,
	courseRepo course.Repository,
	rules *grading.Engine,
	validate *validator.Validate,
	translator ut.Translator,
) *Service {
	return &Service{
		db:         db,
		repo:       repo,
		courseRepo: courseRepo,
		rules:      rules,
		validate:   validate,
		translator: translator,
	}
}

func invalidCourseError() error {
	return core.NewValidationError(nil, core.FieldError{Field: "course", Error: errInvalidCourse})
}

func duplicateGradeError() error {
	return core.NewValidationError(ErrDuplicateGrade, core.FieldError{Field: "course", Error: ErrDuplicateGrade.Error()})
}

// prepare validates gf against the store and derives the letter grade of its score.
func (svc *Service) prepare(ctx context.Context, tx core.DBExecutor, gf *GradeForm) (string, error) {
	if err := gf.Validate(svc.validate, svc.translator); err != nil {
		return "", err
	}
	if _, err := svc.courseRepo.GetCourse(ctx, tx, gf.CourseID); err != nil {
		if errors.Is(err, course.ErrNotFound) {
			return "", invalidCourseError()
		}
		return "", errors.Wrap(err, "getting course")
	}
	return svc.rules.GradeFor(ctx, tx, gf.ParsedScore())
}

// Create records a grade for studentID, who must be the current student.
func (svc *Service) Create(ctx context.Context, studentID string, gf GradeForm) (Grade, error) {
	var grd Grade
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		letter, err := svc.prepare(ctx, tx, &gf)
		if err != nil {
			return err
		}
		grd, err = svc.repo.CreateGrade(ctx, tx, Grade{
			ID:        uuid.New().String(),
			StudentID: studentID,
			CourseID:  gf.CourseID,
			Score:     gf.ParsedScore(),
			Grade:     letter,
		})
		switch {
		case errors.Is(err, ErrDuplicateGrade):
			return duplicateGradeError()
		case errors.Is(err, course.ErrNotFound):
			// the course was deleted after prepare looked it up
			return invalidCourseError()
		}
		return errors.Wrap(err, "creating grade")
	})
	return grd, err
}

func (svc *Service) get(ctx context.Context, exec core.DBExecutor, id, requesterID string, checkOwner bool) (Grade, error) {
	grd, err := svc.repo.GetGrade(ctx, exec, id)
	if err != nil {
		return Grade{}, err
	}
	if checkOwner && grd.StudentID != requesterID {
		return Grade{}, ErrForbidden
	}
	return grd, nil
}

// Get returns the grade; with checkOwner, a grade of another student than requesterID is ErrForbidden.
func (svc *Service) Get(ctx context.Context, id, requesterID string, checkOwner bool) (Grade, error) {
	return svc.get(ctx, svc.db, id, requesterID, checkOwner)
}

// Update changes the course and score of a grade owned by requesterID. The owner is preserved.
func (svc *Service) Update(ctx context.Context, requesterID, id string, gf GradeForm) (Grade, error) {
	var grd Grade
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		var err error
		if grd, err = svc.get(ctx, tx, id, requesterID, true); err != nil {
			return err
		}
		letter, err := svc.prepare(ctx, tx, &gf)
		if err != nil {
			return err
		}
		grd.CourseID = gf.CourseID
		grd.Score = gf.ParsedScore()
		grd.Grade = letter

		grd, err = svc.repo.UpdateGrade(ctx, tx, grd)
		switch {
		case errors.Is(err, ErrDuplicateGrade):
			return duplicateGradeError()
		case errors.Is(err, course.ErrNotFound):
			// the course was deleted after prepare looked it up
			return invalidCourseError()
		}
		return errors.Wrap(err, "updating grade")
	})
	return grd, err
}

// Delete removes a grade owned by requesterID.
func (svc *Service) Delete(ctx context.Context, requesterID, id string) error {
	return core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if _, err := svc.get(ctx, tx, id, requesterID, true); err != nil {
			return err
		}
		return errors.Wrap(svc.repo.DeleteGrade(ctx, tx, id), "deleting grade")
	})
}

// ListForStudent returns the grades of studentID with their course and whether they pass it.
func (svc *Service) ListForStudent(ctx context.Context, studentID string) ([]Detail, error) {
	grades, err := svc.repo.QueryStudentGrades(ctx, svc.db, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying student grades")
	}
	rules, err := svc.rules.Rules(ctx, svc.db)
	if err != nil {
		return nil, err
	}
	for i := range grades {
		// a passing grade missing from the rule table never passes
		grades[i].Passed, _ = grading.Passed(rules, grades[i].Grade.Grade, grades[i].PassingGrade)
	}
	return grades, nil
}
