package course

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grading"
)

var (
	// errors
	ErrNotFound = errors.New("course not found")

	errUnknownPassingGrade = "passing grade must be one of the grades of the rule table"

	// OrderingFields are the fields courses may be ordered by.
	OrderingFields  = []string{"course_code", "course_name", "passing_grade"}
	DefaultOrdering = core.DBOrdering{Field: "course_name", Ascending: true}
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, exec core.DBExecutor, c Course) (Course, error)
		// GetCourse returns ErrNotFound for unknown ids.
		GetCourse(ctx context.Context, exec core.DBExecutor, id string) (Course, error)
		QueryAllCourses(ctx context.Context, exec core.DBExecutor, orderings ...core.DBOrdering) ([]Course, error)
		UpdateCourse(ctx context.Context, exec core.DBExecutor, c Course) (Course, error)
		DeleteCourse(ctx context.Context, exec core.DBExecutor, id string) error
	}

	Service struct {
		db         core.DB
		repo       Repository
		rules      *grading.Engine
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(
	db core.DB,
	repo Repository,
	rules *grading.Engine,
	validate *validator.Validate,
	translator ut.Translator,
) *Service {
	return &Service{
		db:         db,
		repo:       repo,
		rules:      rules,
		validate:   validate,
		translator: translator,
	}
}

func (svc *Service) validateForm(ctx context.Context, exec core.DBExecutor, cf *CourseForm) error {
	if err := cf.Validate(svc.validate, svc.translator); err != nil {
		return err
	}
	if cf.PassingGrade == "" {
		return nil
	}
	rules, err := svc.rules.Rules(ctx, exec)
	if err != nil {
		return err
	}
	if !grading.IsGrade(rules, cf.PassingGrade) {
		return core.NewValidationError(nil, core.FieldError{Field: "passing grade", Error: errUnknownPassingGrade})
	}
	return nil
}

// Create validates cf and creates the Course. Course codes are not unique.
func (svc *Service) Create(ctx context.Context, cf CourseForm) (Course, error) {
	var crs Course
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if err := svc.validateForm(ctx, tx, &cf); err != nil {
			return err
		}
		var err error
		crs, err = svc.repo.CreateCourse(ctx, tx, Course{
			ID:           uuid.New().String(),
			Code:         cf.Code,
			Name:         cf.Name,
			PassingGrade: cf.PassingGrade,
		})
		return errors.Wrap(err, "creating course")
	})
	return crs, err
}

func (svc *Service) Get(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourse(ctx, svc.db, id)
}

// Rules returns the grading rules a passing grade may be chosen from.
func (svc *Service) Rules(ctx context.Context) ([]grading.Rule, error) {
	return svc.rules.Rules(ctx, svc.db)
}

// List returns all courses, by course name unless orderings says otherwise.
func (svc *Service) List(ctx context.Context, orderings ...core.DBOrdering) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx, svc.db, orderings...)
}

func (svc *Service) Update(ctx context.Context, id string, cf CourseForm) (Course, error) {
	var crs Course
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if _, err := svc.repo.GetCourse(ctx, tx, id); err != nil {
			return err
		}
		if err := svc.validateForm(ctx, tx, &cf); err != nil {
			return err
		}
		var err error
		crs, err = svc.repo.UpdateCourse(ctx, tx, Course{
			ID:           id,
			Code:         cf.Code,
			Name:         cf.Name,
			PassingGrade: cf.PassingGrade,
		})
		return errors.Wrap(err, "updating course")
	})
	return crs, err
}

// Delete removes the course; its grades are removed by the store (ON DELETE CASCADE).
// Deleting an unknown course is not an error.
func (svc *Service) Delete(ctx context.Context, id string) error {
	return core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		return errors.Wrap(svc.repo.DeleteCourse(ctx, tx, id), "deleting course")
	})
}
