package student

import (
	"context"
	"fmt"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
)

var (
	// errors
	ErrNotFound             = errors.New("student not found")
	ErrDuplicateIdentity    = errors.New("student already registered")
	ErrStudentNumberExists  = errors.New("a student with this student number already exists")
	ErrEmailExists          = errors.New("a student with this email already exists")
	ErrAuthenticationFailed = errors.New("incorrect student number, email or password")
)

type (
	Repository interface {
		// CheckUniqueness returns ErrStudentNumberExists or ErrEmailExists.
		CheckUniqueness(ctx context.Context, exec core.DBExecutor, studentNumber, email string) error
		// CreateStudent returns ErrDuplicateIdentity on a unique constraint violation.
		CreateStudent(ctx context.Context, exec core.DBExecutor, s Student) (Student, error)
		GetStudent(ctx context.Context, exec core.DBExecutor, filter GetFilter) (Student, error)
		UpdatePassword(ctx context.Context, exec core.DBExecutor, id, hash string) error
	}

	Service struct {
		db         core.DB
		repo       Repository
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(db core.DB, repo Repository, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{
		db:         db,
		repo:       repo,
		validate:   validate,
		translator: translator,
	}
}

func (svc *Service) checkUniqueness(ctx context.Context, exec core.DBExecutor, studentNumber, email string) error {
	if err := svc.repo.CheckUniqueness(ctx, exec, studentNumber, email); err != nil {
		switch err {
		case ErrStudentNumberExists:
			msg := fmt.Sprintf("student %s is already registered", studentNumber)
			return core.NewValidationError(ErrDuplicateIdentity, core.FieldError{Field: "student number", Error: msg})
		case ErrEmailExists:
			return core.NewValidationError(ErrDuplicateIdentity, core.FieldError{Field: "email", Error: err.Error()})
		default:
			return errors.Wrap(err, "checking uniqueness")
		}
	}
	return nil
}

// Register validates ns and creates the Student. It does not log them in.
func (svc *Service) Register(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validate, svc.translator); err != nil {
		return Student{}, err
	}

	std := Student{
		ID:            uuid.New().String(),
		StudentNumber: ns.StudentNumber,
		Email:         ns.Email,
		CreatedAt:     time.Now().UTC(),
	}
	if err := std.SetPassword(ns.Password); err != nil {
		return Student{}, errors.Wrap(err, "hashing password")
	}

	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if err := svc.checkUniqueness(ctx, tx, std.StudentNumber, std.Email); err != nil {
			return err
		}
		var err error
		std, err = svc.repo.CreateStudent(ctx, tx, std)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			return Student{}, svc.duplicateIdentityError(ctx, std, err)
		}
		return Student{}, errors.Wrap(err, "creating student")
	}
	return std, nil
}

// duplicateIdentityError reports which identity field collided, including when a concurrent
// registration won the race after the uniqueness check passed.
func (svc *Service) duplicateIdentityError(ctx context.Context, std Student, err error) error {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		return err
	}
	if err = svc.checkUniqueness(ctx, svc.db, std.StudentNumber, std.Email); errors.As(err, &vErr) {
		return err
	}
	return core.NewValidationError(ErrDuplicateIdentity, core.FieldError{
		Field: "student number",
		Error: "a student with this student number or email already exists",
	})
}

// ValidateCredentials checks that both login fields were provided.
func (svc *Service) ValidateCredentials(c *Credentials) error {
	return c.Validate(svc.validate, svc.translator)
}

// Authenticate finds the Student by email or student number and checks their password.
// Both an unknown identifier and a wrong password return ErrAuthenticationFailed.
func (svc *Service) Authenticate(ctx context.Context, identifier, pwd string) (Student, error) {
	std, err := svc.repo.GetStudent(ctx, svc.db, lookupFilter(identifier))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Student{}, ErrAuthenticationFailed
		}
		return Student{}, errors.Wrap(err, "finding student by identifier")
	}
	if err = std.CheckPassword(pwd); err != nil {
		return Student{}, ErrAuthenticationFailed
	}
	return std, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, svc.db, GetFilter{ID: id})
}

// ResetPassword sets a new password for the Student identified by an email or a student number.
func (svc *Service) ResetPassword(ctx context.Context, identifier, pwd string) error {
	std, err := svc.repo.GetStudent(ctx, svc.db, lookupFilter(identifier))
	if err != nil {
		return errors.Wrap(err, "finding student by identifier")
	}

	data := ResetPassword{StudentNumber: std.StudentNumber, Email: std.Email, Password: pwd}
	if err = data.Validate(svc.validate, svc.translator); err != nil {
		return err
	}
	if err = std.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	return core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		return svc.repo.UpdatePassword(ctx, tx, std.ID, std.PasswordHash)
	})
}
