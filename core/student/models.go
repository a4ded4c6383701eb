package student

import (
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/gradebook/core"
)

var PasswordCost = bcrypt.DefaultCost // lowered in tests

type Student struct {
	ID            string    `db:"guid"`
	StudentNumber string    `db:"student_number"`
	Email         string    `db:"email"`
	PasswordHash  string    `db:"password"`
	CreatedAt     time.Time `db:"created_at"` // UTC
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), PasswordCost)
	if err != nil {
		return err
	}
	s.PasswordHash = string(hash)
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(pwd))
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	StudentNumber   string `form:"student_number" validate:"required,max=32"`
	Email           string `form:"email" validate:"required,max=254,email"`
	Password        string `form:"password" validate:"required"`
	PasswordConfirm string `form:"password_confirm" validate:"omitempty,eqfield=Password"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, translator ut.Translator) error {
	ns.StudentNumber = core.UpperString(ns.StudentNumber)
	ns.Email = core.CleanString(ns.Email, true /* lower */)

	return core.ValidateStruct(validate, translator, ns, map[string]string{
		"email.email":              "invalid email format",
		"password confirm.eqfield": "passwords do not match",
	})
}

// ResetPassword is used by administrators to set a new password for a Student.
type ResetPassword struct {
	StudentNumber string `validate:"-"`
	Email         string `validate:"-"`
	Password      string `form:"password" validate:"required"`
}

func (rp ResetPassword) Validate(validate *validator.Validate, translator ut.Translator) error {
	return core.ValidateStruct(validate, translator, rp, nil)
}

// Credentials are submitted on login. Identifier is an email or a student number.
type Credentials struct {
	Identifier string `form:"identifier" validate:"required"`
	Password   string `form:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate, translator ut.Translator) error {
	c.Identifier = core.CleanString(c.Identifier)
	return core.ValidateStruct(validate, translator, c, map[string]string{
		"identifier.required": "student number or email is required",
	})
}

// GetFilter selects a single Student; the first non-empty field wins.
type GetFilter struct {
	ID            string
	StudentNumber string
	Email         string
}

// lookupFilter treats identifier as an email when it looks like one, else as a student number.
func lookupFilter(identifier string) GetFilter {
	identifier = strings.TrimSpace(identifier)
	if IsValidEmail(identifier) {
		return GetFilter{Email: strings.ToLower(identifier)}
	}
	return GetFilter{StudentNumber: strings.ToUpper(identifier)}
}
