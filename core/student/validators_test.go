package student

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/gradebook/core"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{email: "", want: false},
		{email: "student", want: false},
		{email: "student@", want: false},
		{email: "@test.cd", want: false},
		{email: "student@test.cd", want: true},
		{email: "first.last+tag@uni.ac.cd", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func Test_checkPassword(t *testing.T) {
	tests := []struct {
		name  string
		pwd   string
		attrs []string
		want  string
	}{
		{name: "too short", pwd: "Ab1$", want: pwdMinLenTag},
		{name: "whitespace", pwd: "Abcd 1234$", want: pwdNoSpaceTag},
		{name: "all numeric", pwd: "1234567890", want: pwdNotAllNumTag},
		{name: "no upper", pwd: "abcd1234$", want: pwdComplexityTag},
		{name: "no special", pwd: "Abcd12345", want: pwdComplexityTag},
		{name: "similar to student number", pwd: "S20240001$a", attrs: []string{"S20240001"}, want: pwdAttrSimTag},
		{name: "common", pwd: "P@ssw0rd", want: pwdNoCommonTag},
		{name: "valid", pwd: "Sup3r$ecretPwd", attrs: []string{"S0001", "s1@test.cd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkPassword(tt.pwd, tt.attrs...))
		})
	}
}

func TestIsValidPassword(t *testing.T) {
	assert.False(t, IsValidPassword(""))
	assert.False(t, IsValidPassword("password"))
	assert.True(t, IsValidPassword("Sup3r$ecretPwd"))
}

func TestNewStudent_Validate(t *testing.T) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)

	tests := []struct {
		name       string
		ns         NewStudent
		wantMsgs   []string
		wantNumber string
		wantEmail  string
	}{
		{
			name:     "missing fields",
			ns:       NewStudent{},
			wantMsgs: []string{"student number is required", "email is required", "password is required"},
		},
		{
			name:     "invalid email",
			ns:       NewStudent{StudentNumber: "s1", Email: "nope", Password: "Sup3r$ecretPwd"},
			wantMsgs: []string{"invalid email format"},
		},
		{
			name:     "passwords do not match",
			ns:       NewStudent{StudentNumber: "s1", Email: "s1@test.cd", Password: "Sup3r$ecretPwd", PasswordConfirm: "other"},
			wantMsgs: []string{"passwords do not match"},
		},
		{
			name:     "weak password",
			ns:       NewStudent{StudentNumber: "s1", Email: "s1@test.cd", Password: "password"},
			wantMsgs: []string{pwdComplexityText},
		},
		{
			name:       "valid",
			ns:         NewStudent{StudentNumber: " s1 ", Email: " S1@Test.CD ", Password: "Sup3r$ecretPwd", PasswordConfirm: "Sup3r$ecretPwd"},
			wantNumber: "S1",
			wantEmail:  "s1@test.cd",
		},
		{
			name:       "dotted student number",
			ns:         NewStudent{StudentNumber: "stu.124", Email: "s1@test.cd", Password: "Sup3r$ecretPwd"},
			wantNumber: "STU.124",
			wantEmail:  "s1@test.cd",
		},
		{
			name:       "spaced student number",
			ns:         NewStudent{StudentNumber: "stu 125", Email: "s1@test.cd", Password: "Sup3r$ecretPwd"},
			wantNumber: "STU 125",
			wantEmail:  "s1@test.cd",
		},
		{
			name:       "password resembling email",
			ns:         NewStudent{StudentNumber: "STU123", Email: "jane.doe@uni.edu", Password: "Jane.doe@uni1"},
			wantNumber: "STU123",
			wantEmail:  "jane.doe@uni.edu",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ns.Validate(validate, translator)
			if tt.wantMsgs == nil {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantNumber, tt.ns.StudentNumber)
				assert.Equal(t, tt.wantEmail, tt.ns.Email)
				return
			}
			var vErr *core.ValidationError
			if assert.ErrorAs(t, err, &vErr) {
				assert.Equal(t, tt.wantMsgs, vErr.Messages())
			}
		})
	}
}

func Test_lookupFilter(t *testing.T) {
	tests := []struct {
		identifier string
		want       GetFilter
	}{
		{identifier: "s0001", want: GetFilter{StudentNumber: "S0001"}},
		{identifier: "  S0001 ", want: GetFilter{StudentNumber: "S0001"}},
		{identifier: "S1@Test.CD", want: GetFilter{Email: "s1@test.cd"}},
	}
	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			assert.Equal(t, tt.want, lookupFilter(tt.identifier))
		})
	}
}
