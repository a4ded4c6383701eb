package core

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	requiredTag  = "required"
	requiredText = "{0} is required"
)

// NewTranslator returns the English translator used for validation messages.
func NewTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use form tag names (with spaces) for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return strings.ReplaceAll(name, "_", " ")
	})

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
// `text` may reference the field name with {0}.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// TranslateErrors turns validator errors into a ValidationError, keeping the validator's field order.
// texts overrides the translation of a "field.tag" pair, e.g. {"score.required": "please input a score"}.
func TranslateErrors(vErrs validator.ValidationErrors, translator ut.Translator, texts map[string]string) error {
	flds := make([]FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		msg, ok := texts[vErr.Field()+"."+vErr.Tag()]
		if !ok {
			msg = vErr.Translate(translator)
		}
		flds = append(flds, FieldError{Field: vErr.Field(), Error: msg})
	}
	return NewValidationError(nil, flds...)
}

// ValidateStruct validates `s` and converts validation failures with TranslateErrors.
func ValidateStruct(validate *validator.Validate, translator ut.Translator, s interface{}, texts map[string]string) error {
	err := validate.Struct(s)
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		return TranslateErrors(vErrs, translator, texts)
	}
	return err
}
