package core

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
)

const DefaultLocale = "en"

// NewTranslator returns the translator for locale, falling back to english.
func NewTranslator(locale string) ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en, de.New())
	if translator, found := uni.GetTranslator(CleanString(locale, true /* lower */)); found {
		return translator
	}
	translator, _ := uni.GetTranslator(DefaultLocale)
	return translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	if translator.Locale() == DefaultLocale {
		_ = en_translations.RegisterDefaultTranslations(validate, translator)
	}

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
// The text receives the field label as {0} and the tag param as {1}.
func RegisterCustomTranslation(
	validate *validator.Validate,
	translator ut.Translator,
	tag, text string,
	label func(validator.FieldError) string,
	override ...bool,
) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, label(fe), fe.Param())
			return s
		},
	)
}

// FirstFieldError converts the first failed field of a validation run into a ValidationError.
// Fields are reported in struct declaration order, so the first one is the first rule that failed.
func FirstFieldError(err error, translator ut.Translator) error {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(vErrs) == 0 {
		return err
	}
	fe := vErrs[0]
	msg := fe.Translate(translator)
	return NewValidationError(errors.New(msg), FieldError{Field: fe.Field(), Error: msg})
}
