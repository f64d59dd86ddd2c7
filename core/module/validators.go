package module

import (
	"math"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/KLubina/Modul-335/core"
)

var (
	minTag = "min"

	gradeNumberTag = "grade_number"
	gradeRangeTag  = "grade_range"

	// texts per locale: {0} is the field label, {1} the tag param
	texts = map[string]map[string]string{
		"en": {
			minTag:         "{0} too short.",
			gradeNumberTag: "{0} must be a valid number.",
			gradeRangeTag:  "{0} must be between 1.0 and 6.0.",
		},
		"de": {
			minTag:         "{0} muss mindestens {1} Zeichen lang sein",
			gradeNumberTag: "{0} muss eine gültige Zahl sein",
			gradeRangeTag:  "{0} muss zwischen 1.0 und 6.0 liegen",
		},
	}

	labels = map[string]map[string]string{
		"en": {
			"module_number": "module number",
			"module_title":  "module title",
			"zp_note":       "ZP grade",
			"lb_note":       "LB grade",
		},
		"de": {
			"module_number": "Modulnummer",
			"module_title":  "Modultitel",
			"zp_note":       "ZP-Note",
			"lb_note":       "LB-Note",
		},
	}

	defaultValidator = sync.OnceValue(func() *Validator { return NewValidator(core.DefaultLocale) })
)

// Validator checks module forms and renders its messages in one locale.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator(locale string) *Validator {
	v := &Validator{
		validate:   validator.New(),
		translator: core.NewTranslator(locale),
	}
	InitValidators(v.validate, v.translator)
	return v
}

// InitValidators registers the module validations and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.InitValidators(validate, translator)

	_ = validate.RegisterValidation(gradeNumberTag, gradeNumberValidation)
	_ = validate.RegisterValidation(gradeRangeTag, gradeRangeValidation)

	locale := translator.Locale()
	localeTexts, ok := texts[locale]
	if !ok {
		locale = core.DefaultLocale
		localeTexts = texts[locale]
	}
	label := func(fe validator.FieldError) string {
		if l, ok := labels[locale][fe.Field()]; ok {
			return l
		}
		return fe.Field()
	}
	for tag, text := range localeTexts {
		core.RegisterCustomTranslation(validate, translator, tag, text, label, true /* override */)
	}
}

// Validate checks the raw form values. Rules apply in field order; only the first failure is
// returned, as a *core.ValidationError naming the offending field. nil means the form is valid.
func (v *Validator) Validate(number, title, zpNote, lbNote string) error {
	return v.ValidateForm(Form{Number: number, Title: title, ZPNote: zpNote, LBNote: lbNote})
}

func (v *Validator) ValidateForm(f Form) error {
	f.clean()
	if err := v.validate.Struct(f); err != nil {
		return core.FirstFieldError(err, v.translator)
	}
	return nil
}

// Validate checks the raw form values with the english Validator.
func Validate(number, title, zpNote, lbNote string) error {
	return defaultValidator().Validate(number, title, zpNote, lbNote)
}

// Custom Validators

// gradeNumberValidation checks that the field parses as a real number.
func gradeNumberValidation(fl validator.FieldLevel) bool {
	_, err := ParseGrade(fl.Field().String())
	return err == nil
}

// gradeRangeValidation checks that the field is within [MinGrade, MaxGrade].
func gradeRangeValidation(fl validator.FieldLevel) bool {
	g, err := ParseGrade(fl.Field().String())
	if err != nil || math.IsNaN(g) {
		return false
	}
	return g >= MinGrade && g <= MaxGrade
}
