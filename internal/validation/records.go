// Package validation checks tracker records against their struct tags and
// reports problems keyed by JSON field name with English messages.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"trackcore/pkg/domain"
)

const (
	isoDateTag  = "isodate"
	isoDateText = "{0} must be a YYYY-MM-DD date"
)

// Problem is a single field failure.
type Problem struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Problems is returned by Struct when at least one field fails.
type Problems []Problem

func (p Problems) Error() string {
	msgs := make([]string, 0, len(p))
	for _, item := range p {
		msgs = append(msgs, item.Message)
	}
	return strings.Join(msgs, "; ")
}

// Validator wraps a configured validator and its English translator.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New builds a validator that names fields by their json tag and knows the
// isodate rule.
func New() *Validator {
	v := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	out := &Validator{validate: v, translator: trans}
	_ = v.RegisterValidation(isoDateTag, func(fl validator.FieldLevel) bool {
		return domain.Date(fl.Field().String()).Valid()
	})
	out.RegisterTranslation(isoDateTag, isoDateText)
	return out
}

// RegisterTranslation sets the message used for tag. {0} is the field name.
func (v *Validator) RegisterTranslation(tag, text string) {
	_ = v.validate.RegisterTranslation(
		tag, v.translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates s. It returns nil, a Problems value, or the underlying
// error when s is not a struct.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	problems := make(Problems, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, Problem{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fe.Translate(v.translator),
		})
	}
	return problems
}

var (
	defaultOnce sync.Once
	defaultV    *Validator
)

// Default returns the shared validator.
func Default() *Validator {
	defaultOnce.Do(func() { defaultV = New() })
	return defaultV
}

// Struct validates s with the shared validator.
func Struct(s any) error { return Default().Struct(s) }

// AsProblems extracts Problems from err.
func AsProblems(err error) (Problems, bool) {
	var p Problems
	if errors.As(err, &p) {
		return p, true
	}
	return nil, false
}
