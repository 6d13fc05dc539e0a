package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/MKhiriev/go-institute-sync/models"
)

// custom validation tags
const (
	notBlankTag = "notblank"
	phoneTag    = "phone"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// LeadValidator validates [models.Lead] values using their struct tags.
type LeadValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewLeadValidator builds a validator with English messages and JSON field
// names.
func NewLeadValidator() (*LeadValidator, error) {
	validate := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, fmt.Errorf("register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.RegisterValidation(notBlankTag, notBlankValidation); err != nil {
		return nil, fmt.Errorf("register %s: %w", notBlankTag, err)
	}
	if err := validate.RegisterValidation(phoneTag, phoneValidation); err != nil {
		return nil, fmt.Errorf("register %s: %w", phoneTag, err)
	}

	custom := map[string]string{
		notBlankTag: "{0} cannot be blank",
		phoneTag:    "{0} must be a valid phone number",
	}
	for tag, text := range custom {
		err := validate.RegisterTranslation(tag, translator,
			func(trans ut.Translator) error {
				return trans.Add(tag, text, true)
			},
			func(trans ut.Translator, fe validator.FieldError) string {
				msg, _ := trans.T(fe.Tag(), fe.Field())
				return msg
			},
		)
		if err != nil {
			return nil, fmt.Errorf("register %s translation: %w", tag, err)
		}
	}

	return &LeadValidator{validate: validate, translator: translator}, nil
}

// Validate checks a models.Lead or *models.Lead. When fields are given only
// problems with those JSON fields are reported.
func (v *LeadValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	var lead models.Lead
	switch value := obj.(type) {
	case models.Lead:
		lead = value
	case *models.Lead:
		if value == nil {
			return ErrUnsupportedType
		}
		lead = *value
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}

	err := v.validate.StructCtx(ctx, lead)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return fmt.Errorf("validate lead: %w", err)
	}

	out := make(map[string]string, len(vErrs))
	for _, fe := range vErrs {
		if len(fields) > 0 && !slices.Contains(fields, fe.Field()) {
			continue
		}
		out[fe.Field()] = fe.Translate(v.translator)
	}
	if len(out) == 0 {
		return nil
	}
	return &ValidationError{Fields: out}
}

// NormalizePhone strips spaces, dashes, dots and brackets from a phone number.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func phoneValidation(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}
