package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"accountapp/internal/core/domain"
	"accountapp/internal/core/port"
)

type rule struct {
	tag     string
	check   func(string) bool
	message string
}

// rules maps the account validators onto struct tags. Messages are what
// callers see on a 400.
var rules = []rule{
	{"account_name", domain.ValidName, "Name must be at least 2 characters long"},
	{"account_email", domain.ValidEmail, "Please provide a valid email address"},
	{"account_mobile", domain.ValidMobile, "Please provide a valid 10-digit mobile number"},
	{"account_password", domain.ValidPassword, "Password must be at least 6 characters long"},
}

type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New returns a validator with the account rules and english messages.
func New() (port.Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]

		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	english := en.New()
	uni := ut.New(english, english)

	translator, found := uni.GetTranslator("en")

	if !found {
		return nil, errors.New("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, err
	}

	for _, r := range rules {
		if err := register(validate, translator, r); err != nil {
			return nil, err
		}
	}

	return &Validator{
		validate:   validate,
		translator: translator,
	}, nil
}

func MustNew() port.Validator {
	v, err := New()

	if err != nil {
		panic(err)
	}

	return v
}

func register(validate *validator.Validate, translator ut.Translator, r rule) error {
	check := r.check

	err := validate.RegisterValidation(r.tag, func(fl validator.FieldLevel) bool {
		return check(fl.Field().String())
	})

	if err != nil {
		return err
	}

	message := r.message

	return validate.RegisterTranslation(r.tag, translator, func(ut ut.Translator) error {
		return ut.Add(r.tag, message, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(fe.Tag())
		return t
	})
}

func (v *Validator) ValidateStruct(s any) error {
	return v.validate.Struct(s)
}

// FirstMessage returns the first failing field in declaration order, so
// struct field order decides which rule is reported.
func (v *Validator) FirstMessage(err error) (string, string) {
	var validationErrors validator.ValidationErrors

	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "", ""
	}

	first := validationErrors[0]

	return first.Field(), first.Translate(v.translator)
}
