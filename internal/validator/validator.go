package validator

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/adaptlearn/learning-service/internal/errors"
	"github.com/adaptlearn/learning-service/internal/examcoach"
)

// Use shared validation errors from errors package
type ValidationError = errors.ValidationError
type ValidationErrors = errors.ValidationErrors

// Validator wraps go-playground validator with the service's custom tags.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a validator that accepts exam ids known to catalog.
func New(catalog *examcoach.Catalog) *Validator {
	v := validator.New()
	registerCustomValidators(v, catalog)
	return &Validator{structValidator: v}
}

// Validate checks struct tags on s.
func (v *Validator) Validate(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Engine exposes the underlying validator, e.g. for gin's binding.
func (v *Validator) Engine() *validator.Validate {
	return v.structValidator
}

// ToValidationErrors converts validator.ValidationErrors to our custom type
func ToValidationErrors(err error) ValidationErrors {
	return errors.ToValidationErrors(err)
}

func registerCustomValidators(validate *validator.Validate, catalog *examcoach.Catalog) {
	validate.RegisterValidation("exam_id", func(fl validator.FieldLevel) bool {
		_, ok := catalog.Exam(fl.Field().String())
		return ok
	})
	validate.RegisterValidation("accuracy", validateAccuracy)
	validate.RegisterValidation("iso_date", validateISODate)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateAccuracy(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		a := fl.Field().Float()
		return a >= 0 && a <= 100
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		a := fl.Field().Int()
		return a >= 0 && a <= 100
	}
	return false
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}
