// Package validator wraps go-playground/validator with the domain's custom
// rules so request validation reads the same across all services.
package validator

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mddrc-dev/training-service/internal/models"
)

// Validator validates request structs.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with all custom rules registered.
func New() *Validator {
	validate := validator.New()

	// Report json tag names in errors instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v := &Validator{validate: validate}
	v.registerDomainRules()

	return v
}

// Validate validates a struct and returns ValidationErrors, or nil.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	return ToValidationErrors(err)
}

func (v *Validator) registerDomainRules() {
	v.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})

	v.validate.RegisterValidation("access_gate", func(fl validator.FieldLevel) bool {
		return models.AccessGate(fl.Field().String()).Valid()
	})

	v.validate.RegisterValidation("test_type", func(fl validator.FieldLevel) bool {
		t := models.TestType(fl.Field().String())
		return t == models.TestPre || t == models.TestPost
	})

	v.validate.RegisterValidation("session_status", func(fl validator.FieldLevel) bool {
		s := models.SessionStatus(fl.Field().String())
		return s == models.SessionActive || s == models.SessionInactive
	})

	// Calendar dates travel as YYYY-MM-DD strings.
	v.validate.RegisterValidation("date_string", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
}

// ValidationError describes a single failed field.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// ValidationErrors aggregates all failed fields of one request.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Message
	}
	return strings.Join(msgs, "; ")
}

// ToValidationErrors converts go-playground errors into the domain shape.
func ToValidationErrors(err error) ValidationErrors {
	var out ValidationErrors

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "", Tag: "", Message: err.Error()}}
	}

	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: messageFor(fe),
		})
	}

	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "user_role":
		return fmt.Sprintf("%s is not a recognized role", fe.Field())
	case "access_gate":
		return fmt.Sprintf("%s is not a recognized gate", fe.Field())
	case "test_type":
		return fmt.Sprintf("%s must be pre or post", fe.Field())
	case "session_status":
		return fmt.Sprintf("%s must be active or inactive", fe.Field())
	case "date_string":
		return fmt.Sprintf("%s must be a YYYY-MM-DD date", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
