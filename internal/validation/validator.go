package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule, keyed by the JSON name of the field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var httpURLPattern = regexp.MustCompile(`^https?://.+`)

var (
	once     sync.Once
	instance *validator.Validate
)

func validate() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report JSON names so messages line up with the request body
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			return httpURLPattern.MatchString(fl.Field().String())
		})

		instance = v
	})
	return instance
}

// Struct checks every `validate` tag on s and returns all failures, in field order.
// A nil result means s is valid.
func Struct(s any) []FieldError {
	err := validate().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return fields
}

// Var checks a single value against a tag expression, reporting failures under field.
func Var(field string, value any, tag string) *FieldError {
	err := validate().Var(value, tag)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &FieldError{Field: field, Message: messageFor(field, verrs[0].Tag(), verrs[0].Param(), verrs[0].Kind() == reflect.String)}
	}
	return &FieldError{Field: field, Message: err.Error()}
}

func message(fe validator.FieldError) string {
	return messageFor(fe.Field(), fe.Tag(), fe.Param(), fe.Kind() == reflect.String)
}

func messageFor(field, tag, param string, isString bool) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "httpurl":
		return fmt.Sprintf("%s must be a valid HTTP/HTTPS URL", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}
