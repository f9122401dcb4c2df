// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v        *validator.Validate
	messages map[string]string
}

// New creates a new Validator instance.
// Domain-specific validation rules can be registered using RegisterRule.
func New() *Validator {
	v := validator.New()
	// Report JSON field names so per-field error maps match the request payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Validator{
		v:        v,
		messages: make(map[string]string),
	}
}

// RegisterRule registers a custom validation function together with the
// human-readable message reported when the rule fails. The function is also
// called for nil pointers, so it decides itself whether an absent value passes.
func (val *Validator) RegisterRule(tag, message string, fn validator.Func) error {
	if err := val.v.RegisterValidation(tag, fn, true); err != nil {
		return err
	}
	val.messages[tag] = message
	return nil
}

// Check validates a struct and folds the result into an Outcome.
// Errors that are not field violations (e.g. a nil or non-struct argument) are returned as-is.
func (val *Validator) Check(s interface{}) (Outcome, error) {
	err := val.v.Struct(s)
	if err == nil {
		return Valid(), nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Outcome{}, err
	}

	out := Valid()
	for _, fe := range fieldErrs {
		out = out.Add(fieldPath(fe), val.message(fe))
	}
	return out, nil
}

func (val *Validator) message(fe validator.FieldError) string {
	if msg, ok := val.messages[fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// fieldPath strips the top-level struct name from the namespace,
// e.g. "RegisterRequest.password" becomes "password".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}
