// Package contentrules binds the content policies to validation tags so request
// structs can declare them, e.g. `validate:"required,strongpassword"`.
package contentrules

import (
	"reflect"

	"blog_backend/internal/password"
	"blog_backend/internal/plaintext"
	"blog_backend/internal/richtext"
	"blog_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

// Validation tags registered by Register.
const (
	TagStrongPassword    = "strongpassword"
	TagNotCommonPassword = "notcommonpassword"
	TagPlainText         = "plaintext"
	TagRichText          = "richtext"
)

// Rules holds the policy instances behind the registered tags.
type Rules struct {
	Passwords *password.Policy
	Guard     *plaintext.Guard
	Content   *richtext.Checker
}

// NewRules builds the default rules, extending the common-password denylist with extraCommon.
func NewRules(extraCommon ...string) Rules {
	return Rules{
		Passwords: password.NewPolicy(extraCommon...),
		Guard:     plaintext.New(),
		Content:   richtext.NewChecker(),
	}
}

// Register installs every content rule on val.
func Register(val *validator.Validator, rules Rules) error {
	entries := []struct {
		tag     string
		message string
		fn      playground.Func
	}{
		{TagStrongPassword, password.PolicyMessage, func(fl playground.FieldLevel) bool {
			s, ok := stringValue(fl)
			return ok && password.MeetsComplexity(s)
		}},
		{TagNotCommonPassword, password.CommonMessage, func(fl playground.FieldLevel) bool {
			s, ok := stringValue(fl)
			return !ok || !rules.Passwords.IsCommon(s)
		}},
		{TagPlainText, plaintext.Message, func(fl playground.FieldLevel) bool {
			s, ok := stringValue(fl)
			return !ok || rules.Guard.IsPlainText(s)
		}},
		{TagRichText, richtext.Message, func(fl playground.FieldLevel) bool {
			s, ok := stringValue(fl)
			return !ok || rules.Content.IsSafe(s)
		}},
	}

	for _, e := range entries {
		if err := val.RegisterRule(e.tag, e.message, e.fn); err != nil {
			return err
		}
	}
	return nil
}

// stringValue returns the field as a string; ok is false for nil pointers
// and non-string kinds.
func stringValue(fl playground.FieldLevel) (string, bool) {
	field := fl.Field()
	for field.Kind() == reflect.Ptr || field.Kind() == reflect.Interface {
		if field.IsNil() {
			return "", false
		}
		field = field.Elem()
	}
	if field.Kind() != reflect.String {
		return "", false
	}
	return field.String(), true
}
