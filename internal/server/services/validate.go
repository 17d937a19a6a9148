package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/gophreg/internal/common"
	"github.com/go-playground/validator/v10"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

type nameInput struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

type emailInput struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type phoneInput struct {
	Phone string `json:"phone" validate:"required,max=32,printascii"`
}

type passwordInput struct {
	Password string `json:"password" validate:"required"`
}

// ValidationError reports the first rejected input field. It matches
// common.ErrorValidation with errors.Is.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s failed %q", e.Field, e.Rule)
}

func (e *ValidationError) Unwrap() error {
	return common.ErrorValidation
}

var fieldLabels = map[string]string{
	"firstName": "First name",
	"lastName":  "Last name",
	"email":     "Email",
	"phone":     "Phone number",
	"password":  "Password",
}

// Message is the client-facing text for the error.
func (e *ValidationError) Message() string {
	label, ok := fieldLabels[e.Field]
	if !ok {
		label = e.Field
	}

	switch e.Rule {
	case "required":
		return label + " is required"
	case "max":
		return label + " is too long"
	default:
		return "Invalid " + strings.ToLower(label)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field(), Rule: verrs[0].Tag()}
	}

	return fmt.Errorf("validate: %w", err)
}

func validatePassword(password string) error {
	if err := validateInput(passwordInput{Password: password}); err != nil {
		return err
	}
	if len(password) > maxPasswordBytes {
		return &ValidationError{Field: "password", Rule: "max"}
	}
	return nil
}
