package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field bounds for a user record. The users table enforces the same limits
// with CHECK constraints.
const (
	MinNameLength  = 2
	MaxNameLength  = 100
	MaxEmailLength = 255
	MinAge         = 0
	MaxAge         = 100
)

var validate = validator.New()

// UserInput is the candidate record decoded from a create or update payload.
type UserInput struct {
	Name  Field[string]  `json:"name"`
	Email Field[string]  `json:"email"`
	Age   Field[float64] `json:"age"`
}

// IsEmpty reports whether none of the known fields were supplied.
func (in UserInput) IsEmpty() bool {
	return !in.Name.Present && !in.Email.Present && !in.Age.Present
}

// Sanitize normalizes the input before validation: the name is trimmed, the
// email is trimmed and lower-cased, and the age is truncated toward zero.
// Fields that were not supplied or had the wrong type are left untouched.
func Sanitize(in UserInput) UserInput {
	out := in
	if in.Name.HasValue() {
		out.Name.Value = strings.TrimSpace(in.Name.Value)
	}
	if in.Email.HasValue() {
		out.Email.Value = strings.ToLower(strings.TrimSpace(in.Email.Value))
	}
	if in.Age.HasValue() {
		out.Age.Value = math.Trunc(in.Age.Value)
	}
	return out
}

// ValidateUserInput checks a sanitized input and returns every violation in
// field order (name, email, age). An empty slice means the input is valid.
//
// In partial mode (updates) a field that was not supplied is skipped entirely.
// Otherwise name and email are required and age is optional.
func ValidateUserInput(in UserInput, partial bool) []string {
	errs := make([]string, 0, 3)

	if !partial || in.Name.Present {
		if msg := validateName(in.Name); msg != "" {
			errs = append(errs, msg)
		}
	}

	if !partial || in.Email.Present {
		if msg := validateEmail(in.Email); msg != "" {
			errs = append(errs, msg)
		}
	}

	// Age is optional in both modes; null means unknown.
	if in.Age.Present && !in.Age.Null {
		if msg := validateAge(in.Age); msg != "" {
			errs = append(errs, msg)
		}
	}

	return errs
}

func validateName(f Field[string]) string {
	switch {
	case f.WrongType:
		return "Name must be a string"
	case !f.Present || f.Null || f.Value == "":
		return "Name is required"
	case validate.Var(f.Value, fmt.Sprintf("min=%d,max=%d", MinNameLength, MaxNameLength)) != nil:
		return fmt.Sprintf("Name must be between %d and %d characters", MinNameLength, MaxNameLength)
	}
	return ""
}

func validateEmail(f Field[string]) string {
	switch {
	case f.WrongType:
		return "Email must be a string"
	case !f.Present || f.Null || f.Value == "":
		return "Email is required"
	case validate.Var(f.Value, fmt.Sprintf("max=%d", MaxEmailLength)) != nil:
		return fmt.Sprintf("Email must not exceed %d characters", MaxEmailLength)
	case validate.Var(f.Value, "email") != nil:
		return "Email must be a valid email address"
	}
	return ""
}

func validateAge(f Field[float64]) string {
	if f.WrongType {
		return "Age must be a number"
	}
	if f.Value < MinAge || f.Value > MaxAge {
		return fmt.Sprintf("Age must be between %d and %d", MinAge, MaxAge)
	}
	return ""
}

// NewUserParams converts a sanitized, validated input into insert parameters.
func (in UserInput) NewUserParams() NewUserParams {
	return NewUserParams{
		Name:  in.Name.Value,
		Email: in.Email.Value,
		Age:   ageOf(in.Age),
	}
}

// Patch converts a sanitized, validated partial input into a UserPatch.
// A null age clears the stored age.
func (in UserInput) Patch() UserPatch {
	var p UserPatch
	if in.Name.HasValue() {
		name := in.Name.Value
		p.Name = &name
	}
	if in.Email.HasValue() {
		email := in.Email.Value
		p.Email = &email
	}
	if in.Age.Present {
		p.SetAge = true
		p.Age = ageOf(in.Age)
	}
	return p
}

func ageOf(f Field[float64]) *int {
	if !f.HasValue() {
		return nil
	}
	age := int(f.Value)
	return &age
}
