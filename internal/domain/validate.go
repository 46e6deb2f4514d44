package domain

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// ValidationError lists the required fields that were empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "required: " + strings.Join(e.Fields, ", ")
}

// Validate checks that every field tagged `validate:"required"` is non-empty
// after trimming whitespace. Form validation beyond non-emptiness is left to
// the server.
func Validate(v any) error {
	err := validatorInstance().Struct(trimmed(v))
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, fe.Field())
	}
	return out
}

// trimmed returns a copy of the known request types with string fields
// trimmed, so whitespace-only input counts as empty.
func trimmed(v any) any {
	switch r := v.(type) {
	case LoginRequest:
		r.Email = strings.TrimSpace(r.Email)
		return r
	case RegisterRequest:
		r.Username = strings.TrimSpace(r.Username)
		r.Email = strings.TrimSpace(r.Email)
		r.FullName = strings.TrimSpace(r.FullName)
		return r
	case ProfileUpdate:
		r.FullName = strings.TrimSpace(r.FullName)
		return r
	case NewPost:
		r.Content = strings.TrimSpace(r.Content)
		return r
	case CodeRequest:
		r.Code = strings.TrimSpace(r.Code)
		return r
	case CareerRequest:
		skills := make([]string, 0, len(r.Skills))
		for _, s := range r.Skills {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
		r.Skills = skills
		return r
	default:
		return v
	}
}
