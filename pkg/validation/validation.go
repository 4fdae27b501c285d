// Package validation validates request payloads.
package validation

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// identityRegex matches a 0x-prefixed 20-byte hex address
var identityRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

var (
	defaultValidator = validator.New()
	defaultEn        = en.New()
	uni              = ut.New(defaultEn, defaultEn)

	trans, _ = uni.GetTranslator(defaultEn.Locale())
)

// Violation is a single failed rule
type Violation struct {
	Tag         string
	Field       string
	Err         error
	Description string
}

// Error returns the translated description
func (v Violation) Error() string {
	return v.Description
}

// StructError is returned when a struct fails validation
type StructError struct {
	Violations []Violation
}

// Error joins the violation descriptions
func (s StructError) Error() string {
	msgs := make([]string, len(s.Violations))
	for i, v := range s.Violations {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

// Details lists the violation descriptions carried by err
func Details(err error) []string {
	var se *StructError
	if errors.As(err, &se) {
		details := make([]string, len(se.Violations))
		for i, v := range se.Violations {
			details[i] = v.Description
		}
		return details
	}
	return []string{err.Error()}
}

// IsIdentity reports whether s is a well-formed caller identity
func IsIdentity(s string) bool {
	return identityRegex.MatchString(s)
}

// ValidateStruct validates s using its validate tags
func ValidateStruct(s any) error {
	err := defaultValidator.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	structError := &StructError{}
	for _, e := range verrs {
		structError.Violations = append(structError.Violations, Violation{
			Tag:         e.Tag(),
			Field:       e.Field(),
			Err:         e,
			Description: e.Translate(trans),
		})
	}
	return structError
}

// ValidateValue validates a single value against tag
func ValidateValue(v any, tag string) error {
	err := defaultValidator.Var(v, tag)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, e := range verrs {
		return Violation{
			Tag:         e.Tag(),
			Err:         e,
			Description: e.Translate(trans),
		}
	}
	return nil
}

func registerRule(tag, msg string, fn validator.Func) error {
	if err := defaultValidator.RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("register validation %s: %w", tag, err)
	}
	if err := defaultValidator.RegisterTranslation(
		tag,
		trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		},
	); err != nil {
		return fmt.Errorf("register translation %s: %w", tag, err)
	}
	return nil
}

func init() {
	// Report JSON field names
	defaultValidator.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	if err := entranslations.RegisterDefaultTranslations(defaultValidator, trans); err != nil {
		fmt.Fprintf(os.Stderr, "validation register default translations: %v\n", err)
		os.Exit(1)
	}

	if err := registerRule("identity", "{0} must be a 0x-prefixed 20-byte hex address", func(fl validator.FieldLevel) bool {
		return IsIdentity(fl.Field().String())
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
