package formz

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator checks a field value. It receives the candidate value and the
// form's current value tree and returns a diagnostic, or "" when the value is
// acceptable. Validators run synchronously and must not panic for control
// flow; a panic is a defect and propagates to the caller.
type Validator func(value any, values map[string]any) string

// validate is the shared validator instance.
var validate = validator.New()

// Rule builds a Validator from a go-playground/validator tag such as
// "required,email" or "min=8". The first failing tag becomes the diagnostic:
// "required" for the required tag and "must satisfy <tag>" otherwise.
func Rule(tag string) Validator {
	return func(value any, _ map[string]any) string {
		err := validate.Var(value, tag)
		if err == nil {
			return ""
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return describe(verrs[0])
		}
		return err.Error()
	}
}

// RuleMessage is Rule with a fixed diagnostic.
func RuleMessage(tag, message string) Validator {
	rule := Rule(tag)
	return func(value any, values map[string]any) string {
		if rule(value, values) == "" {
			return ""
		}
		return message
	}
}

func describe(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return "required"
	}
	if fe.Param() != "" {
		return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("must satisfy %s", fe.Tag())
}

// Chain runs validators in order and returns the first diagnostic.
func Chain(validators ...Validator) Validator {
	return func(value any, values map[string]any) string {
		for _, v := range validators {
			if v == nil {
				continue
			}
			if msg := v(value, values); msg != "" {
				return msg
			}
		}
		return ""
	}
}
