package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate checks raw against s. On success it returns the normalized document
// with defaults applied and unknown fields dropped; otherwise a
// ValidationErrors listing every violated field.
func (v *Validator) Validate(s *Schema, raw map[string]any) (Document, error) {
	doc := make(Document, len(s.Fields))
	var violations ValidationErrors

	for _, field := range s.Fields {
		value, present := raw[field.Name]
		if !present || value == nil {
			if field.Required {
				violations = append(violations, FieldError{
					Field:   field.Name,
					Reason:  ReasonMissing,
					Message: fmt.Sprintf("%s is required", field.Name),
				})
			} else if field.Default != nil {
				doc[field.Name] = field.Default
			}
			continue
		}

		normalized, ok := coerce(field.Kind, value)
		if !ok {
			violations = append(violations, FieldError{
				Field:   field.Name,
				Reason:  ReasonWrongType,
				Message: fmt.Sprintf("%s must be a %s", field.Name, field.Kind),
			})
			continue
		}

		if field.Rules != "" {
			if err := v.validate.Var(normalized, field.Rules); err != nil {
				violations = append(violations, translate(field, err)...)
				continue
			}
		}

		doc[field.Name] = normalized
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return doc, nil
}

func translate(field Field, err error) ValidationErrors {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return ValidationErrors{{
			Field:   field.Name,
			Reason:  ReasonInvalid,
			Message: err.Error(),
		}}
	}

	var out ValidationErrors
	for _, fe := range validationErrs {
		reason := ReasonInvalid
		message := fmt.Sprintf("%s failed the '%s' rule", field.Name, fe.Tag())

		switch fe.Tag() {
		case "email":
			reason = ReasonBadFormat
			message = fmt.Sprintf("%s must be a valid email address", field.Name)
		case "http_url", "url":
			reason = ReasonBadFormat
			message = fmt.Sprintf("%s must be a valid http(s) URL", field.Name)
		case "min":
			reason = ReasonOutOfRange
			message = strings.TrimSpace(fmt.Sprintf("%s must be at least %s %s", field.Name, fe.Param(), unitFor(field.Kind)))
		case "max":
			reason = ReasonOutOfRange
			message = strings.TrimSpace(fmt.Sprintf("%s must be at most %s %s", field.Name, fe.Param(), unitFor(field.Kind)))
		case "gte":
			reason = ReasonOutOfRange
			message = fmt.Sprintf("%s must be greater than or equal to %s", field.Name, fe.Param())
		case "lte":
			reason = ReasonOutOfRange
			message = fmt.Sprintf("%s must be less than or equal to %s", field.Name, fe.Param())
		}

		out = append(out, FieldError{
			Field:   field.Name,
			Reason:  reason,
			Message: message,
		})
	}
	return out
}

func unitFor(kind Kind) string {
	switch kind {
	case KindString:
		return "characters"
	case KindStringList:
		return "items"
	default:
		return ""
	}
}
