package httperr

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report field names as their JSON names so the "param" in the error
	// envelope matches what the client actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct runs struct tag validation and converts failures into the
// Validation error shape. A nil return means the value passed.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Internal(err)
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Msg: messageFor(fe), Param: fe.Field()})
	}
	return Validation(fields...)
}

func messageFor(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return "Please include a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("Invalid %s", strings.ToLower(label))
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", label)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// fieldLabel turns a JSON field name into a human label:
// "bloodGroup" -> "Blood group", "patientId" -> "Patient ID".
func fieldLabel(name string) string {
	if name == "" {
		return "Field"
	}

	var words []string
	start := 0
	for i := 1; i < len(name); i++ {
		if name[i] >= 'A' && name[i] <= 'Z' {
			words = append(words, name[start:i])
			start = i
		}
	}
	words = append(words, name[start:])

	for i, w := range words {
		lower := strings.ToLower(w)
		if lower == "id" {
			words[i] = "ID"
		} else if i == 0 {
			words[i] = strings.ToUpper(w[:1]) + lower[1:]
		} else {
			words[i] = lower
		}
	}
	return strings.Join(words, " ")
}
