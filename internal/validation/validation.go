package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const minYear = 1000

var (
	validate *validator.Validate

	genreNamePattern = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ\s\-]+$`)
	usernamePattern  = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	_ = validate.RegisterValidation("notblank", validators.NotBlank)
	_ = validate.RegisterValidation("genre_name", func(fl validator.FieldLevel) bool {
		return genreNamePattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("web_url", func(fl validator.FieldLevel) bool {
		return IsWebURL(fl.Field().String())
	})
	_ = validate.RegisterValidation("publication_year", func(fl validator.FieldLevel) bool {
		y := int(fl.Field().Int())
		return y >= minYear && y <= time.Now().Year()+1
	})
	_ = validate.RegisterValidation("past_year", func(fl validator.FieldLevel) bool {
		y := int(fl.Field().Int())
		return y >= minYear && y <= time.Now().Year()
	})
}

// Errors maps a field name to the messages describing why it was rejected.
// An empty Errors means the input is acceptable.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Validate evaluates the `validate` tags of v. Struct-level rules are applied
// by implementing CrossFieldValidator.
func Validate(v any) Errors {
	errs := Errors{}

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs.Add("", err.Error())
			return errs
		}
		for _, fe := range verrs {
			errs.Add(fieldName(fe), buildMessage(fe))
		}
	}

	if cf, ok := v.(CrossFieldValidator); ok {
		cf.ValidateCrossField(errs)
	}

	return errs
}

// CrossFieldValidator is implemented by inputs whose rules span more than one
// field.
type CrossFieldValidator interface {
	ValidateCrossField(errs Errors)
}

// IsWebURL reports whether s is an absolute http or https URL.
func IsWebURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// fieldName reports the struct field a rule belongs to; element rules of a
// slice (GenreIDs[2]) are folded into the slice field.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}

func buildMessage(fe validator.FieldError) string {
	field := fieldName(fe)
	param := fe.Param()

	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, param)
		}
		if isNumeric(fe) {
			return fmt.Sprintf("%s must be at least %s", field, param)
		}
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at most %s item(s)", field, param)
		}
		if isNumeric(fe) {
			return fmt.Sprintf("%s must be at most %s", field, param)
		}
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "gt":
		if fe.Field() != field {
			return fmt.Sprintf("%s must all be greater than %s", field, param)
		}
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "unique":
		return field + " must not contain duplicates"
	case "genre_name":
		return field + " may contain only letters, spaces and hyphens"
	case "username":
		return field + " may contain only letters, digits and underscores"
	case "web_url":
		return field + " must be an absolute http or https URL"
	case "publication_year":
		return fmt.Sprintf("%s must be between %d and %d", field, minYear, time.Now().Year()+1)
	case "past_year":
		return fmt.Sprintf("%s must be between %d and %d", field, minYear, time.Now().Year())
	default:
		return field + " is invalid (" + fe.Tag() + ")"
	}
}

func isNumeric(fe validator.FieldError) bool {
	switch fe.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
