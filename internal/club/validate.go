package club

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/bookclub/internal/apperror"
	"github.com/dukerupert/bookclub/internal/model"
)

const (
	monthLayout = "2006-01"
	dateLayout  = "2006-01-02"
)

// IsMonth reports whether s is a YYYY-MM month.
func IsMonth(s string) bool {
	t, err := time.Parse(monthLayout, s)
	return err == nil && t.Format(monthLayout) == s
}

// IsDate reports whether s is a real calendar date in YYYY-MM-DD form.
func IsDate(s string) bool {
	t, err := time.Parse(dateLayout, s)
	return err == nil && t.Format(dateLayout) == s
}

// IsScheduleDate accepts the precisions a meeting can be scheduled at.
func IsScheduleDate(s string) bool {
	return IsMonth(s) || IsDate(s)
}

// IsReadOn additionally accepts the unscheduled marker.
func IsReadOn(s string) bool {
	return s == model.DateTBD || IsScheduleDate(s)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		return IsMonth(fl.Field().String())
	})
	v.RegisterValidation("readon", func(fl validator.FieldLevel) bool {
		return IsReadOn(fl.Field().String())
	})
	return v
}

// check runs struct validation and turns failures into a ValidationError.
func (s *Service) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation("%s", err.Error())
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldMessage(fe))
	}
	return apperror.Validation("%s", strings.Join(messages, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "yearmonth":
		return "Invalid month format. Use YYYY-MM"
	case "readon":
		return "Invalid date format. Use YYYY-MM, YYYY-MM-DD or TBD"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
