package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// MinCarYear is the oldest model year accepted for a listing.
const MinCarYear = 1900

// New returns a validator that reports json field names and knows the
// "caryear" tag.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("caryear", validateCarYear)
	return v
}

// validateCarYear accepts MinCarYear through next year.
func validateCarYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	return year >= MinCarYear && year <= int64(time.Now().Year()+1)
}

// Messages flattens validator errors into field -> message.
func Messages(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"_": err.Error()}
	}
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return errorMessages
}
