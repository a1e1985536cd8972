// Package validation holds the custom input rules used by the services and the flight importer.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	TagPhone = "phone"
	TagPlace = "place"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10,12}$`)
	placePattern = regexp.MustCompile(`^\p{L}[\p{L} .'-]{1,63}$`)
)

// New returns a validator with the custom tags registered.
func New() *validator.Validate {
	v := validator.New()
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

// Register adds the custom tags to an existing validator.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation(TagPhone, isPhone); err != nil {
		return err
	}
	return v.RegisterValidation(TagPlace, isPlace)
}

// isPhone accepts 10 to 12 digits and nothing else.
func isPhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

// isPlace accepts airport codes and city names such as "DEL" or "New Delhi".
func isPlace(fl validator.FieldLevel) bool {
	return placePattern.MatchString(fl.Field().String())
}
