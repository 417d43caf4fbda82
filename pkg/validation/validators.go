package validation

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var visibilityTiers = map[string]struct{}{"Public": {}, "Recruiter": {}, "Private": {}}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("trimmed_min", TrimmedMin)
	_ = v.RegisterValidation("visibility", Visibility)
}

// New returns a validator with the custom rules registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// TrimmedMin is "min" applied after trimming surrounding whitespace.
func TrimmedMin(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
}

// Visibility accepts one of the three visibility tiers.
func Visibility(fl validator.FieldLevel) bool {
	_, ok := visibilityTiers[fl.Field().String()]
	return ok
}
