package core

// validation.go checks a candidate Record before it enters the store.
//
// Every field is checked independently so the form can show all problems at
// once. Per field, the required check runs before the format check and only
// the first failure is reported. The resulting ErrorMap is empty for a valid
// record.

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MinimumAge is the lowest accepted age.
const MinimumAge = 18

var (
	nameRX   = regexp.MustCompile(`^[A-Za-z\s\v]+$`)
	mobileRX = regexp.MustCompile(`^\d{10,}$`)
)

// fieldMessages holds the required and format messages per field.
var fieldMessages = map[string][2]string{
	FieldName:         {"Name is required", "Name must contain only letters"},
	FieldAddress:      {"Address is required", "Address must be at least 10 characters long"},
	FieldCountryCode:  {"Country code is required", "Country code must be one of the supported codes"},
	FieldMobileNumber: {"Mobile number is required", "Mobile number must be at least 10 digits long and contain only numbers"},
	FieldAge:          {"Age is required", "Age must be a number and at least 18"},
}

// candidate mirrors Record with validation tags. The field tag names
// reported by the engine are the JSON names, see newEngine.
type candidate struct {
	Name         string `json:"name" validate:"present,letters"`
	Address      string `json:"address" validate:"present,min=10"`
	CountryCode  string `json:"countryCode" validate:"present,country"`
	MobileNumber string `json:"mobileNumber" validate:"present,mobile"`
	Age          string `json:"age" validate:"present,adult"`
}

var engine = newEngine()

func registerFn(tag string, fn validator.Func) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register validation %q: %v", tag, err))
		}
	}
}

func newEngine() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})

	for _, rule := range []func(*validator.Validate){
		registerFn("present", presentValidator),
		registerFn("letters", lettersValidator),
		registerFn("mobile", mobileValidator),
		registerFn("adult", adultValidator),
		registerFn("country", countryValidator),
	} {
		rule(v)
	}
	return v
}

// presentValidator only rejects the empty string. Whitespace counts as
// input and is left to the format checks.
func presentValidator(fl validator.FieldLevel) bool {
	return fl.Field().Len() > 0
}

func lettersValidator(fl validator.FieldLevel) bool {
	return nameRX.MatchString(fl.Field().String())
}

func mobileValidator(fl validator.FieldLevel) bool {
	return mobileRX.MatchString(fl.Field().String())
}

func countryValidator(fl validator.FieldLevel) bool {
	_, ok := LookupCountry(fl.Field().String())
	return ok
}

func adultValidator(fl validator.FieldLevel) bool {
	age, ok := ParseAge(fl.Field().String())
	return ok && age >= MinimumAge
}

// ParseAge interprets a typed age. Surrounding whitespace is ignored and
// decimals are accepted; NaN and infinities are not numbers here.
func ParseAge(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Validate checks a candidate record and returns the failing fields.
// An empty map means the record is valid.
func Validate(r Record) ErrorMap {
	errs := ErrorMap{}

	err := engine.Struct(candidate(r))
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable on programmer error (e.g. a bad tag).
		panic(fmt.Sprintf("validate record: %v", err))
	}

	for _, fe := range fieldErrs {
		msgs, ok := fieldMessages[fe.Field()]
		if !ok {
			continue
		}
		if fe.Tag() == "present" {
			errs.add(fe.Field(), msgs[0])
		} else {
			errs.add(fe.Field(), msgs[1])
		}
	}
	return errs
}
