package member

import (
	"errors"
	"math"
	"strconv"
	"strings"

	apperr "github.com/matzehuels/familytree/pkg/errors"
)

// Gender is the normalized gender of a member. The zero value means unset.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderAlien  Gender = "Alien"
	GenderOther  Gender = "Other"
)

// Genders is the closed gender vocabulary in display order.
var Genders = []Gender{GenderMale, GenderFemale, GenderAlien, GenderOther}

// AgeCategories is the closed age-category vocabulary, youngest first.
var AgeCategories = []string{
	"Infant",
	"Toddler",
	"Child",
	"Teen",
	"Young Adult",
	"Adult",
	"Elder",
}

// ageBounds holds the lowest age of each entry in AgeCategories.
var ageBounds = []int{0, 2, 4, 13, 20, 30, 65}

var (
	// ErrNegativeAge is the cause of a FieldError for an age below zero.
	ErrNegativeAge = errors.New("age cannot be negative")

	// ErrAgeNotNumber is the cause of a FieldError for an age that does not
	// parse as a number.
	ErrAgeNotNumber = errors.New("age must be a valid number")
)

// ValidateGender matches v case-insensitively against [Genders] and returns
// the title-case form.
func ValidateGender(v string) (Gender, error) {
	s := strings.TrimSpace(v)
	for _, g := range Genders {
		if strings.EqualFold(s, string(g)) {
			return g, nil
		}
	}
	return "", apperr.Invalid(FieldGender, nil, "unknown gender %q", v).WithAllowed(genderNames()...)
}

// ValidateAgeCategory matches v case-insensitively against [AgeCategories]
// and returns the title-case form. Inner whitespace is collapsed, so
// "young   adult" is accepted.
func ValidateAgeCategory(v string) (string, error) {
	s := strings.Join(strings.Fields(v), " ")
	for _, c := range AgeCategories {
		if strings.EqualFold(s, c) {
			return c, nil
		}
	}
	return "", apperr.Invalid(FieldAge, nil, "unknown age category %q", v).WithAllowed(AgeCategories...)
}

// ValidateNumericAge parses v as a number and truncates it to an integer.
// Non-numeric input fails with [ErrAgeNotNumber]; a negative result fails
// with [ErrNegativeAge]. Truncation happens first, so "-0.5" is age 0.
func ValidateNumericAge(v string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, apperr.Invalid(FieldAge, ErrAgeNotNumber, "%q is not a valid number", v)
	}
	age := int(f)
	if age < 0 {
		return 0, apperr.Invalid(FieldAge, ErrNegativeAge, "cannot be negative (got %d)", age)
	}
	return age, nil
}

// ValidateName trims v and rejects an empty result as a missing field.
func ValidateName(v string) (string, error) {
	s := strings.TrimSpace(v)
	if s == "" {
		return "", apperr.Missing(FieldName)
	}
	return s, nil
}

// AgeCategory returns the display category for a numeric age.
// Negative ages have no category and yield "".
func AgeCategory(age int) string {
	if age < 0 {
		return ""
	}
	cat := AgeCategories[0]
	for i, lo := range ageBounds {
		if age >= lo {
			cat = AgeCategories[i]
		}
	}
	return cat
}

func genderNames() []string {
	names := make([]string, len(Genders))
	for i, g := range Genders {
		names[i] = string(g)
	}
	return names
}
