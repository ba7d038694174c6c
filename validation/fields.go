// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// MinimumAge is the age, in years, a user must have reached.
const MinimumAge = 10

// Validation tags understood by the field validator.
const (
	tagNotBlank    = "notblank"
	tagPhoneDigits = "phone_digits"
)

// fields runs the presence and format rules declared on Input. It caches
// struct metadata and is safe for concurrent use.
var fields = newFieldValidator()

func newFieldValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name, which is also their Field value.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	if err := v.RegisterValidation(tagNotBlank, validators.NotBlank); err != nil {
		panic(err)
	}

	if err := v.RegisterValidation(tagPhoneDigits, phoneDigits); err != nil {
		panic(err)
	}

	return v
}

// kindForTag maps the tag of a failed rule to the reported kind.
func kindForTag(tag string) ErrorKind {
	switch tag {
	case tagNotBlank:
		return KindMissingField
	default:
		return KindInvalidFormat
	}
}

// kindOf returns the kind of the first failed rule in err, KindNone when
// err is nil.
func kindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return kindForTag(verrs[0].Tag())
	}

	return KindInvalidFormat
}

// ValidateName reports whether a name field is filled in.
func ValidateName(name string) bool {
	return fields.Var(name, tagNotBlank) == nil
}

// ParseBirthDate accepts YYYY-MM-DD, as sent by date inputs, or an RFC 3339
// timestamp whose date part is kept. The result is midnight UTC.
func ParseBirthDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date of birth %q: %w", s, err)
	}

	return midnight(t, time.UTC), nil
}

// midnight strips the clock from t, keeping its calendar day in loc.
func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ValidateBirthDate reports whether birth is not in the future and at least
// MinimumAge years before now. Only calendar days are compared: a birth date
// exactly MinimumAge years ago passes, today does not.
func ValidateBirthDate(birth, now time.Time) bool {
	loc := now.Location()
	today := midnight(now, loc)
	birth = midnight(birth, loc)

	if birth.After(today) {
		return false
	}

	return !birth.After(today.AddDate(-MinimumAge, 0, 0))
}

// PhonePolicy selects how strictly phone numbers are checked.
type PhonePolicy string

const (
	// PhonePresence only requires a non-empty value.
	PhonePresence PhonePolicy = "presence"
	// PhoneDigits also requires 7 to 15 digits, optionally prefixed by +,
	// once spaces, dashes, dots and parentheses are removed.
	PhoneDigits PhonePolicy = "digits"
)

// ParsePhonePolicy converts a configuration value into a PhonePolicy.
func ParsePhonePolicy(s string) (PhonePolicy, error) {
	switch p := PhonePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PhonePresence, PhoneDigits:
		return p, nil
	case "":
		return PhoneDigits, nil
	default:
		return "", fmt.Errorf("unknown phone policy %q (want %q or %q)", s, PhonePresence, PhoneDigits)
	}
}

// tags returns the rules a phone number must satisfy under p.
func (p PhonePolicy) tags() string {
	if p == PhonePresence {
		return tagNotBlank
	}

	return tagNotBlank + "," + tagPhoneDigits
}

var (
	phonePattern   = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
	phoneSeparator = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
)

func phoneDigits(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(phoneSeparator.Replace(strings.TrimSpace(fl.Field().String())))
}

// ValidatePhone returns KindNone when phone satisfies policy.
func ValidatePhone(policy PhonePolicy, phone string) ErrorKind {
	return kindOf(fields.Var(phone, policy.tags()))
}
