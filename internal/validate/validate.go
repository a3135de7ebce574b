// Package validate contains the pure field predicates used by the intake
// dialogue. Each validator returns nil on acceptance or an error whose
// message is the user-facing rejection reason.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

const (
	maxAgeYears  = 120
	daysPerYear  = 365.25
	hoursPerDay  = 24
	birthDateFmt = "02/01/2006"
)

// now is swappable in tests.
var now = time.Now

// Email accepts addresses of the local@domain.tld shape.
func Email(s string) error {
	if !emailPattern.MatchString(strings.TrimSpace(s)) {
		return errors.New("invalid email. Please provide a valid address (e.g. your.name@email.com)")
	}
	return nil
}

// FullName requires at least a first and a last name.
func FullName(s string) error {
	if len(strings.Fields(s)) < 2 {
		return errors.New("please provide your full name with at least a first and a last name")
	}
	return nil
}

// BirthDate accepts DD/MM/YYYY dates that are not in the future and yield
// an age of at most 120 years. Age is computed as elapsed days / 365.25;
// exactly 120 is still accepted.
func BirthDate(s string) error {
	reject := errors.New("invalid birth date. Please use the DD/MM/YYYY format and provide a valid date")

	date, err := time.Parse(birthDateFmt, strings.TrimSpace(s))
	if err != nil {
		return reject
	}

	current := now()
	if date.After(current) {
		return reject
	}

	age := current.Sub(date).Hours() / hoursPerDay / daysPerYear
	if age > maxAgeYears {
		return reject
	}

	return nil
}

// Phone strips every non-digit rune and accepts 10 or 11 remaining digits
// (area code + number).
func Phone(s string) error {
	digits := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < 10 || digits > 11 {
		return errors.New("the phone number must contain 10 or 11 digits (area code + number)")
	}
	return nil
}
