package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldKind enumerates the field types the boutique forms use. Handlers map
// their payload fields to kinds explicitly, so a misspelled field name is a
// compile-time problem instead of a silently skipped check.
type FieldKind int

const (
	FieldEmail FieldKind = iota
	FieldPhone
	FieldName
	FieldSubject
	FieldAddress
	FieldCity
	FieldCountry
	FieldPostalCode
	FieldAmount
	FieldDate
	FieldTime
	FieldURL
	FieldCreditCard
	FieldCVV
)

// Result is the outcome of a single field check.
type Result struct {
	Valid bool
	Error string
}

var valid = Result{Valid: true}

func invalid(msg string) Result {
	return Result{Error: msg}
}

var (
	checker = validator.New()

	phoneRe      = regexp.MustCompile(`^\+?[(0-9][0-9 ().-]{5,19}$`)
	nameRe       = regexp.MustCompile(`^[\p{L}][\p{L} '.-]{1,59}$`)
	cityRe       = regexp.MustCompile(`^[\p{L}][\p{L} '.-]{1,79}$`)
	postalCodeRe = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z -]{2,9}$`)
	dateRe       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe       = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	cvvRe        = regexp.MustCompile(`^\d{3,4}$`)
	digitsOnlyRe = regexp.MustCompile(`[^0-9]`)
)

// Field validates a single value against its kind. An empty value is valid
// unless required; a required empty value fails with a "required" error before
// any pattern check runs.
func Field(kind FieldKind, value string, required bool) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			return invalid("required")
		}
		return valid
	}

	switch kind {
	case FieldEmail:
		if err := checker.Var(value, "email"); err != nil {
			return invalid("invalid email address")
		}
	case FieldPhone:
		if !phoneRe.MatchString(value) {
			return invalid("invalid phone number")
		}
	case FieldName:
		if !nameRe.MatchString(value) {
			return invalid("invalid name")
		}
	case FieldSubject:
		if len(value) < 2 || len(value) > 200 {
			return invalid("must be between 2 and 200 characters")
		}
	case FieldAddress:
		if len(value) < 4 || len(value) > 200 {
			return invalid("invalid street address")
		}
	case FieldCity:
		if !cityRe.MatchString(value) {
			return invalid("invalid city")
		}
	case FieldCountry:
		if !cityRe.MatchString(value) {
			return invalid("invalid country")
		}
	case FieldPostalCode:
		if !postalCodeRe.MatchString(value) {
			return invalid("invalid postal code")
		}
	case FieldAmount:
		amount, err := strconv.ParseFloat(value, 64)
		if err != nil || amount <= 0 {
			return invalid("must be a positive amount")
		}
	case FieldDate:
		if !dateRe.MatchString(value) {
			return invalid("invalid date, expected YYYY-MM-DD")
		}
		if _, err := time.Parse("2006-01-02", value); err != nil {
			return invalid("invalid date, expected YYYY-MM-DD")
		}
	case FieldTime:
		if !timeRe.MatchString(value) {
			return invalid("invalid time, expected HH:MM")
		}
	case FieldURL:
		if err := checker.Var(value, "http_url"); err != nil {
			return invalid("invalid URL")
		}
	case FieldCreditCard:
		digits := digitsOnlyRe.ReplaceAllString(value, "")
		if len(digits) < 13 || len(digits) > 19 || !luhn(digits) {
			return invalid("invalid card number")
		}
	case FieldCVV:
		if !cvvRe.MatchString(value) {
			return invalid("invalid security code")
		}
	}
	return valid
}

func luhn(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
