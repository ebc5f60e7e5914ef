// Package card validates payment instruments and produces the masked form
// that is the only representation kept after validation.
package card

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/skyreserve/internal/domain"
)

const (
	minDigits = 13
	maxDigits = 19

	maskPlaceholder = "****"
)

var (
	cvvPattern    = regexp.MustCompile(`^[0-9]{3,4}$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
)

// Digits returns raw with every non-digit removed.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ValidNumber strips separators and applies the Luhn checksum.
func ValidNumber(raw string) bool {
	digits := Digits(raw)
	if len(digits) < minDigits || len(digits) > maxDigits {
		return false
	}
	return luhn(digits)
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

func ValidCVV(raw string) bool {
	return cvvPattern.MatchString(raw)
}

// ValidExpiry accepts MM/YY cards expiring in asOf's month or later.
func ValidExpiry(raw string, asOf time.Time) bool {
	m := expiryPattern.FindStringSubmatch(raw)
	if m == nil {
		return false
	}
	month, _ := strconv.Atoi(m[1])
	yy, _ := strconv.Atoi(m[2])
	year := 2000 + yy

	curYear, curMonth := asOf.Year(), int(asOf.Month())
	if year != curYear {
		return year > curYear
	}
	return month >= curMonth
}

// Mask keeps the first and last four digits.
func Mask(raw string) string {
	digits := Digits(raw)
	if len(digits) < 8 {
		return maskPlaceholder
	}
	return digits[:4] + "****" + digits[len(digits)-4:]
}

// Validate runs the number, CVV and expiry checks in that order and returns
// the first failure.
func Validate(number, cvv, expiry string, asOf time.Time) error {
	if !ValidNumber(number) {
		return domain.ErrInvalidCardNumber
	}
	if !ValidCVV(cvv) {
		return domain.ErrInvalidCVV
	}
	if !ValidExpiry(expiry, asOf) {
		return domain.ErrInvalidExpiry
	}
	return nil
}
