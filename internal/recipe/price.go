// AngelaMos | 2026
// price.go

package recipe

import (
	"errors"
	"fmt"
	"strings"
)

// Prices travel as decimal strings on the wire ("12.50") and as integer
// cents internally. Two decimal places, five significant digits, never
// negative.

const maxPriceDigits = 5

var ErrInvalidPrice = errors.New("invalid price")

func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidPrice
	}
	if s[0] == '+' || s[0] == '-' {
		return 0, ErrInvalidPrice
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, ErrInvalidPrice
	}
	if len(frac) > 2 {
		return 0, ErrInvalidPrice
	}

	digits := strings.TrimLeft(whole, "0")
	if len(digits)+2 > maxPriceDigits {
		return 0, ErrInvalidPrice
	}

	cents := int64(0)
	for _, c := range whole {
		if c < '0' || c > '9' {
			return 0, ErrInvalidPrice
		}
		cents = cents*10 + int64(c-'0')
	}
	cents *= 100

	scale := int64(10)
	for _, c := range frac {
		if c < '0' || c > '9' {
			return 0, ErrInvalidPrice
		}
		cents += int64(c-'0') * scale
		scale /= 10
	}

	return cents, nil
}

func FormatPrice(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
