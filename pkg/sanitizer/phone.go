package sanitizer

import (
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

// unknownRegion lets numbers that carry their own "+<country>" prefix parse without a
// configured region.
const unknownRegion = "ZZ"

// NormalizePhone returns the E.164 form of phone. A number without a country code is
// tried against each region in order and the first valid reading wins. Digits typed
// with a country code but no "+" (84912345678) are retried with one. It returns ""
// when no reading is a valid number.
func NormalizePhone(phone string, regions []string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	candidates := []string{phone}
	if digits := digitsOnly(phone); !strings.HasPrefix(phone, "+") && digits != "" && digits[0] != '0' {
		candidates = append(candidates, "+"+digits)
	}

	tryRegions := make([]string, 0, len(regions)+1)
	tryRegions = append(tryRegions, regions...)
	tryRegions = append(tryRegions, unknownRegion)

	for _, candidate := range candidates {
		for _, region := range tryRegions {
			parsed, err := phonenumbers.Parse(candidate, region)
			if err != nil || !phonenumbers.IsValidNumber(parsed) {
				continue
			}
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return ""
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
