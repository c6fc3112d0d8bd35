package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegions are tried in order for numbers written without a country
// code. Numbers starting with "+" parse the same under every region.
var DefaultRegions = []string{"US", "GB"}

// NormalizePhone returns phone in E.164 form, or "" when no default region
// yields a valid number.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	for _, region := range DefaultRegions {
		num, err := phonenumbers.Parse(phone, region)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			continue
		}
		return phonenumbers.Format(num, phonenumbers.E164)
	}
	return ""
}
