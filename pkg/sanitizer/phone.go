package sanitizer

import (
	"strings"

	"korskola/pkg/locale"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone returns the E.164 form of a valid number. Numbers without a
// country prefix are read as Swedish. Unparseable input is returned trimmed so
// validation can report it instead of it silently disappearing.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(phone, locale.DefaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return phone
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

func IsValidPhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return false
	}
	parsed, err := phonenumbers.Parse(phone, locale.DefaultRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(parsed)
}
