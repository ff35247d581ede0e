package sanitizer

import (
	"regexp"
	"strings"
)

// Swedish personnummer: YYMMDD or YYYYMMDD, an optional "-" or "+" separator,
// then four digits. Guest registration used to accept any 10-12 digits and the
// supervisor form the dated shape; both now go through this one check.
var rePersonalNumber = regexp.MustCompile(`^(\d{6}|\d{8})[-+]?\d{4}$`)

func NormalizePersonalNumber(pn string) string {
	return strings.Join(strings.Fields(pn), "")
}

func IsValidPersonalNumber(pn string) bool {
	return rePersonalNumber.MatchString(NormalizePersonalNumber(pn))
}

// PersonalNumberDigits strips separators so differently formatted numbers compare equal.
func PersonalNumberDigits(pn string) string {
	var b strings.Builder
	for _, r := range pn {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
