package utils

import "strings"

func digitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhoneNumber accepts US numbers: 10 digits, or 11 with a leading 1.
func ValidatePhoneNumber(phone string) bool {
	digits := digitsOnly(phone)
	return len(digits) == 10 || (len(digits) == 11 && strings.HasPrefix(digits, "1"))
}

// ToE164 normalizes a US phone number to +1XXXXXXXXXX for the SMS API.
// Numbers already carrying a + prefix pass through unchanged.
func ToE164(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	digits := digitsOnly(phone)
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		return "+" + digits
	}
	return "+1" + digits
}

// FormatPhoneNumber renders a US number for display, e.g. (612) 555-0137.
func FormatPhoneNumber(phone string) string {
	digits := digitsOnly(phone)

	switch {
	case len(digits) == 10:
		return "(" + digits[0:3] + ") " + digits[3:6] + "-" + digits[6:]
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "+1 (" + digits[1:4] + ") " + digits[4:7] + "-" + digits[7:]
	}
	return phone
}
