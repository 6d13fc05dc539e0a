package utils

import (
	"strings"
	"unicode"
)

const (
	// AadhaarNotProvided is shown when no Aadhaar number is on record.
	AadhaarNotProvided = "Not provided"

	aadhaarMaskedPrefix = "XXXX-XXXX-"
	aadhaarFullyMasked  = "XXXX-XXXX-XXXX"
)

// MaskAadhaar renders an Aadhaar number for display with only its last four
// digits visible: "1234 5678 9012" becomes "XXXX-XXXX-9012". A nil or blank
// value yields [AadhaarNotProvided]; fewer than four digits yield a fully
// masked value.
func MaskAadhaar(aadhaar *string) string {
	if aadhaar == nil || strings.TrimSpace(*aadhaar) == "" {
		return AadhaarNotProvided
	}

	digits := onlyDigits(*aadhaar)
	if len(digits) < 4 {
		return aadhaarFullyMasked
	}
	return aadhaarMaskedPrefix + digits[len(digits)-4:]
}

// MaskPhone keeps the last four digits of phone and replaces every other
// digit with "X". Separators are dropped.
func MaskPhone(phone string) string {
	digits := onlyDigits(phone)
	if len(digits) <= 4 {
		return digits
	}
	return strings.Repeat("X", len(digits)-4) + digits[len(digits)-4:]
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}
