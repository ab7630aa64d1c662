package utils

import "strings"

// CountryCode: код страны зала. Номер без кода считается британским.
const CountryCode = "44"

// NormalizePhone приводит номер к виду +44XXXXXXXXXX.
// Это эвристика, а не валидатор: мусор на входе дает мусор на выходе, но без паники.
func NormalizePhone(raw string) string {
	digits := ExtractDigits(raw)
	switch {
	// национальный формат: 07123456789
	case strings.HasPrefix(digits, "0") && len(digits) == 11:
		return "+" + CountryCode + digits[1:]
	// код страны без плюса: 447123456789
	case strings.HasPrefix(digits, CountryCode) && len(digits) == 12:
		return "+" + digits
	case !strings.HasPrefix(raw, "+"):
		return "+" + CountryCode + digits
	}
	return raw
}

func ExtractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
