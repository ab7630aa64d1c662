package utils

import (
	"strings"
	"unicode"
)

// Initials: первые буквы первых двух слов имени в верхнем регистре
func Initials(name string) string {
	parts := strings.Fields(name)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	var b strings.Builder
	for _, part := range parts {
		r := []rune(part)[0]
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// PaymentHint подсказка для ленты, подписка или оплата на месте
func PaymentHint(membershipType string) string {
	if membershipType == "Active" {
		return "Subscription"
	}
	return "Cash payment"
}
