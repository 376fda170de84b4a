package checkout

import "strings"

const (
	maxCardDigits = 16
	maxExpiryLen  = 5
	maxCVVDigits  = 4
)

func digits(s string, limit int) string {
	var b strings.Builder
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		if b.Len() == limit {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatCardNumber keeps up to 16 digits and groups them by four:
// "4111-1111 1111 1111" becomes "4111 1111 1111 1111".
func FormatCardNumber(s string) string {
	d := digits(s, maxCardDigits)
	var b strings.Builder
	for i := 0; i < len(d); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		end := min(i+4, len(d))
		b.WriteString(d[i:end])
	}
	return b.String()
}

// FormatExpiry caps the MM/YY input at five characters.
func FormatExpiry(s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) > maxExpiryLen {
		r = r[:maxExpiryLen]
	}
	return string(r)
}

func FormatCVV(s string) string {
	return digits(s, maxCVVDigits)
}

// last4 returns the final four digits of a card number.
func last4(card string) string {
	d := digits(card, maxCardDigits)
	if len(d) <= 4 {
		return d
	}
	return d[len(d)-4:]
}
