package pricing

import (
	"strconv"
	"strings"
)

// FormatRupees renders whole rupees with Indian digit grouping, e.g. ₹2,49,999.
func FormatRupees(v int64) string {
	return FormatAmount(v, "₹")
}

// FormatAmount groups the last three digits, then pairs: 2949990 → 29,49,990.
func FormatAmount(v int64, symbol string) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return sign + symbol + s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return sign + symbol + strings.Join(groups, ",") + "," + tail
}
