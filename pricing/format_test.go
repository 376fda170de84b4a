package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRupees(t *testing.T) {
	cases := map[int64]string{
		0:       "₹0",
		999:     "₹999",
		2000:    "₹2,000",
		75000:   "₹75,000",
		249999:  "₹2,49,999",
		2949990: "₹29,49,990",
		-13800:  "-₹13,800",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatRupees(in), "FormatRupees(%d)", in)
	}
	assert.Equal(t, "Rs. 1,59,999", FormatAmount(159999, "Rs. "))
}
