package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCardNumber(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"4111", "4111"},
		{"41111", "4111 1"},
		{"4111111111111111", "4111 1111 1111 1111"},
		{"4111-1111 1111.1111", "4111 1111 1111 1111"},
		{"41111111111111119999", "4111 1111 1111 1111"},
		{"abcd", ""},
		{"4111 1111 1111 1111", "4111 1111 1111 1111"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatCardNumber(tc.in), "FormatCardNumber(%q)", tc.in)
	}
}

func TestFormatExpiryAndCVV(t *testing.T) {
	assert.Equal(t, "12/29", FormatExpiry("12/2999"))
	assert.Equal(t, "1/2", FormatExpiry(" 1/2 "))
	assert.Equal(t, "1234", FormatCVV("12a345"))
	assert.Equal(t, "", FormatCVV("abc"))
}

func TestCardNumberIsFormattedOnEveryEdit(t *testing.T) {
	w := NewWizard(seededCart(t))
	require.NoError(t, w.SetField(FieldCardNumber, "5500x0000"))
	assert.Equal(t, "5500 0000", w.State().Payment.CardNumber)

	require.NoError(t, w.SetField(FieldCardNumber, w.State().Payment.CardNumber+"1234"))
	assert.Equal(t, "5500 0000 1234", w.State().Payment.CardNumber)
}

func TestLast4(t *testing.T) {
	assert.Equal(t, "1111", last4("4111 1111 1111 1111"))
	assert.Equal(t, "12", last4("12"))
}

func TestSimulatedProcessor(t *testing.T) {
	p := SimulatedProcessor{Delay: time.Millisecond}
	res, err := p.Process(context.Background(), PaymentRequest{Amount: 100})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Reference)

	p.Decline = func(req PaymentRequest) bool { return req.Amount > 1000 }
	_, err = p.Process(context.Background(), PaymentRequest{Amount: 5000})
	assert.ErrorIs(t, err, ErrPaymentDeclined)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = SimulatedProcessor{Delay: time.Hour}.Process(ctx, PaymentRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}
