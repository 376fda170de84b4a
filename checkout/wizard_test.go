package checkout

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skouce/cart"
	"skouce/catalog"
	"skouce/models"
)

var fixedNow = time.UnixMilli(1_700_000_123_456)

type recordingNotifier struct {
	mu     sync.Mutex
	orders []models.Order
}

func (n *recordingNotifier) OrderConfirmed(_ context.Context, o models.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, o)
	return nil
}

// gate blocks every payment until released, ignoring cancellation so a late
// completion can be observed.
type gate struct {
	release chan struct{}
	mu      sync.Mutex
	reqs    []PaymentRequest
}

func newGate() *gate { return &gate{release: make(chan struct{})} }

func (g *gate) Process(_ context.Context, req PaymentRequest) (PaymentResult, error) {
	g.mu.Lock()
	g.reqs = append(g.reqs, req)
	g.mu.Unlock()
	<-g.release
	return PaymentResult{Reference: "ref-1"}, nil
}

var instant = ProcessorFunc(func(context.Context, PaymentRequest) (PaymentResult, error) {
	return PaymentResult{Reference: "ref-instant"}, nil
})

func seededCart(t *testing.T, ids ...string) *cart.Cart {
	t.Helper()
	snap := catalog.NewSnapshot(catalog.SeedProducts(), nil)
	c := cart.New()
	for _, id := range ids {
		p, ok := snap.Product(id)
		require.True(t, ok)
		require.NoError(t, c.Add(p, 1))
	}
	return c
}

func fillShipping(t *testing.T, w *Wizard) {
	t.Helper()
	for f, v := range map[Field]string{
		FieldFirstName:  "Asha",
		FieldLastName:   "Rao",
		FieldEmail:      "asha@example.com",
		FieldPhone:      "+91 98765 43210",
		FieldAddress:    "12 MG Road",
		FieldCity:       "Bengaluru",
		FieldState:      "Karnataka",
		FieldPostalCode: "560001",
	} {
		require.NoError(t, w.SetField(f, v))
	}
}

func fillPayment(t *testing.T, w *Wizard) {
	t.Helper()
	require.NoError(t, w.SetField(FieldCardNumber, "4111111111111111"))
	require.NoError(t, w.SetField(FieldExpiry, "12/29"))
	require.NoError(t, w.SetField(FieldCVV, "123"))
	require.NoError(t, w.SetField(FieldCardName, "ASHA RAO"))
}

func atPayment(t *testing.T, w *Wizard) {
	t.Helper()
	fillShipping(t, w)
	require.NoError(t, w.Next())
	fillPayment(t, w)
}

func TestShippingValidationScenario(t *testing.T) {
	w := NewWizard(seededCart(t, "1"))
	fillShipping(t, w)
	require.NoError(t, w.SetField(FieldEmail, ""))

	err := w.Next()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []Field{FieldEmail}, verr.Fields)

	st := w.State()
	assert.Equal(t, StepShipping, st.Step)
	assert.Equal(t, "Email is required", st.ShippingErrors.Email)
	assert.Empty(t, st.ShippingErrors.FirstName)

	require.NoError(t, w.SetField(FieldEmail, "asha@example.com"))
	assert.Empty(t, w.State().ShippingErrors.Email, "editing clears the field error")

	require.NoError(t, w.Next())
	assert.Equal(t, StepPayment, w.Step())
}

func TestShippingValidationReportsEveryMissingField(t *testing.T) {
	w := NewWizard(seededCart(t, "1"))

	var verr *ValidationError
	require.ErrorAs(t, w.Next(), &verr)
	assert.Equal(t, []Field{
		FieldFirstName, FieldLastName, FieldEmail, FieldPhone,
		FieldAddress, FieldCity, FieldState, FieldPostalCode,
	}, verr.Fields)
	assert.Equal(t, "PIN code is required", w.State().ShippingErrors.PostalCode)
	assert.Contains(t, verr.Error(), "shipping step incomplete")
}

func TestWhitespaceOnlyCountsAsFilled(t *testing.T) {
	w := NewWizard(seededCart(t, "1"))
	fillShipping(t, w)
	require.NoError(t, w.SetField(FieldCity, "   "))
	require.NoError(t, w.SetField(FieldFirstName, "\t"))

	require.NoError(t, w.Next())
	assert.Equal(t, StepPayment, w.Step())
	assert.Equal(t, "   ", w.State().Shipping.City)
}

func TestShippingDefaults(t *testing.T) {
	st := NewWizard(seededCart(t)).State()
	assert.Equal(t, "India", st.Shipping.Country)
	assert.True(t, st.Shipping.Newsletter)
	assert.False(t, st.Shipping.GiftWrap)
	assert.Equal(t, StepShipping, st.Step)
}

func TestUnknownField(t *testing.T) {
	w := NewWizard(seededCart(t))
	assert.ErrorIs(t, w.SetField("coupon", "SAVE10"), ErrUnknownField)

	assert.False(t, Field("coupon").Known())
	assert.True(t, FieldGiftMessage.Known())
	assert.True(t, FieldCVV.Known())
}

func TestBackPreservesPaymentInputs(t *testing.T) {
	w := NewWizard(seededCart(t, "1"))
	atPayment(t, w)

	require.NoError(t, w.Back())
	assert.Equal(t, StepShipping, w.Step())
	require.NoError(t, w.Back(), "back on the first step is a no-op")

	require.NoError(t, w.Next())
	st := w.State()
	assert.Equal(t, StepPayment, st.Step)
	assert.Equal(t, "4111 1111 1111 1111", st.Payment.CardNumber)
	assert.Equal(t, "ASHA RAO", st.Payment.CardName)
}

func TestNextFromPaymentIsNotASubmit(t *testing.T) {
	w := NewWizard(seededCart(t, "1"))
	atPayment(t, w)
	assert.ErrorIs(t, w.Next(), ErrInvalidTransition)
}

func TestSubmitRequiresPaymentStep(t *testing.T) {
	w := NewWizard(seededCart(t, "1"))
	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPaymentValidation(t *testing.T) {
	w := NewWizard(seededCart(t, "1"), WithProcessor(instant))
	fillShipping(t, w)
	require.NoError(t, w.Next())
	require.NoError(t, w.SetField(FieldCardNumber, "4111 1111 1111 1111"))
	require.NoError(t, w.SetField(FieldExpiry, "12/29"))
	require.NoError(t, w.SetField(FieldCardName, "ASHA RAO"))

	_, err := w.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepPayment, verr.Step)
	assert.Equal(t, []Field{FieldCVV}, verr.Fields)

	st := w.State()
	assert.Equal(t, "CVV is required", st.PaymentErrors.CVV)
	assert.False(t, st.Submitting)

	require.NoError(t, w.SetField(FieldCVV, "123"))
	assert.Empty(t, w.State().PaymentErrors.CVV)
}

func TestSubmitConfirmsOrder(t *testing.T) {
	c := seededCart(t, "1")
	notifier := &recordingNotifier{}
	var seen PaymentRequest
	proc := ProcessorFunc(func(_ context.Context, req PaymentRequest) (PaymentResult, error) {
		seen = req
		return PaymentResult{Reference: "ref-42"}, nil
	})
	w := NewWizard(c, WithProcessor(proc), WithNotifier(notifier),
		WithClock(func() time.Time { return fixedNow }), WithSessionID("sess-1"))
	atPayment(t, w)

	done, err := w.Submit(context.Background())
	require.NoError(t, err)
	<-done

	st := w.State()
	assert.Equal(t, StepConfirmation, st.Step)
	assert.False(t, st.Submitting)
	assert.Equal(t, "SK123456", st.OrderID)
	assert.Equal(t, int64(294999), st.Breakdown.Total)

	_, err = uuid.Parse(seen.IdempotencyKey)
	assert.NoError(t, err)
	assert.Equal(t, int64(294999), seen.Amount)
	assert.Equal(t, "4111111111111111", seen.CardNumber)

	order, ok := w.Order()
	require.True(t, ok)
	assert.Equal(t, "1111", order.CardLast4)
	assert.Equal(t, "ref-42", order.PaymentRef)
	assert.Equal(t, "sess-1", order.SessionID)
	assert.Equal(t, "Bengaluru", order.Shipping.City)
	require.Len(t, order.Items, 1)

	assert.Empty(t, c.LineItems(), "paid lines leave the cart after confirmation")
	require.Len(t, notifier.orders, 1)
	assert.Equal(t, "SK123456", notifier.orders[0].OrderID)
}

func TestConfirmationIsTerminal(t *testing.T) {
	w := NewWizard(seededCart(t, "2"), WithProcessor(instant))
	atPayment(t, w)
	done, err := w.Submit(context.Background())
	require.NoError(t, err)
	<-done

	assert.ErrorIs(t, w.Next(), ErrCompleted)
	assert.ErrorIs(t, w.Back(), ErrCompleted)
	assert.ErrorIs(t, w.SetField(FieldCity, "Pune"), ErrCompleted)
	assert.ErrorIs(t, w.SetGiftWrap(true), ErrCompleted)
	_, err = w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrCompleted)
	assert.Equal(t, StepConfirmation, w.Step())
}

func TestRepeatSubmitWhileSubmittingIsRejected(t *testing.T) {
	g := newGate()
	w := NewWizard(seededCart(t, "1"), WithProcessor(g))
	atPayment(t, w)

	done, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, w.State().Submitting)

	_, err = w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitting)
	assert.ErrorIs(t, w.Back(), ErrSubmitting)
	assert.ErrorIs(t, w.SetField(FieldCVV, "999"), ErrSubmitting)

	close(g.release)
	<-done
	assert.Equal(t, StepConfirmation, w.Step())
	assert.Len(t, g.reqs, 1)
}

func TestLinesAddedDuringPaymentSurviveConfirmation(t *testing.T) {
	g := newGate()
	c := seededCart(t, "1")
	w := NewWizard(c, WithProcessor(g))
	atPayment(t, w)

	done, err := w.Submit(context.Background())
	require.NoError(t, err)

	snap := catalog.NewSnapshot(catalog.SeedProducts(), nil)
	one, _ := snap.Product("1")
	two, _ := snap.Product("2")
	require.NoError(t, c.Add(two, 1))
	require.NoError(t, c.Add(one, 1))

	close(g.release)
	<-done

	order, ok := w.Order()
	require.True(t, ok)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 1, order.Items[0].Quantity)

	left := c.LineItems()
	require.Len(t, left, 2)
	assert.Equal(t, "1", left[0].ProductID)
	assert.Equal(t, 1, left[0].Quantity)
	assert.Equal(t, "2", left[1].ProductID)
}

func TestCloseAbandonsPendingPayment(t *testing.T) {
	g := newGate()
	c := seededCart(t, "1")
	notifier := &recordingNotifier{}
	w := NewWizard(c, WithProcessor(g), WithNotifier(notifier))
	atPayment(t, w)

	done, err := w.Submit(context.Background())
	require.NoError(t, err)

	w.Close()
	st := w.State()
	assert.False(t, st.Submitting)
	assert.Equal(t, StepPayment, st.Step)

	// the processor finishes after the dialog was closed
	close(g.release)
	<-done

	st = w.State()
	assert.Equal(t, StepPayment, st.Step)
	assert.Empty(t, st.OrderID)
	_, ok := w.Order()
	assert.False(t, ok)
	assert.Len(t, c.LineItems(), 1, "an abandoned payment leaves the cart alone")
	assert.Empty(t, notifier.orders)
}

func TestCloseCancelsProcessorContext(t *testing.T) {
	w := NewWizard(seededCart(t, "1"), WithProcessor(SimulatedProcessor{Delay: time.Hour}))
	atPayment(t, w)

	done, err := w.Submit(context.Background())
	require.NoError(t, err)
	w.Close()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("payment goroutine did not stop after Close")
	}
	assert.Equal(t, StepPayment, w.Step())
}

func TestSubmitSurvivesRequestCancellation(t *testing.T) {
	w := NewWizard(seededCart(t, "1"), WithProcessor(SimulatedProcessor{Delay: 10 * time.Millisecond}))
	atPayment(t, w)

	ctx, cancel := context.WithCancel(context.Background())
	done, err := w.Submit(ctx)
	require.NoError(t, err)
	cancel()
	<-done

	assert.Equal(t, StepConfirmation, w.Step())
}

func TestDeclinedPaymentReturnsToPayment(t *testing.T) {
	declines := 1
	proc := ProcessorFunc(func(context.Context, PaymentRequest) (PaymentResult, error) {
		if declines > 0 {
			declines--
			return PaymentResult{}, ErrPaymentDeclined
		}
		return PaymentResult{Reference: "ok"}, nil
	})
	c := seededCart(t, "1")
	w := NewWizard(c, WithProcessor(proc))
	atPayment(t, w)

	done, err := w.Submit(context.Background())
	require.NoError(t, err)
	<-done

	st := w.State()
	assert.Equal(t, StepPayment, st.Step)
	assert.False(t, st.Submitting)
	assert.Contains(t, st.PaymentError, "declined")
	assert.Equal(t, "4111 1111 1111 1111", st.Payment.CardNumber)
	assert.Len(t, c.LineItems(), 1)

	done, err = w.Submit(context.Background())
	require.NoError(t, err)
	<-done
	assert.Equal(t, StepConfirmation, w.Step())
	assert.Empty(t, w.State().PaymentError)
}

func TestProcessorErrorIsSurfaced(t *testing.T) {
	proc := ProcessorFunc(func(context.Context, PaymentRequest) (PaymentResult, error) {
		return PaymentResult{}, errors.New("gateway timeout")
	})
	w := NewWizard(seededCart(t, "1"), WithProcessor(proc))
	atPayment(t, w)

	done, err := w.Submit(context.Background())
	require.NoError(t, err)
	<-done
	assert.Contains(t, w.State().PaymentError, "could not be processed")
}

func TestSubmitEmptyCart(t *testing.T) {
	w := NewWizard(seededCart(t), WithProcessor(instant))
	atPayment(t, w)

	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.False(t, w.State().Submitting)
}

func TestBreakdownFollowsGiftWrap(t *testing.T) {
	w := NewWizard(seededCart(t, "1"))
	assert.Equal(t, int64(294999), w.Breakdown().Total)

	require.NoError(t, w.SetGiftWrap(true))
	b := w.Breakdown()
	assert.Equal(t, int64(500), b.GiftWrapFee)
	assert.Equal(t, int64(295499), b.Total)

	require.NoError(t, w.SetNewsletter(false))
	assert.False(t, w.State().Shipping.Newsletter)
}

func TestReceipt(t *testing.T) {
	w := NewWizard(seededCart(t, "1", "5"), WithProcessor(instant))
	_, err := w.Receipt()
	assert.ErrorIs(t, err, ErrNoOrder)

	atPayment(t, w)
	require.NoError(t, w.SetGiftWrap(true))
	require.NoError(t, w.SetField(FieldGiftMessage, "Happy anniversary!"))
	done, err := w.Submit(context.Background())
	require.NoError(t, err)
	<-done

	pdf, err := w.Receipt()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestOrderID(t *testing.T) {
	assert.Equal(t, "SK123456", orderID(fixedNow))
	assert.Equal(t, "SK000042", orderID(time.UnixMilli(5_000_042)))
}

func TestStepText(t *testing.T) {
	raw, err := StepConfirmation.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "confirmation", string(raw))
	assert.Equal(t, "step(9)", Step(9).String())

	var st Step
	require.NoError(t, st.UnmarshalText([]byte("payment")))
	assert.Equal(t, StepPayment, st)
	assert.Error(t, st.UnmarshalText([]byte("step(9)")))
}
