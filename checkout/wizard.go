// Package checkout runs the shipping → payment → confirmation flow.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"skouce/models"
	"skouce/pricing"
)

type Step int

const (
	StepShipping Step = iota + 1
	StepPayment
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Step) UnmarshalText(b []byte) error {
	for _, st := range []Step{StepShipping, StepPayment, StepConfirmation} {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("checkout: unknown step %q", b)
}

var (
	ErrSubmitting        = errors.New("checkout: payment is being processed")
	ErrCompleted         = errors.New("checkout: order already confirmed")
	ErrInvalidTransition = errors.New("checkout: transition not allowed from this step")
	ErrEmptyCart         = errors.New("checkout: cart is empty")
	ErrNoOrder           = errors.New("checkout: no confirmed order")
)

// Cart is the line-item source. The paid lines are removed once an order
// is confirmed.
type Cart interface {
	LineItems() []models.LineItem
	RemoveLines(paid []models.LineItem)
}

// OrderNotifier is told about confirmed orders.
type OrderNotifier interface {
	OrderConfirmed(ctx context.Context, order models.Order) error
}

// State is a read-only snapshot of the wizard.
type State struct {
	Step           Step                  `json:"step"`
	Shipping       ShippingForm          `json:"shipping"`
	Payment        PaymentForm           `json:"payment"`
	ShippingErrors ShippingErrors        `json:"shippingErrors"`
	PaymentErrors  PaymentErrors         `json:"paymentErrors"`
	Submitting     bool                  `json:"isSubmitting"`
	PaymentError   string                `json:"paymentError,omitempty"`
	OrderID        string                `json:"orderId,omitempty"`
	Breakdown      models.PriceBreakdown `json:"breakdown"`
}

// Wizard owns one checkout. Its payment completion arrives on another
// goroutine, so all state is guarded by mu.
type Wizard struct {
	mu sync.Mutex

	cart      Cart
	proc      Processor
	notifier  OrderNotifier
	now       func() time.Time
	sessionID string

	step       Step
	shipping   ShippingForm
	payment    PaymentForm
	shipErrs   ShippingErrors
	payErrs    PaymentErrors
	submitting bool
	payErr     string
	order      *models.Order

	// gen is bumped whenever a pending payment is abandoned; a completion
	// carrying an older generation is dropped.
	gen    uint64
	cancel context.CancelFunc
}

type Option func(*Wizard)

func WithProcessor(p Processor) Option {
	return func(w *Wizard) { w.proc = p }
}

func WithNotifier(n OrderNotifier) Option {
	return func(w *Wizard) { w.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

func WithSessionID(id string) Option {
	return func(w *Wizard) { w.sessionID = id }
}

func NewWizard(cart Cart, opts ...Option) *Wizard {
	w := &Wizard{
		cart:     cart,
		proc:     SimulatedProcessor{Delay: DefaultPaymentDelay},
		now:      time.Now,
		step:     StepShipping,
		shipping: newShippingForm(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := State{
		Step:           w.step,
		Shipping:       w.shipping,
		Payment:        w.payment,
		ShippingErrors: w.shipErrs,
		PaymentErrors:  w.payErrs,
		Submitting:     w.submitting,
		PaymentError:   w.payErr,
		Breakdown:      w.breakdownLocked(),
	}
	if w.order != nil {
		st.OrderID = w.order.OrderID
		st.Breakdown = w.order.Breakdown
	}
	return st
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) editable() error {
	if w.step == StepConfirmation {
		return ErrCompleted
	}
	if w.submitting {
		return ErrSubmitting
	}
	return nil
}

// SetField stores value and clears that field's error. Card number, expiry
// and CVV are normalised on every edit.
func (w *Wizard) SetField(f Field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}

	if p := w.shipping.field(f); p != nil {
		*p = value
		if e := w.shipErrs.field(f); e != nil {
			*e = ""
		}
		return nil
	}
	if p := w.payment.field(f); p != nil {
		switch f {
		case FieldCardNumber:
			value = FormatCardNumber(value)
		case FieldExpiry:
			value = FormatExpiry(value)
		case FieldCVV:
			value = FormatCVV(value)
		}
		*p = value
		*w.payErrs.field(f) = ""
		w.payErr = ""
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownField, f)
}

func (w *Wizard) SetGiftWrap(on bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	w.shipping.GiftWrap = on
	return nil
}

func (w *Wizard) SetNewsletter(on bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	w.shipping.Newsletter = on
	return nil
}

// Next advances Shipping → Payment. Missing required fields keep the wizard
// on Shipping and are reported both in the error record and as *ValidationError.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.step {
	case StepConfirmation:
		return ErrCompleted
	case StepPayment:
		return fmt.Errorf("%w: use submit to place the order", ErrInvalidTransition)
	}

	errs, missing := w.shipping.validate()
	w.shipErrs = errs
	if len(missing) > 0 {
		return &ValidationError{Step: StepShipping, Fields: missing}
	}
	w.step = StepPayment
	return nil
}

// Back returns from Payment to Shipping, keeping the payment inputs.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case w.step == StepConfirmation:
		return ErrCompleted
	case w.submitting:
		return ErrSubmitting
	case w.step == StepPayment:
		w.step = StepShipping
	}
	return nil
}

// Submit validates the payment step and starts the payment. The returned
// channel closes when the attempt has settled, whether it confirmed, failed
// or was abandoned by Close.
func (w *Wizard) Submit(ctx context.Context) (<-chan struct{}, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case w.step == StepConfirmation:
		return nil, ErrCompleted
	case w.submitting:
		return nil, ErrSubmitting
	case w.step != StepPayment:
		return nil, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, w.step)
	}

	errs, missing := w.payment.validate()
	w.payErrs = errs
	if len(missing) > 0 {
		return nil, &ValidationError{Step: StepPayment, Fields: missing}
	}

	items := w.cart.LineItems()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, li := range items {
		if err := li.Validate(); err != nil {
			return nil, fmt.Errorf("checkout: %w", err)
		}
	}
	breakdown := pricing.Compute(items, w.shipping.GiftWrap)

	req := PaymentRequest{
		IdempotencyKey: uuid.NewString(),
		Amount:         breakdown.Total,
		CardNumber:     digits(w.payment.CardNumber, maxCardDigits),
		Expiry:         w.payment.Expiry,
		CVV:            w.payment.CVV,
		CardName:       w.payment.CardName,
	}

	// the payment outlives the request that started it
	pctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	w.gen++
	w.cancel = cancel
	w.submitting = true
	w.payErr = ""

	done := make(chan struct{})
	go w.settle(pctx, w.gen, req, items, breakdown, done)

	log.Printf("[Checkout] payment started session=%s key=%s amount=%d", w.sessionID, req.IdempotencyKey, req.Amount)
	return done, nil
}

func (w *Wizard) settle(ctx context.Context, gen uint64, req PaymentRequest, items []models.LineItem, breakdown models.PriceBreakdown, done chan<- struct{}) {
	defer close(done)
	res, err := w.proc.Process(ctx, req)

	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		log.Printf("[Checkout] dropping stale payment completion session=%s key=%s", w.sessionID, req.IdempotencyKey)
		return
	}
	w.submitting = false
	w.cancel()
	w.cancel = nil

	if err != nil {
		if errors.Is(err, ErrPaymentDeclined) {
			w.payErr = "Payment was declined. Please check your card details and try again."
		} else {
			w.payErr = "Payment could not be processed. Please try again."
		}
		w.mu.Unlock()
		log.Printf("[Checkout] payment failed session=%s key=%s: %v", w.sessionID, req.IdempotencyKey, err)
		return
	}

	placed := w.now()
	order := models.Order{
		OrderID:     orderID(placed),
		SessionID:   w.sessionID,
		Items:       items,
		Shipping:    w.address(),
		CardLast4:   last4(w.payment.CardNumber),
		PaymentRef:  res.Reference,
		GiftWrap:    w.shipping.GiftWrap,
		GiftMessage: w.shipping.GiftMessage,
		Newsletter:  w.shipping.Newsletter,
		Breakdown:   breakdown,
		Status:      "confirmed",
		CreatedAt:   placed,
	}
	w.order = &order
	w.step = StepConfirmation
	w.cart.RemoveLines(items)
	notifier := w.notifier
	w.mu.Unlock()

	log.Printf("[Checkout] order confirmed session=%s order=%s total=%d", w.sessionID, order.OrderID, breakdown.Total)
	if notifier != nil {
		nctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := notifier.OrderConfirmed(nctx, order); err != nil {
			log.Printf("[Checkout] notify order=%s: %v", order.OrderID, err)
		}
	}
}

// orderID is "SK" plus the last six digits of the millisecond timestamp.
func orderID(t time.Time) string {
	return fmt.Sprintf("SK%06d", t.UnixMilli()%1_000_000)
}

func (w *Wizard) address() models.ShippingAddress {
	s := w.shipping
	return models.ShippingAddress{
		FirstName:  s.FirstName,
		LastName:   s.LastName,
		Email:      s.Email,
		Phone:      s.Phone,
		Address:    s.Address,
		City:       s.City,
		State:      s.State,
		PostalCode: s.PostalCode,
		Country:    s.Country,
	}
}

// Close abandons a pending payment. The wizard stays on Payment with its
// inputs intact and no order is confirmed.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.submitting {
		return
	}
	w.gen++
	w.cancel()
	w.cancel = nil
	w.submitting = false
	log.Printf("[Checkout] pending payment abandoned session=%s", w.sessionID)
}

// Breakdown prices the current cart with the selected gift wrap.
func (w *Wizard) Breakdown() models.PriceBreakdown {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.order != nil {
		return w.order.Breakdown
	}
	return w.breakdownLocked()
}

func (w *Wizard) breakdownLocked() models.PriceBreakdown {
	return pricing.Compute(w.cart.LineItems(), w.shipping.GiftWrap)
}

// Order returns the confirmed order.
func (w *Wizard) Order() (models.Order, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.order == nil {
		return models.Order{}, false
	}
	return *w.order, true
}

// Receipt renders the confirmed order as a PDF.
func (w *Wizard) Receipt() ([]byte, error) {
	order, ok := w.Order()
	if !ok {
		return nil, ErrNoOrder
	}
	return RenderReceipt(order)
}
