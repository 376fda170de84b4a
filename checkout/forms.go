package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names a single editable checkout input.
type Field string

const (
	FieldFirstName   Field = "firstName"
	FieldLastName    Field = "lastName"
	FieldEmail       Field = "email"
	FieldPhone       Field = "phone"
	FieldAddress     Field = "address"
	FieldCity        Field = "city"
	FieldState       Field = "state"
	FieldPostalCode  Field = "pincode"
	FieldCountry     Field = "country"
	FieldGiftMessage Field = "giftMessage"

	FieldCardNumber Field = "cardNumber"
	FieldExpiry     Field = "expiryDate"
	FieldCVV        Field = "cvv"
	FieldCardName   Field = "cardName"
)

var ErrUnknownField = errors.New("checkout: unknown field")

// Known reports whether f names an editable shipping or payment input.
func (f Field) Known() bool {
	return new(ShippingForm).field(f) != nil || new(PaymentForm).field(f) != nil
}

// ShippingForm is the first wizard step.
type ShippingForm struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	PostalCode  string `json:"pincode" validate:"required"`
	Country     string `json:"country"`
	GiftWrap    bool   `json:"giftWrap"`
	GiftMessage string `json:"giftMessage"`
	Newsletter  bool   `json:"newsletter"`
}

func newShippingForm() ShippingForm {
	return ShippingForm{Country: "India", Newsletter: true}
}

func (f *ShippingForm) field(name Field) *string {
	switch name {
	case FieldFirstName:
		return &f.FirstName
	case FieldLastName:
		return &f.LastName
	case FieldEmail:
		return &f.Email
	case FieldPhone:
		return &f.Phone
	case FieldAddress:
		return &f.Address
	case FieldCity:
		return &f.City
	case FieldState:
		return &f.State
	case FieldPostalCode:
		return &f.PostalCode
	case FieldCountry:
		return &f.Country
	case FieldGiftMessage:
		return &f.GiftMessage
	}
	return nil
}

// ShippingErrors mirrors the required shipping inputs. Empty means valid.
type ShippingErrors struct {
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"pincode,omitempty"`
}

func (e *ShippingErrors) field(name Field) *string {
	switch name {
	case FieldFirstName:
		return &e.FirstName
	case FieldLastName:
		return &e.LastName
	case FieldEmail:
		return &e.Email
	case FieldPhone:
		return &e.Phone
	case FieldAddress:
		return &e.Address
	case FieldCity:
		return &e.City
	case FieldState:
		return &e.State
	case FieldPostalCode:
		return &e.PostalCode
	}
	return nil
}

// PaymentForm is the second wizard step. CardNumber is stored formatted.
type PaymentForm struct {
	CardNumber string `json:"cardNumber" validate:"required"`
	Expiry     string `json:"expiryDate" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
	CardName   string `json:"cardName" validate:"required"`
}

func (f *PaymentForm) field(name Field) *string {
	switch name {
	case FieldCardNumber:
		return &f.CardNumber
	case FieldExpiry:
		return &f.Expiry
	case FieldCVV:
		return &f.CVV
	case FieldCardName:
		return &f.CardName
	}
	return nil
}

type PaymentErrors struct {
	CardNumber string `json:"cardNumber,omitempty"`
	Expiry     string `json:"expiryDate,omitempty"`
	CVV        string `json:"cvv,omitempty"`
	CardName   string `json:"cardName,omitempty"`
}

func (e *PaymentErrors) field(name Field) *string {
	switch name {
	case FieldCardNumber:
		return &e.CardNumber
	case FieldExpiry:
		return &e.Expiry
	case FieldCVV:
		return &e.CVV
	case FieldCardName:
		return &e.CardName
	}
	return nil
}

type requirement struct {
	field   Field
	message string
}

var shippingRequired = []requirement{
	{FieldFirstName, "First name is required"},
	{FieldLastName, "Last name is required"},
	{FieldEmail, "Email is required"},
	{FieldPhone, "Phone is required"},
	{FieldAddress, "Address is required"},
	{FieldCity, "City is required"},
	{FieldState, "State is required"},
	{FieldPostalCode, "PIN code is required"},
}

var paymentRequired = []requirement{
	{FieldCardNumber, "Card number is required"},
	{FieldExpiry, "Expiry date is required"},
	{FieldCVV, "CVV is required"},
	{FieldCardName, "Cardholder name is required"},
}

var validate = newValidator()

// newValidator reports fields under their JSON names so they line up with Field.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		return name
	})
	return v
}

// unmet runs the struct rules on form and returns the failed requirements
// in table order. Only an empty string counts as missing.
func unmet(form any, reqs []requirement) []requirement {
	var verrs validator.ValidationErrors
	if !errors.As(validate.Struct(form), &verrs) {
		return nil
	}
	failed := make(map[Field]bool, len(verrs))
	for _, fe := range verrs {
		failed[Field(fe.Field())] = true
	}
	var out []requirement
	for _, req := range reqs {
		if failed[req.field] {
			out = append(out, req)
		}
	}
	return out
}

func (f ShippingForm) validate() (ShippingErrors, []Field) {
	var errs ShippingErrors
	var fields []Field
	for _, req := range unmet(f, shippingRequired) {
		*errs.field(req.field) = req.message
		fields = append(fields, req.field)
	}
	return errs, fields
}

func (f PaymentForm) validate() (PaymentErrors, []Field) {
	var errs PaymentErrors
	var fields []Field
	for _, req := range unmet(f, paymentRequired) {
		*errs.field(req.field) = req.message
		fields = append(fields, req.field)
	}
	return errs, fields
}

// ValidationError lists the required fields that blocked a step.
type ValidationError struct {
	Step   Step
	Fields []Field
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("checkout: %s step incomplete: missing %s", e.Step, strings.Join(names, ", "))
}
