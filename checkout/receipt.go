package checkout

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"skouce/models"
	"skouce/pricing"
)

// The core PDF fonts have no rupee glyph.
func rs(v int64) string {
	return pricing.FormatAmount(v, "Rs. ")
}

// RenderReceipt lays out an order confirmation with a QR code of the order id.
func RenderReceipt(order models.Order) ([]byte, error) {
	qrPNG, err := qrcode.Encode("skouce-order|"+order.OrderID, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("receipt qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "Skouce Order Confirmation")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, "Order: #"+order.OrderID)
	pdf.Ln(7)
	pdf.Cell(0, 8, "Placed: "+order.CreatedAt.Format("02 Jan 2006 15:04"))
	pdf.Ln(7)
	if order.CardLast4 != "" {
		pdf.Cell(0, 8, "Paid with card ending "+order.CardLast4)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	s := order.Shipping
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Ship to")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 11)
	for _, line := range []string{
		strings.TrimSpace(s.FirstName + " " + s.LastName),
		s.Address,
		strings.Trim(fmt.Sprintf("%s, %s %s", s.City, s.State, s.PostalCode), ", "),
		s.Country,
		s.Phone,
	} {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(100, 8, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Amount", "B", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, li := range order.Items {
		name := li.Name
		if li.Brand != "" {
			name = li.Brand + " " + li.Name
		}
		pdf.CellFormat(100, 7, tr(name), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprint(li.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, rs(li.PriceSnapshot*int64(li.Quantity)), "", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	b := order.Breakdown
	total := func(label, value string) {
		pdf.CellFormat(120, 7, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, value, "", 1, "R", false, 0, "")
	}
	total("Subtotal", rs(b.Subtotal))
	if b.FreeShipping() {
		total("Shipping", "Free")
	} else {
		total("Shipping", rs(b.Shipping))
	}
	total("GST (18%)", rs(b.Tax))
	if b.GiftWrapFee > 0 {
		total("Gift wrap", rs(b.GiftWrapFee))
	}
	pdf.SetFont("Arial", "B", 12)
	total("Total", rs(b.Total))

	if order.GiftWrap && order.GiftMessage != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 11)
		pdf.MultiCell(0, 6, tr("Gift message: "+order.GiftMessage), "", "L", false)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 15, 35, 35, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}
