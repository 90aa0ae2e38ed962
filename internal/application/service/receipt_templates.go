package service

import (
	"fmt"
	"strings"

	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/pkg/currency"
	"github.com/sangkips/kasir-api/pkg/printer"
	"github.com/shopspring/decimal"
)

var thousand = decimal.NewFromInt(1000)

// CashTender rounds a cash payment up to the next thousand and returns the
// amount tendered and the change, never negative.
func CashTender(grandTotal decimal.Decimal) (paid, change decimal.Decimal) {
	paid = grandTotal.Div(thousand).Ceil().Mul(thousand)
	change = decimal.Max(paid.Sub(grandTotal), decimal.Zero)
	return paid, change
}

func isCash(paymentMethod string) bool {
	switch strings.ToLower(strings.TrimSpace(paymentMethod)) {
	case "cash", "tunai":
		return true
	}
	return false
}

type summaryLabels struct {
	subtotal        string
	variations      string
	productDiscount string
	itemDiscount    string
	voucher         string // format verb receives the code
	globalDiscount  string
	tax             string
}

var (
	thermalLabels = summaryLabels{
		subtotal:        "SUBTOTAL",
		variations:      "VARIATIONS",
		productDiscount: "PRODUCT DISCOUNT",
		itemDiscount:    "ITEM DISCOUNT",
		voucher:         "VOUCHER(%s)",
		globalDiscount:  "GLOBAL DISCOUNT",
		tax:             "TAX",
	}
	modernLabels = summaryLabels{
		subtotal:        "Subtotal",
		variations:      "Variations",
		productDiscount: "Product discount",
		itemDiscount:    "Item discount",
		voucher:         "Voucher (%s)",
		globalDiscount:  "Global discount",
		tax:             "Tax",
	}
)

// writeSummary appends the totals block. Optional components that are zero
// are left out; tax is always printed.
func writeSummary(doc *printer.Document, t *entity.Totals, f *currency.Formatter, labels summaryLabels) {
	doc.KeyValue(labels.subtotal, f.Number(t.Subtotal))
	if !t.VariationTotal.IsZero() {
		doc.KeyValue(labels.variations, f.Number(t.VariationTotal))
	}
	if t.ProductDiscount.IsPositive() {
		doc.KeyValue(labels.productDiscount, f.Negative(t.ProductDiscount))
	}
	if t.LineDiscount.IsPositive() {
		doc.KeyValue(labels.itemDiscount, f.Negative(t.LineDiscount))
	}
	if t.VoucherAmount().IsPositive() {
		doc.KeyValue(fmt.Sprintf(labels.voucher, t.VoucherCode), f.Negative(t.VoucherAmount()))
	}
	if t.ManualDiscount.IsPositive() {
		doc.KeyValue(labels.globalDiscount, f.Negative(t.ManualDiscount))
	}
	doc.KeyValue(labels.tax, f.Number(t.TaxAmount))
}

// thermalReceipt is the compact 32-column layout sent to the printer
func thermalReceipt(store *entity.StoreSettings, tx *entity.Transaction, f *currency.Formatter, width int) *printer.Document {
	t := tx.Totals
	doc := printer.NewDocument(width)

	doc.Section("header").
		SetAlign(printer.AlignCenter).
		SetBold(true).
		Text(strings.ToUpper(store.Name)).
		SetBold(false)
	if store.Address != "" {
		doc.Text(store.Address)
	}
	if store.Phone != "" {
		doc.Text("PHONE " + store.Phone)
	}

	doc.Section("info").
		SetAlign(printer.AlignLeft).
		Text(tx.Date + " " + tx.Bon).
		TextF("TRX NO:%d", tx.TransactionNumber)
	if tx.Cashier != "" {
		doc.Text("CASHIER:" + tx.Cashier)
	}
	doc.Text("NAME:" + tx.CustomerOrDefault()).
		Separator('-')

	doc.Section("items")
	for i, line := range tx.Cart.Lines {
		lt := t.Lines[i]
		q := decimal.NewFromInt(int64(line.Quantity))

		doc.ItemLine(line.Quantity, line.Name, f.Number(lt.Total))
		for _, v := range line.Variations {
			doc.KeyValue("  + "+v.Option, variationAdjustment(f, v))
		}
		if perUnit := line.ProductDiscount.Add(lt.LineDiscount); perUnit.IsPositive() {
			doc.KeyValue(" (@"+f.Number(line.OriginalPrice)+")", f.Negative(perUnit.Mul(q)))
		}
	}
	for i, b := range tx.Cart.Bundles {
		doc.KeyValue(fmt.Sprintf("%dx %s [B]", b.Quantity, b.Name), f.Number(t.Bundles[i]))
		for _, c := range b.Components {
			doc.TextF("  - %dx %s", c.Quantity, c.Name)
		}
	}
	doc.Separator('-')

	doc.Section("totals")
	writeSummary(doc, t, f, thermalLabels)
	doc.KeyValue("PAYMENT", strings.ToUpper(tx.PaymentMethod)).
		SetBold(true).
		KeyValue("TOTAL", f.WithSymbol(t.GrandTotal)).
		SetBold(false)
	if isCash(tx.PaymentMethod) {
		paid, change := CashTender(t.GrandTotal)
		doc.KeyValue("CASH", f.Number(paid)).
			KeyValue("CHANGE", f.Number(change))
	}

	doc.Section("footer").
		Separator('-').
		SetAlign(printer.AlignCenter).
		TextF("# ITEMS SOLD %d", tx.Cart.ItemCount())
	if store.ReceiptFooter != "" {
		doc.Text(store.ReceiptFooter)
	}
	doc.FeedLines(3).
		WithCut()

	return doc
}

// modernReceipt is the richer layout for on-screen preview and export. It
// carries the store logo and a transaction QR code.
func modernReceipt(store *entity.StoreSettings, tx *entity.Transaction, f *currency.Formatter, width int) *printer.Document {
	t := tx.Totals
	doc := printer.NewDocument(width).
		WithLogo(store.LogoURL).
		WithQRCode(QRPayload(store.Name, tx.Bon))

	doc.Section("header").
		SetAlign(printer.AlignCenter).
		SetBold(true).SetDouble(true).
		Text(store.Name).
		SetBold(false).SetDouble(false)
	if store.Address != "" {
		doc.Text(store.Address)
	}
	if store.Phone != "" {
		doc.Text(store.Phone)
	}

	doc.Section("details").
		SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Bon No.", tx.Bon).
		KeyValue("Transaction", fmt.Sprintf("#%d", tx.TransactionNumber)).
		KeyValue("Date", tx.Date).
		KeyValue("Customer", tx.CustomerOrDefault())
	if tx.Cashier != "" {
		doc.KeyValue("Cashier", tx.Cashier)
	}
	doc.Separator('-')

	doc.Section("items")
	for i, line := range tx.Cart.Lines {
		lt := t.Lines[i]
		q := decimal.NewFromInt(int64(line.Quantity))

		doc.SetBold(true).
			KeyValue(line.Name, f.Number(lt.Total)).
			SetBold(false).
			TextF("%d x %s", line.Quantity, f.Number(line.OriginalPrice))
		for _, v := range line.Variations {
			if adjustment := variationAdjustment(f, v); adjustment != "" {
				doc.TextF("  + %s (%s)", v.Option, adjustment)
			} else {
				doc.Text("  + " + v.Option)
			}
		}
		if line.ProductDiscount.IsPositive() {
			doc.Text("  Product promo " + f.Negative(line.ProductDiscount.Mul(q)))
		}
		if lt.LineDiscount.IsPositive() {
			doc.Text("  Item discount " + f.Negative(lt.LineDiscount.Mul(q)))
		}
	}
	for i, b := range tx.Cart.Bundles {
		doc.SetBold(true).
			KeyValue(b.Name+" [Bundle]", f.Number(t.Bundles[i])).
			SetBold(false)
		for _, c := range b.Components {
			doc.TextF("  - %dx %s", c.Quantity, c.Name)
		}
		if saving := b.Saving(); saving.IsPositive() {
			doc.Text("  You save " + f.Number(saving.Mul(decimal.NewFromInt(int64(b.Quantity)))))
		}
	}

	doc.Section("totals").Separator('-')
	writeSummary(doc, t, f, modernLabels)
	doc.Separator('=').
		SetBold(true).
		KeyValue("TOTAL", f.Number(t.GrandTotal)).
		SetBold(false)

	doc.Section("footer").
		SetAlign(printer.AlignCenter).
		Text("Paid with: " + tx.PaymentMethod)
	if store.ReceiptFooter != "" {
		doc.Text(store.ReceiptFooter)
	}

	return doc
}

// variationAdjustment is the signed price delta of an option, blank for a
// free option.
func variationAdjustment(f *currency.Formatter, v entity.VariationAdjustment) string {
	if v.PriceAdjustment.IsZero() {
		return ""
	}
	return f.Signed(v.PriceAdjustment)
}
