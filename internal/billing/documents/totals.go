package documents

import "github.com/ledgerline-erp/ledgerline/internal/masterdata/changerates"

// Totals holds the derived monetary fields of a document. All values are in
// the primary currency of the change rate except the secondary projections.
type Totals struct {
	Net         float64
	Vat         float64
	Withholding float64
	Gross       float64
	ToPay       float64

	// Secondary projections are informational conversions of gross and
	// to-pay. HasSecondary is false for identity rates.
	HasSecondary      bool
	SecondaryCurrency string
	GrossSecondary    float64
	ToPaySecondary    float64
}

// ComputeTotals derives all document totals from the associated orders and
// the applicable rates. vatRate and withholding are percentage points. The
// computation is a pure function of its inputs, so recomputing after an
// amendment yields the same result for the same order set.
func ComputeTotals(orders []BillableOrder, vatRate, withholding float64, rate *changerates.ChangeRate) Totals {
	var t Totals
	for _, o := range orders {
		t.Net += o.Total
	}
	t.Vat = t.Net * vatRate / 100
	t.Withholding = t.Net * withholding / 100
	t.Gross = t.Net + t.Vat
	t.ToPay = t.Gross - t.Withholding

	if rate != nil && !rate.IsIdentity() {
		t.HasSecondary = true
		t.SecondaryCurrency = rate.CurrencySecondary
		t.GrossSecondary = t.Gross * rate.Rate
		t.ToPaySecondary = t.ToPay * rate.Rate
	}
	return t
}

// apply writes the computed totals onto a document.
func (t Totals) apply(d *Document) {
	d.TotalNet = t.Net
	d.TotalVat = t.Vat
	d.TotalWithholding = t.Withholding
	d.TotalGross = t.Gross
	d.TotalToPay = t.ToPay
	if t.HasSecondary {
		d.SecondaryCurrency = t.SecondaryCurrency
		d.TotalGrossSecondary = t.GrossSecondary
		d.TotalToPaySecondary = t.ToPaySecondary
	} else {
		d.SecondaryCurrency = ""
		d.TotalGrossSecondary = 0
		d.TotalToPaySecondary = 0
	}
}
