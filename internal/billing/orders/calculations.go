package orders

// ItemTotal computes a billable line total from the owning order's unit
// price. Discount is expressed in percentage points (0-100).
func ItemTotal(quantity, pricePerUnit, discountPercent float64) float64 {
	return quantity * pricePerUnit * (1 - discountPercent/100)
}

// OrderTotal sums item totals.
func OrderTotal(items []Item) float64 {
	var total float64
	for _, it := range items {
		total += it.Total
	}
	return total
}
