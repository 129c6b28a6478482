package documents

// validateOrdersForBilling enforces the double-billing guard. Every order
// must belong to the counter-party company, and a billed order is only
// acceptable when it already belongs to the parent document being amended,
// so an amendment can re-bill its predecessor's orders without tripping the
// guard.
func validateOrdersForBilling(companyID int64, orders []BillableOrder, parent *Document) error {
	var parentOrders map[int64]struct{}
	if parent != nil {
		parentOrders = make(map[int64]struct{}, len(parent.OrderIDs))
		for _, id := range parent.OrderIDs {
			parentOrders[id] = struct{}{}
		}
	}

	for _, o := range orders {
		if o.CompanyID != companyID {
			return ErrOrderWrongCompany
		}
		if !o.Billed {
			continue
		}
		if _, ok := parentOrders[o.ID]; !ok {
			return ErrOrderAlreadyBilled
		}
	}
	return nil
}
