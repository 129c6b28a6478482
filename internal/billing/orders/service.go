package orders

import (
	"context"
	"errors"
	"fmt"
)

// ErrOrderBilled rejects destructive changes to an order claimed by an
// active invoice.
var ErrOrderBilled = errors.New("order is billed by an active document")

// Service handles the work-unit ledger business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create records a new unbilled order with its items. Item totals and the
// order total are derived here; caller-supplied totals are ignored.
func (s *Service) Create(ctx context.Context, ownerID int64, req CreateOrderRequest) (*Order, error) {
	order := Order{
		OwnerID:      ownerID,
		CompanyID:    req.CompanyID,
		Description:  req.Description,
		OrderDate:    req.OrderDate,
		PricePerUnit: req.PricePerUnit,
		UnitLabel:    req.UnitLabel,
	}

	items := buildItems(req.Items, req.PricePerUnit)
	order.Total = OrderTotal(items)

	var orderID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err := repo.Create(ctx, order)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		orderID = id
		for _, item := range items {
			item.OrderID = orderID
			if _, err := repo.InsertItem(ctx, item); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, ownerID, orderID)
}

// Update patches order fields and, when items are supplied, replaces the
// item set. The order total is recomputed from the effective items and unit
// price so that total == sum of item totals always holds.
func (s *Service) Update(ctx context.Context, ownerID, id int64, req UpdateOrderRequest) (*Order, error) {
	existing, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	pricePerUnit := existing.PricePerUnit
	if req.PricePerUnit != nil {
		pricePerUnit = *req.PricePerUnit
	}

	var items []Item
	if req.Items != nil {
		items = buildItems(*req.Items, pricePerUnit)
	} else {
		// Re-derive retained items against the effective unit price.
		for i, it := range existing.Items {
			it.Total = ItemTotal(it.Quantity, pricePerUnit, it.DiscountPercent)
			it.LineOrder = i + 1
			items = append(items, it)
		}
	}

	updates := map[string]interface{}{
		"total": OrderTotal(items),
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.OrderDate != nil {
		updates["order_date"] = *req.OrderDate
	}
	if req.PricePerUnit != nil {
		updates["price_per_unit"] = *req.PricePerUnit
	}
	if req.UnitLabel != nil {
		updates["unit_label"] = *req.UnitLabel
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.Update(ctx, ownerID, id, updates); err != nil {
			return err
		}
		if err := repo.DeleteItems(ctx, id); err != nil {
			return err
		}
		for i, item := range items {
			item.ID = 0
			item.OrderID = id
			if item.LineOrder == 0 {
				item.LineOrder = i + 1
			}
			if _, err := repo.InsertItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return s.repo.Get(ctx, ownerID, id)
}

// Delete destroys an order and its items. Orders claimed by an active
// invoice cannot be deleted.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	existing, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if existing.Billed {
		return ErrOrderBilled
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.DeleteItems(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, ownerID, id)
	})
}

func (s *Service) Get(ctx context.Context, ownerID, id int64) (*Order, error) {
	return s.repo.Get(ctx, ownerID, id)
}

func (s *Service) List(ctx context.Context, ownerID int64, req ListOrdersRequest) ([]Order, int, error) {
	return s.repo.List(ctx, ownerID, req)
}

func buildItems(reqs []CreateItemRequest, pricePerUnit float64) []Item {
	var items []Item
	for i, lineReq := range reqs {
		items = append(items, Item{
			Description:     lineReq.Description,
			Quantity:        lineReq.Quantity,
			DiscountPercent: lineReq.DiscountPercent,
			Total:           ItemTotal(lineReq.Quantity, pricePerUnit, lineReq.DiscountPercent),
			LineOrder:       i + 1,
		})
	}
	return items
}
