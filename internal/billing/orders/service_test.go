package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	orders map[int64]*Order
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[int64]*Order), nextID: 0}
}

func (f *fakeRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, f)
}

func (f *fakeRepo) Get(ctx context.Context, ownerID, id int64) (*Order, error) {
	o, ok := f.orders[id]
	if !ok || o.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	cp := *o
	cp.Items = append([]Item(nil), o.Items...)
	return &cp, nil
}

func (f *fakeRepo) List(ctx context.Context, ownerID int64, req ListOrdersRequest) ([]Order, int, error) {
	var out []Order
	for _, o := range f.orders {
		if o.OwnerID != ownerID {
			continue
		}
		if req.Billed != nil && o.Billed != *req.Billed {
			continue
		}
		if req.CompanyID != nil && o.CompanyID != *req.CompanyID {
			continue
		}
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Create(ctx context.Context, o Order) (int64, error) {
	f.nextID++
	o.ID = f.nextID
	f.orders[o.ID] = &o
	return o.ID, nil
}

func (f *fakeRepo) Update(ctx context.Context, ownerID, id int64, updates map[string]interface{}) error {
	o, ok := f.orders[id]
	if !ok || o.OwnerID != ownerID {
		return ErrNotFound
	}
	for col, v := range updates {
		switch col {
		case "description":
			o.Description = v.(string)
		case "order_date":
			o.OrderDate = v.(time.Time)
		case "price_per_unit":
			o.PricePerUnit = v.(float64)
		case "unit_label":
			o.UnitLabel = v.(string)
		case "total":
			o.Total = v.(float64)
		case "billed":
			o.Billed = v.(bool)
		}
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, ownerID, id int64) error {
	o, ok := f.orders[id]
	if !ok || o.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeRepo) InsertItem(ctx context.Context, item Item) (int64, error) {
	o, ok := f.orders[item.OrderID]
	if !ok {
		return 0, ErrNotFound
	}
	item.ID = int64(len(o.Items) + 1)
	o.Items = append(o.Items, item)
	return item.ID, nil
}

func (f *fakeRepo) DeleteItems(ctx context.Context, orderID int64) error {
	if o, ok := f.orders[orderID]; ok {
		o.Items = nil
	}
	return nil
}

func createRequest() CreateOrderRequest {
	return CreateOrderRequest{
		CompanyID:    2,
		Description:  "march work",
		OrderDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PricePerUnit: 0.05,
		UnitLabel:    "words",
		Items: []CreateItemRequest{
			{Description: "article a", Quantity: 750},
			{Description: "article b", Quantity: 625, DiscountPercent: 20},
			{Description: "article c", Quantity: 2500, DiscountPercent: 50},
		},
	}
}

func TestCreateDerivesTotals(t *testing.T) {
	svc := NewService(newFakeRepo())

	order, err := svc.Create(context.Background(), 1, createRequest())
	require.NoError(t, err)

	require.Len(t, order.Items, 3)
	require.InDelta(t, 37.50, order.Items[0].Total, 0.001)
	require.InDelta(t, 25.00, order.Items[1].Total, 0.001)
	require.InDelta(t, 62.50, order.Items[2].Total, 0.001)
	require.InDelta(t, 125.00, order.Total, 0.001)
	require.False(t, order.Billed)
}

func TestUpdateRecomputesAgainstNewUnitPrice(t *testing.T) {
	svc := NewService(newFakeRepo())

	order, err := svc.Create(context.Background(), 1, createRequest())
	require.NoError(t, err)

	// Doubling the unit price doubles every line and the order total.
	price := 0.10
	updated, err := svc.Update(context.Background(), 1, order.ID, UpdateOrderRequest{PricePerUnit: &price})
	require.NoError(t, err)
	require.InDelta(t, 250.00, updated.Total, 0.001)
	require.InDelta(t, 75.00, updated.Items[0].Total, 0.001)
}

func TestUpdateReplacesItemSet(t *testing.T) {
	svc := NewService(newFakeRepo())

	order, err := svc.Create(context.Background(), 1, createRequest())
	require.NoError(t, err)

	items := []CreateItemRequest{{Description: "single line", Quantity: 100}}
	updated, err := svc.Update(context.Background(), 1, order.ID, UpdateOrderRequest{Items: &items})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	require.InDelta(t, 5.00, updated.Total, 0.001)
}

func TestDeleteRejectsBilledOrder(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	order, err := svc.Create(context.Background(), 1, createRequest())
	require.NoError(t, err)
	repo.orders[order.ID].Billed = true

	require.ErrorIs(t, svc.Delete(context.Background(), 1, order.ID), ErrOrderBilled)

	repo.orders[order.ID].Billed = false
	require.NoError(t, svc.Delete(context.Background(), 1, order.ID))
	_, err = svc.Get(context.Background(), 1, order.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOwnerScoping(t *testing.T) {
	svc := NewService(newFakeRepo())

	order, err := svc.Create(context.Background(), 1, createRequest())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 99, order.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
