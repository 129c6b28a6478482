package orders

import "time"

type CreateOrderRequest struct {
	CompanyID    int64              `json:"company_id" validate:"required,gt=0"`
	Description  string             `json:"description" validate:"required,max=255"`
	OrderDate    time.Time          `json:"order_date" validate:"required"`
	PricePerUnit float64            `json:"price_per_unit" validate:"gte=0"`
	UnitLabel    string             `json:"unit_label" validate:"required,max=20"`
	Items        []CreateItemRequest `json:"items" validate:"omitempty,dive"`
}

type CreateItemRequest struct {
	Description     string  `json:"description" validate:"required,max=255"`
	Quantity        float64 `json:"quantity" validate:"required,gt=0"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
}

type UpdateOrderRequest struct {
	Description  *string              `json:"description,omitempty" validate:"omitempty,max=255"`
	OrderDate    *time.Time           `json:"order_date,omitempty"`
	PricePerUnit *float64             `json:"price_per_unit,omitempty" validate:"omitempty,gte=0"`
	UnitLabel    *string              `json:"unit_label,omitempty" validate:"omitempty,max=20"`
	Items        *[]CreateItemRequest `json:"items,omitempty" validate:"omitempty,dive"`
}

type ListOrdersRequest struct {
	CompanyID *int64 `json:"company_id,omitempty"`
	Billed    *bool  `json:"billed,omitempty"`
	Limit     int    `json:"limit" validate:"gte=0,lte=1000"`
	Offset    int    `json:"offset" validate:"gte=0"`
}
