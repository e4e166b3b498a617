package dto

import (
	"github.com/mrops-br/warehouse-registry/internal/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents the request to add a product to a warehouse.
// ID is optional; a random UUID is assigned when it is empty.
type CreateProductRequest struct {
	ID             string          `json:"id,omitempty"`
	Kind           string          `json:"kind"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Price          decimal.Decimal `json:"price"`
	WeightKg       decimal.Decimal `json:"weight_kg"`
	ExpirationDate string          `json:"expiration_date,omitempty"`
	WarrantyMonths int             `json:"warranty_months,omitempty"`
}

// UpdatePriceRequest represents the request to change a product price
type UpdatePriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID             string `json:"id"`
	Kind           string `json:"kind"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Price          string `json:"price"`
	WeightKg       string `json:"weight_kg"`
	Details        string `json:"details"`
	ExpirationDate string `json:"expiration_date,omitempty"`
	Expired        *bool  `json:"expired,omitempty"`
	WarrantyMonths *int   `json:"warranty_months,omitempty"`
	ShippingCost   string `json:"shipping_cost,omitempty"`
}

// CategoryGroupResponse is one category bucket
type CategoryGroupResponse struct {
	Category string             `json:"category"`
	Products []*ProductResponse `json:"products"`
}

// WarehouseResponse summarizes a warehouse
type WarehouseResponse struct {
	Name              string `json:"name"`
	Empty             bool   `json:"empty"`
	ProductCount      int    `json:"product_count"`
	ChangedCount      int    `json:"changed_count"`
	TotalShippingCost string `json:"total_shipping_cost"`
}

// ToProductResponse converts a domain Product to ProductResponse. now decides
// the expired flag of perishable products.
func ToProductResponse(p *domain.Product, now Clock) *ProductResponse {
	resp := &ProductResponse{
		ID:       p.ID().String(),
		Kind:     p.Kind().String(),
		Name:     p.Name(),
		Category: p.Category().Name(),
		Price:    p.Price().StringFixed(2),
		WeightKg: p.Weight().String(),
		Details:  p.Details(),
	}
	if v, ok := p.Perishable(); ok {
		expired := v.IsExpiredAt(now())
		resp.ExpirationDate = v.ExpirationDate().Format(dateLayout)
		resp.Expired = &expired
	}
	if months, ok := p.WarrantyMonths(); ok {
		resp.WarrantyMonths = &months
	}
	if v, ok := p.Shippable(); ok {
		resp.ShippingCost = v.ShippingCost().StringFixed(2)
	}
	return resp
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []*domain.Product, now Clock) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p, now)
	}
	return responses
}

// ToCategoryGroupResponseList keeps the group order of the warehouse
func ToCategoryGroupResponseList(groups []domain.CategoryGroup, now Clock) []*CategoryGroupResponse {
	responses := make([]*CategoryGroupResponse, len(groups))
	for i, g := range groups {
		responses[i] = &CategoryGroupResponse{
			Category: g.Category.Name(),
			Products: ToProductResponseList(g.Products, now),
		}
	}
	return responses
}

// ToWarehouseResponse converts a domain Warehouse to WarehouseResponse
func ToWarehouseResponse(w *domain.Warehouse) *WarehouseResponse {
	count := w.Len()
	return &WarehouseResponse{
		Name:              w.Name(),
		Empty:             count == 0,
		ProductCount:      count,
		ChangedCount:      len(w.ChangedProducts()),
		TotalShippingCost: w.TotalShippingCost().StringFixed(2),
	}
}
