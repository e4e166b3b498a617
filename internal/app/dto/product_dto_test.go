package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mrops-br/warehouse-registry/internal/app/dto"
	"github.com/mrops-br/warehouse-registry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = func() time.Time { return time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC) }

func TestCreateProductRequest_ToDomain_Food(t *testing.T) {
	var req dto.CreateProductRequest
	body := `{"id":"5f8c1d1e-2b1a-4c1e-9a7f-0a0b0c0d0e0f","kind":"food","name":"Milk",
		"category":"dairy","price":"15.50","weight_kg":1.0,"expiration_date":"2026-10-24"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	p, err := req.ToDomain(domain.NewCategoryRegistry())
	require.NoError(t, err)

	assert.Equal(t, "5f8c1d1e-2b1a-4c1e-9a7f-0a0b0c0d0e0f", p.ID().String())
	assert.Equal(t, domain.KindFood, p.Kind())
	assert.Equal(t, "Dairy", p.Category().Name())
	assert.Equal(t, "15.50", p.Price().StringFixed(2))
}

func TestCreateProductRequest_ToDomain_GeneratesID(t *testing.T) {
	req := dto.CreateProductRequest{Kind: "electronics", Name: "Laptop", Category: "electronics", WarrantyMonths: 24}

	a, err := req.ToDomain(domain.NewCategoryRegistry())
	require.NoError(t, err)
	b, err := req.ToDomain(domain.NewCategoryRegistry())
	require.NoError(t, err)

	assert.NotEqual(t, a.ID(), b.ID())
}

func TestCreateProductRequest_ToDomain_Invalid(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreateProductRequest
	}{
		{"bad id", dto.CreateProductRequest{ID: "nope", Kind: "food", Name: "Milk", Category: "dairy", ExpirationDate: "2026-10-24"}},
		{"unknown kind", dto.CreateProductRequest{Kind: "toy", Name: "Ball", Category: "toys"}},
		{"blank category", dto.CreateProductRequest{Kind: "food", Name: "Milk", Category: " ", ExpirationDate: "2026-10-24"}},
		{"missing expiration", dto.CreateProductRequest{Kind: "food", Name: "Milk", Category: "dairy"}},
		{"negative warranty", dto.CreateProductRequest{Kind: "electronics", Name: "TV", Category: "electronics", WarrantyMonths: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.ToDomain(domain.NewCategoryRegistry())
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestToProductResponse(t *testing.T) {
	categories := domain.NewCategoryRegistry()
	food, err := (&dto.CreateProductRequest{
		Kind: "food", Name: "Milk", Category: "dairy", ExpirationDate: "2026-10-16",
	}).ToDomain(categories)
	require.NoError(t, err)

	resp := dto.ToProductResponse(food, now)

	assert.Equal(t, "food", resp.Kind)
	assert.Equal(t, "2026-10-16", resp.ExpirationDate)
	require.NotNil(t, resp.Expired)
	assert.True(t, *resp.Expired)
	assert.Nil(t, resp.WarrantyMonths)
	assert.Equal(t, "0.00", resp.ShippingCost)
	assert.Equal(t, "Food: Milk, Expires: 2026-10-16", resp.Details)
}

func TestToWarehouseResponse(t *testing.T) {
	w := domain.NewWarehouse("W")

	resp := dto.ToWarehouseResponse(w)

	assert.Equal(t, &dto.WarehouseResponse{Name: "W", Empty: true, TotalShippingCost: "0.00"}, resp)
}
