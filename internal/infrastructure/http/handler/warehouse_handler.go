package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/warehouse-registry/internal/app/dto"
	"github.com/mrops-br/warehouse-registry/internal/app/service"
	"github.com/mrops-br/warehouse-registry/internal/infrastructure/http/response"
)

// WarehouseHandler handles HTTP requests for warehouses and their products
type WarehouseHandler struct {
	service *service.WarehouseService
	logger  *slog.Logger
}

// NewWarehouseHandler creates a new warehouse handler
func NewWarehouseHandler(service *service.WarehouseService, logger *slog.Logger) *WarehouseHandler {
	return &WarehouseHandler{
		service: service,
		logger:  logger,
	}
}

// ListWarehouses handles GET /warehouses
func (h *WarehouseHandler) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.service.ListWarehouses(r.Context())
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, warehouses)
}

// EnsureWarehouse handles PUT /warehouses/{name}
func (h *WarehouseHandler) EnsureWarehouse(w http.ResponseWriter, r *http.Request) {
	warehouse, err := h.service.EnsureWarehouse(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, warehouse)
}

// GetWarehouse handles GET /warehouses/{name}
func (h *WarehouseHandler) GetWarehouse(w http.ResponseWriter, r *http.Request) {
	warehouse, err := h.service.GetWarehouse(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, warehouse)
}

// AddProduct handles POST /warehouses/{name}/products
func (h *WarehouseHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	product, err := h.service.AddProduct(r.Context(), chi.URLParam(r, "name"), &req)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, product)
}

// ListProducts handles GET /warehouses/{name}/products and its ?filter= form
func (h *WarehouseHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var (
		products []*dto.ProductResponse
		err      error
	)
	if expr := r.URL.Query().Get("filter"); expr != "" {
		products, err = h.service.FilterProducts(r.Context(), name, expr)
	} else {
		products, err = h.service.ListProducts(r.Context(), name)
	}
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// ClearProducts handles DELETE /warehouses/{name}/products
func (h *WarehouseHandler) ClearProducts(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearProducts(r.Context(), chi.URLParam(r, "name")); err != nil {
		response.DomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetProduct handles GET /warehouses/{name}/products/{id}
func (h *WarehouseHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "id"))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// RemoveProduct handles DELETE /warehouses/{name}/products/{id}
func (h *WarehouseHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveProduct(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "id")); err != nil {
		response.DomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateProductPrice handles PUT /warehouses/{name}/products/{id}/price
func (h *WarehouseHandler) UpdateProductPrice(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	product, err := h.service.UpdateProductPrice(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "id"), &req)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// ListChangedProducts handles GET /warehouses/{name}/changed
func (h *WarehouseHandler) ListChangedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListChangedProducts(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// GroupByCategory handles GET /warehouses/{name}/categories
func (h *WarehouseHandler) GroupByCategory(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.GroupByCategory(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, groups)
}

// ListExpiredProducts handles GET /warehouses/{name}/expired
func (h *WarehouseHandler) ListExpiredProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListExpiredProducts(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// ListShippableProducts handles GET /warehouses/{name}/shippable
func (h *WarehouseHandler) ListShippableProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListShippableProducts(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}
