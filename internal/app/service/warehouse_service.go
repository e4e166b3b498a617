package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mrops-br/warehouse-registry/internal/app/dto"
	"github.com/mrops-br/warehouse-registry/internal/app/query"
	"github.com/mrops-br/warehouse-registry/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// WarehouseService handles warehouse use cases
type WarehouseService struct {
	registry            domain.WarehouseRegistry
	categories          *domain.CategoryRegistry
	tracer              trace.Tracer
	logger              *slog.Logger
	productsAdded       metric.Int64Counter
	priceChanges        metric.Int64Counter
	warehouseOperations metric.Int64Counter
}

// NewWarehouseService creates a new warehouse service
func NewWarehouseService(
	registry domain.WarehouseRegistry,
	categories *domain.CategoryRegistry,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *WarehouseService {
	// Initialize metrics
	productsAdded, _ := meter.Int64Counter(
		"products.added.total",
		metric.WithDescription("Total number of products added to warehouses"),
	)

	priceChanges, _ := meter.Int64Counter(
		"products.price_changes.total",
		metric.WithDescription("Total number of product price updates"),
	)

	warehouseOperations, _ := meter.Int64Counter(
		"warehouse.operations",
		metric.WithDescription("Total number of warehouse operations"),
	)

	return &WarehouseService{
		registry:            registry,
		categories:          categories,
		tracer:              tracer,
		logger:              logger,
		productsAdded:       productsAdded,
		priceChanges:        priceChanges,
		warehouseOperations: warehouseOperations,
	}
}

// EnsureWarehouse returns the named warehouse, registering it if needed
func (s *WarehouseService) EnsureWarehouse(ctx context.Context, name string) (*dto.WarehouseResponse, error) {
	ctx, span := s.tracer.Start(ctx, "WarehouseService.EnsureWarehouse")
	defer span.End()

	w := s.registry.GetInstance(ctx, name)
	span.SetAttributes(attribute.String("warehouse.name", w.Name()))

	s.finish(ctx, span, "ensure_warehouse", nil)
	return dto.ToWarehouseResponse(w), nil
}

// GetWarehouse summarizes a registered warehouse
func (s *WarehouseService) GetWarehouse(ctx context.Context, name string) (*dto.WarehouseResponse, error) {
	ctx, span := s.tracer.Start(ctx, "WarehouseService.GetWarehouse")
	defer span.End()

	w, err := s.lookup(ctx, span, name)
	if err != nil {
		s.finish(ctx, span, "get_warehouse", err)
		return nil, err
	}

	s.finish(ctx, span, "get_warehouse", nil)
	return dto.ToWarehouseResponse(w), nil
}

// ListWarehouses summarizes every registered warehouse
func (s *WarehouseService) ListWarehouses(ctx context.Context) ([]*dto.WarehouseResponse, error) {
	ctx, span := s.tracer.Start(ctx, "WarehouseService.ListWarehouses")
	defer span.End()

	names := s.registry.Names(ctx)
	responses := make([]*dto.WarehouseResponse, 0, len(names))
	for _, name := range names {
		w, err := s.registry.Lookup(ctx, name)
		if err != nil {
			s.finish(ctx, span, "list_warehouses", err)
			return nil, err
		}
		responses = append(responses, dto.ToWarehouseResponse(w))
	}

	span.SetAttributes(attribute.Int("warehouse.count", len(responses)))
	s.finish(ctx, span, "list_warehouses", nil)
	return responses, nil
}

// AddProduct creates a product and stores it in the named warehouse. The
// warehouse is registered on first use.
func (s *WarehouseService) AddProduct(ctx context.Context, warehouse string, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "WarehouseService.AddProduct")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.name", req.Name),
		attribute.String("product.kind", req.Kind),
		attribute.String("product.category", req.Category),
	)

	s.logger.InfoContext(ctx, "Adding product",
		slog.String("warehouse", warehouse),
		slog.String("name", req.Name),
		slog.String("kind", req.Kind),
	)

	// Create domain entity
	product, err := req.ToDomain(s.categories)
	if err != nil {
		s.finish(ctx, span, "add_product", err)
		return nil, err
	}

	span.SetAttributes(attribute.String("product.id", product.ID().String()))

	w := s.registry.GetInstance(ctx, warehouse)
	span.SetAttributes(attribute.String("warehouse.name", w.Name()))

	if err := w.AddProduct(product); err != nil {
		s.finish(ctx, span, "add_product", err)
		return nil, err
	}

	s.productsAdded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("product.kind", product.Kind().String()),
	))

	s.logger.InfoContext(ctx, "Product added successfully",
		slog.String("warehouse", w.Name()),
		slog.String("product_id", product.ID().String()),
	)

	s.finish(ctx, span, "add_product", nil)
	return dto.ToProductResponse(product, w.Now), nil
}

// RemoveProduct deletes a product. Removing an unknown product is not an error.
func (s *WarehouseService) RemoveProduct(ctx context.Context, warehouse string, id string) error {
	ctx, span := s.tracer.Start(ctx, "WarehouseService.RemoveProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	productID, err := parseProductID(id)
	if err != nil {
		s.finish(ctx, span, "remove_product", err)
		return err
	}

	w, err := s.lookup(ctx, span, warehouse)
	if err != nil {
		s.finish(ctx, span, "remove_product", err)
		return err
	}

	before := w.Len()
	w.Remove(productID)
	removed := before != w.Len()
	span.SetAttributes(attribute.Bool("product.removed", removed))

	s.logger.InfoContext(ctx, "Product removal processed",
		slog.String("warehouse", w.Name()),
		slog.String("product_id", id),
		slog.Bool("removed", removed),
	)

	s.finish(ctx, span, "remove_product", nil)
	return nil
}

// UpdateProductPrice changes a product price and marks it as changed
func (s *WarehouseService) UpdateProductPrice(ctx context.Context, warehouse string, id string, req *dto.UpdatePriceRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "WarehouseService.UpdateProductPrice")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", id),
		attribute.String("product.price", req.Price.String()),
	)

	productID, err := parseProductID(id)
	if err != nil {
		s.finish(ctx, span, "update_price", err)
		return nil, err
	}

	w, err := s.lookup(ctx, span, warehouse)
	if err != nil {
		s.finish(ctx, span, "update_price", err)
		return nil, err
	}

	if err := w.UpdateProductPrice(productID, req.Price); err != nil {
		s.finish(ctx, span, "update_price", err)
		return nil, err
	}

	product, _ := w.ProductByID(productID)
	s.priceChanges.Add(ctx, 1)

	s.logger.InfoContext(ctx, "Product price updated",
		slog.String("warehouse", w.Name()),
		slog.String("product_id", id),
		slog.String("price", req.Price.String()),
	)

	s.finish(ctx, span, "update_price", nil)
	return dto.ToProductResponse(product, w.Now), nil
}

// GetProduct retrieves a product by ID
func (s *WarehouseService) GetProduct(ctx context.Context, warehouse string, id string) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "WarehouseService.GetProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	productID, err := parseProductID(id)
	if err != nil {
		s.finish(ctx, span, "get_product", err)
		return nil, err
	}

	w, err := s.lookup(ctx, span, warehouse)
	if err != nil {
		s.finish(ctx, span, "get_product", err)
		return nil, err
	}

	product, ok := w.ProductByID(productID)
	if !ok {
		s.finish(ctx, span, "get_product", domain.ErrProductNotFound)
		return nil, domain.ErrProductNotFound
	}

	s.finish(ctx, span, "get_product", nil)
	return dto.ToProductResponse(product, w.Now), nil
}

// ListProducts retrieves all products in insertion order
func (s *WarehouseService) ListProducts(ctx context.Context, warehouse string) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "WarehouseService.ListProducts")
	defer span.End()

	w, err := s.lookup(ctx, span, warehouse)
	if err != nil {
		s.finish(ctx, span, "list_products", err)
		return nil, err
	}

	products := w.Products()
	span.SetAttributes(attribute.Int("product.count", len(products)))

	s.finish(ctx, span, "list_products", nil)
	return dto.ToProductResponseList(products, w.Now), nil
}

// FilterProducts retrieves the products matching a CEL expression
func (s *WarehouseService) FilterProducts(ctx context.Context, warehouse string, expr string) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "WarehouseService.FilterProducts")
	defer span.End()

	span.SetAttributes(attribute.String("filter.expression", expr))

	filter, err := query.Compile(expr)
	if err != nil {
		s.finish(ctx, span, "filter_products", err)
		return nil, err
	}

	w, err := s.lookup(ctx, span, warehouse)
	if err != nil {
		s.finish(ctx, span, "filter_products", err)
		return nil, err
	}

	products, err := filter.Select(w.Products(), w.Now())
	if err != nil {
		s.finish(ctx, span, "filter_products", err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("product.count", len(products)))

	s.finish(ctx, span, "filter_products", nil)
	return dto.ToProductResponseList(products, w.Now), nil
}

// ListChangedProducts retrieves the products whose price was updated
func (s *WarehouseService) ListChangedProducts(ctx context.Context, warehouse string) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "WarehouseService.ListChangedProducts")
	defer span.End()

	w, err := s.lookup(ctx, span, warehouse)
	if err != nil {
		s.finish(ctx, span, "list_changed", err)
		return nil, err
	}

	changed := w.ChangedProducts()
	span.SetAttributes(attribute.Int("product.count", len(changed)))

	s.finish(ctx, span, "list_changed", nil)
	return dto.ToProductResponseList(changed, w.Now), nil
}

// GroupByCategory buckets the products by category
func (s *WarehouseService) GroupByCategory(ctx context.Context, warehouse string) ([]*dto.CategoryGroupResponse, error) {
	ctx, span := s.tracer.Start(ctx, "WarehouseService.GroupByCategory")
	defer span.End()

	w, err := s.lookup(ctx, span, warehouse)
	if err != nil {
		s.finish(ctx, span, "group_by_category", err)
		return nil, err
	}

	groups := w.ProductsGroupedByCategories()
	span.SetAttributes(attribute.Int("category.count", len(groups)))

	s.finish(ctx, span, "group_by_category", nil)
	return dto.ToCategoryGroupResponseList(groups, w.Now), nil
}

// ListExpiredProducts retrieves the perishable products past their date
func (s *WarehouseService) ListExpiredProducts(ctx context.Context, warehouse string) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "WarehouseService.ListExpiredProducts")
	defer span.End()

	w, err := s.lookup(ctx, span, warehouse)
	if err != nil {
		s.finish(ctx, span, "list_expired", err)
		return nil, err
	}

	expired := w.ExpiredProducts()
	products := make([]*domain.Product, len(expired))
	for i, v := range expired {
		products[i] = v.Product()
	}
	span.SetAttributes(attribute.Int("product.count", len(products)))

	if len(products) > 0 {
		s.logger.WarnContext(ctx, "Warehouse holds expired products",
			slog.String("warehouse", w.Name()),
			slog.Int("count", len(products)),
		)
	}

	s.finish(ctx, span, "list_expired", nil)
	return dto.ToProductResponseList(products, w.Now), nil
}

// ListShippableProducts retrieves the shippable products with their cost
func (s *WarehouseService) ListShippableProducts(ctx context.Context, warehouse string) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "WarehouseService.ListShippableProducts")
	defer span.End()

	w, err := s.lookup(ctx, span, warehouse)
	if err != nil {
		s.finish(ctx, span, "list_shippable", err)
		return nil, err
	}

	shippable := w.ShippableProducts()
	products := make([]*domain.Product, len(shippable))
	for i, v := range shippable {
		products[i] = v.Product()
	}
	span.SetAttributes(attribute.Int("product.count", len(products)))

	s.finish(ctx, span, "list_shippable", nil)
	return dto.ToProductResponseList(products, w.Now), nil
}

// ClearProducts empties a warehouse
func (s *WarehouseService) ClearProducts(ctx context.Context, warehouse string) error {
	ctx, span := s.tracer.Start(ctx, "WarehouseService.ClearProducts")
	defer span.End()

	w, err := s.lookup(ctx, span, warehouse)
	if err != nil {
		s.finish(ctx, span, "clear_products", err)
		return err
	}

	cleared := w.Len()
	w.ClearProducts()
	span.SetAttributes(attribute.Int("product.count", cleared))

	s.logger.InfoContext(ctx, "Warehouse cleared",
		slog.String("warehouse", w.Name()),
		slog.Int("count", cleared),
	)

	s.finish(ctx, span, "clear_products", nil)
	return nil
}

func (s *WarehouseService) lookup(ctx context.Context, span trace.Span, name string) (*domain.Warehouse, error) {
	w, err := s.registry.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("warehouse.name", w.Name()))
	return w, nil
}

// finish records the outcome of an operation on the span, the operations
// counter and, for failures, the log.
func (s *WarehouseService) finish(ctx context.Context, span trace.Span, operation string, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		result = "not_found"
	case errors.Is(err, domain.ErrInvalidArgument):
		result = "invalid"
	default:
		result = "failure"
	}

	s.warehouseOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		level := slog.LevelWarn
		if result == "failure" {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "Warehouse operation failed",
			slog.String("operation", operation),
			slog.String("result", result),
			slog.String("error", err.Error()),
		)
		return
	}

	span.SetStatus(codes.Ok, "")
}

func parseProductID(id string) (uuid.UUID, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errors.Join(domain.ErrInvalidArgument, err)
	}
	return productID, nil
}
