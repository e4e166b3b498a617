package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/mrops-br/warehouse-registry/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// WarehouseRegistry is an in-memory implementation of domain.WarehouseRegistry
type WarehouseRegistry struct {
	mu          sync.RWMutex
	warehouses  map[string]*domain.Warehouse
	defaultName string
	options     []domain.WarehouseOption
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewWarehouseRegistry creates a new in-memory warehouse registry. An empty
// defaultName falls back to domain.DefaultWarehouseName; opts are applied to
// every warehouse the registry creates.
func NewWarehouseRegistry(
	defaultName string,
	tracer trace.Tracer,
	logger *slog.Logger,
	opts ...domain.WarehouseOption,
) *WarehouseRegistry {
	if defaultName == "" {
		defaultName = domain.DefaultWarehouseName
	}
	return &WarehouseRegistry{
		warehouses:  make(map[string]*domain.Warehouse),
		defaultName: defaultName,
		options:     opts,
		tracer:      tracer,
		logger:      logger,
	}
}

// GetInstance returns the named warehouse, creating it on first request
func (r *WarehouseRegistry) GetInstance(ctx context.Context, name string) *domain.Warehouse {
	ctx, span := r.tracer.Start(ctx, "WarehouseRegistry.GetInstance")
	defer span.End()

	if name == "" {
		name = r.defaultName
	}
	span.SetAttributes(attribute.String("warehouse.name", name))

	r.mu.RLock()
	w, exists := r.warehouses[name]
	r.mu.RUnlock()
	if exists {
		span.SetStatus(codes.Ok, "Warehouse found")
		return w
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another request may have created it between the two locks
	if w, exists := r.warehouses[name]; exists {
		span.SetStatus(codes.Ok, "Warehouse found")
		return w
	}

	w = domain.NewWarehouse(name, r.options...)
	r.warehouses[name] = w

	r.logger.InfoContext(ctx, "Warehouse registered",
		slog.String("warehouse", name),
	)

	span.SetAttributes(attribute.Bool("warehouse.created", true))
	span.SetStatus(codes.Ok, "Warehouse created")
	return w
}

// Default returns the default warehouse
func (r *WarehouseRegistry) Default(ctx context.Context) *domain.Warehouse {
	return r.GetInstance(ctx, r.defaultName)
}

// Lookup retrieves a registered warehouse without creating it
func (r *WarehouseRegistry) Lookup(ctx context.Context, name string) (*domain.Warehouse, error) {
	ctx, span := r.tracer.Start(ctx, "WarehouseRegistry.Lookup")
	defer span.End()

	if name == "" {
		name = r.defaultName
	}
	span.SetAttributes(attribute.String("warehouse.name", name))

	r.mu.RLock()
	defer r.mu.RUnlock()

	w, exists := r.warehouses[name]
	if !exists {
		span.RecordError(domain.ErrWarehouseNotFound)
		span.SetStatus(codes.Error, "Warehouse not found")
		r.logger.WarnContext(ctx, "Warehouse not found",
			slog.String("warehouse", name),
		)
		return nil, domain.ErrWarehouseNotFound
	}

	span.SetStatus(codes.Ok, "Warehouse found")
	return w, nil
}

// Names lists the registered warehouse names in lexical order
func (r *WarehouseRegistry) Names(ctx context.Context) []string {
	ctx, span := r.tracer.Start(ctx, "WarehouseRegistry.Names")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.warehouses))
	for name := range r.warehouses {
		names = append(names, name)
	}
	sort.Strings(names)

	span.SetAttributes(attribute.Int("warehouse.count", len(names)))

	r.logger.DebugContext(ctx, "Warehouses listed",
		slog.Int("count", len(names)),
	)

	span.SetStatus(codes.Ok, "Warehouses listed")
	return names
}
