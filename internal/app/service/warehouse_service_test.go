package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/warehouse-registry/internal/app/dto"
	"github.com/mrops-br/warehouse-registry/internal/app/service"
	"github.com/mrops-br/warehouse-registry/internal/domain"
	"github.com/mrops-br/warehouse-registry/internal/infrastructure/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var now = time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc     *service.WarehouseService
	spans   *tracetest.SpanRecorder
	metrics *sdkmetric.ManualReader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	clock := domain.WithClock(func() time.Time { return now })
	registry := memory.NewWarehouseRegistry("", tp.Tracer("test"), logger, clock)
	svc := service.NewWarehouseService(registry, domain.NewCategoryRegistry(), tp.Tracer("test"), mp.Meter("test"), logger)

	return &fixture{svc: svc, spans: spans, metrics: reader}
}

// counter sums the data points of an Int64 counter matching attrs
func (f *fixture) counter(t *testing.T, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, f.metrics.Collect(context.Background(), &rm))

	want := attribute.NewSet(attrs...)
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				if len(attrs) == 0 || dp.Attributes.Equals(&want) {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func milkRequest(id string) *dto.CreateProductRequest {
	return &dto.CreateProductRequest{
		ID:             id,
		Kind:           "food",
		Name:           "Milk",
		Category:       "dairy",
		Price:          decimal.RequireFromString("15.50"),
		WeightKg:       decimal.RequireFromString("1.0"),
		ExpirationDate: now.AddDate(0, 0, 7).Format(time.DateOnly),
	}
}

func laptopRequest() *dto.CreateProductRequest {
	return &dto.CreateProductRequest{
		Kind:           "electronics",
		Name:           "Laptop",
		Category:       "Electronics",
		Price:          decimal.RequireFromString("1599.99"),
		WeightKg:       decimal.RequireFromString("2.5"),
		WarrantyMonths: 24,
	}
}

func TestWarehouseService_AddAndUpdatePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.NewString()

	added, err := f.svc.AddProduct(ctx, "W", milkRequest(id))
	require.NoError(t, err)
	assert.Equal(t, "15.50", added.Price)

	updated, err := f.svc.UpdateProductPrice(ctx, "W", id, &dto.UpdatePriceRequest{Price: decimal.RequireFromString("17.00")})
	require.NoError(t, err)
	assert.Equal(t, "17.00", updated.Price)

	products, err := f.svc.ListProducts(ctx, "W")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "17.00", products[0].Price)

	changed, err := f.svc.ListChangedProducts(ctx, "W")
	require.NoError(t, err)
	assert.Equal(t, products, changed)

	assert.EqualValues(t, 1, f.counter(t, "products.added.total"))
	assert.EqualValues(t, 1, f.counter(t, "products.price_changes.total"))
	assert.EqualValues(t, 1, f.counter(t, "warehouse.operations",
		attribute.String("operation", "update_price"),
		attribute.String("result", "success"),
	))
}

func TestWarehouseService_AddProduct_Duplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.NewString()

	_, err := f.svc.AddProduct(ctx, "W", milkRequest(id))
	require.NoError(t, err)

	_, err = f.svc.AddProduct(ctx, "W", milkRequest(id))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	products, err := f.svc.ListProducts(ctx, "W")
	require.NoError(t, err)
	assert.Len(t, products, 1)

	assert.EqualValues(t, 1, f.counter(t, "warehouse.operations",
		attribute.String("operation", "add_product"),
		attribute.String("result", "invalid"),
	))
}

func TestWarehouseService_UnknownWarehouseAndProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ListProducts(ctx, "Missing")
	assert.ErrorIs(t, err, domain.ErrWarehouseNotFound)

	_, err = f.svc.EnsureWarehouse(ctx, "W")
	require.NoError(t, err)

	_, err = f.svc.UpdateProductPrice(ctx, "W", uuid.NewString(), &dto.UpdatePriceRequest{Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = f.svc.GetProduct(ctx, "W", uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.GetProduct(ctx, "W", "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	var failed int
	for _, span := range f.spans.Ended() {
		if span.Status().Code == codes.Error {
			failed++
		}
	}
	assert.GreaterOrEqual(t, failed, 4)
}

func TestWarehouseService_RemoveProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.NewString()

	_, err := f.svc.AddProduct(ctx, "W", milkRequest(id))
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveProduct(ctx, "W", uuid.NewString()), "unknown id is a no-op")
	require.NoError(t, f.svc.RemoveProduct(ctx, "W", id))

	summary, err := f.svc.GetWarehouse(ctx, "W")
	require.NoError(t, err)
	assert.True(t, summary.Empty)
}

func TestWarehouseService_Queries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddProduct(ctx, "W", milkRequest(""))
	require.NoError(t, err)
	_, err = f.svc.AddProduct(ctx, "W", laptopRequest())
	require.NoError(t, err)
	expired := milkRequest("")
	expired.Name = "Cheese"
	expired.ExpirationDate = now.AddDate(0, 0, -3).Format(time.DateOnly)
	_, err = f.svc.AddProduct(ctx, "W", expired)
	require.NoError(t, err)

	groups, err := f.svc.GroupByCategory(ctx, "W")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Dairy", groups[0].Category)
	assert.Len(t, groups[0].Products, 2)
	assert.Equal(t, "Electronics", groups[1].Category)
	assert.Len(t, groups[1].Products, 1)

	expiredList, err := f.svc.ListExpiredProducts(ctx, "W")
	require.NoError(t, err)
	require.Len(t, expiredList, 1)
	assert.Equal(t, "Cheese", expiredList[0].Name)

	shippable, err := f.svc.ListShippableProducts(ctx, "W")
	require.NoError(t, err)
	require.Len(t, shippable, 3)
	assert.Equal(t, "50.00", shippable[0].ShippingCost)
	assert.Equal(t, "79.00", shippable[1].ShippingCost)

	filtered, err := f.svc.FilterProducts(ctx, "W", `kind == "food" && !expired`)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Milk", filtered[0].Name)

	_, err = f.svc.FilterProducts(ctx, "W", `price >`)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	summary, err := f.svc.GetWarehouse(ctx, "W")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ProductCount)
	assert.Equal(t, "179.00", summary.TotalShippingCost)
}

func TestWarehouseService_ClearProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.NewString()

	_, err := f.svc.AddProduct(ctx, "W", milkRequest(id))
	require.NoError(t, err)
	_, err = f.svc.UpdateProductPrice(ctx, "W", id, &dto.UpdatePriceRequest{Price: decimal.NewFromInt(20)})
	require.NoError(t, err)

	require.NoError(t, f.svc.ClearProducts(ctx, "W"))

	summary, err := f.svc.GetWarehouse(ctx, "W")
	require.NoError(t, err)
	assert.Equal(t, &dto.WarehouseResponse{Name: "W", Empty: true, TotalShippingCost: "0.00"}, summary)
}

func TestWarehouseService_ListWarehouses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.EnsureWarehouse(ctx, "DemoWarehouse2")
	require.NoError(t, err)
	_, err = f.svc.EnsureWarehouse(ctx, "DemoWarehouse")
	require.NoError(t, err)
	_, err = f.svc.EnsureWarehouse(ctx, "")
	require.NoError(t, err)

	list, err := f.svc.ListWarehouses(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "DefaultWarehouse", list[0].Name)
	assert.Equal(t, "DemoWarehouse", list[1].Name)
	assert.Equal(t, "DemoWarehouse2", list[2].Name)
}
