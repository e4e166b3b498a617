package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/warehouse-registry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

func TestWarehouse_AddProduct(t *testing.T) {
	w := domain.NewWarehouse("W")
	milk := newFood(t, "Milk", fixedNow.AddDate(0, 0, 7), "1.0")
	laptop := newElectronics(t, "Laptop", "2.5")

	require.NoError(t, w.AddProduct(milk))
	require.NoError(t, w.AddProduct(laptop))

	assert.Equal(t, []*domain.Product{milk, laptop}, w.Products())
	assert.False(t, w.IsEmpty())
	assert.Equal(t, 2, w.Len())
}

func TestWarehouse_AddProduct_Rejects(t *testing.T) {
	w := domain.NewWarehouse("W")
	milk := newFood(t, "Milk", fixedNow, "1.0")
	require.NoError(t, w.AddProduct(milk))

	t.Run("nil product", func(t *testing.T) {
		err := w.AddProduct(nil)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Equal(t, 1, w.Len())
	})

	t.Run("duplicate id", func(t *testing.T) {
		duplicate, err := domain.NewFoodProduct(milk.ID(), "Duplicate Milk", milk.Category(), dec("16.00"), fixedNow, dec("1.0"))
		require.NoError(t, err)

		err = w.AddProduct(duplicate)
		assert.ErrorIs(t, err, domain.ErrDuplicateProductID)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Equal(t, []*domain.Product{milk}, w.Products())
	})
}

func TestWarehouse_Products_ReturnsCopy(t *testing.T) {
	w := domain.NewWarehouse("W")
	require.NoError(t, w.AddProduct(newFood(t, "Milk", fixedNow, "1.0")))

	products := w.Products()
	products[0] = nil

	assert.NotNil(t, w.Products()[0])
}

func TestWarehouse_Remove(t *testing.T) {
	w := domain.NewWarehouse("W")
	milk := newFood(t, "Milk", fixedNow, "1.0")
	apple := newFood(t, "Apple", fixedNow, "0.5")
	require.NoError(t, w.AddProduct(milk))
	require.NoError(t, w.AddProduct(apple))

	w.Remove(uuid.New())
	assert.Equal(t, 2, w.Len(), "unknown id is a no-op")

	w.Remove(milk.ID())
	assert.Equal(t, []*domain.Product{apple}, w.Products())

	_, ok := w.ProductByID(milk.ID())
	assert.False(t, ok)
}

func TestWarehouse_Remove_KeepsChangedProducts(t *testing.T) {
	w := domain.NewWarehouse("W")
	milk := newFood(t, "Milk", fixedNow, "1.0")
	require.NoError(t, w.AddProduct(milk))
	require.NoError(t, w.UpdateProductPrice(milk.ID(), dec("17.00")))

	w.Remove(milk.ID())

	assert.Equal(t, []*domain.Product{milk}, w.ChangedProducts())
}

func TestWarehouse_UpdateProductPrice(t *testing.T) {
	w := domain.NewWarehouse("W")
	milk := newFood(t, "Milk", fixedNow, "1.0")
	require.NoError(t, w.AddProduct(milk))

	err := w.UpdateProductPrice(uuid.New(), dec("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Empty(t, w.ChangedProducts())

	require.NoError(t, w.UpdateProductPrice(milk.ID(), dec("17.00")))
	require.NoError(t, w.UpdateProductPrice(milk.ID(), dec("18.00")))

	assert.True(t, dec("18.00").Equal(milk.Price()))
	assert.Equal(t, []*domain.Product{milk}, w.ChangedProducts())
}

func TestWarehouse_EndToEnd_PriceChange(t *testing.T) {
	w := domain.NewWarehouse("W")
	id := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	milk, err := domain.NewFoodProduct(id, "Milk", categories.MustOf("dairy"), dec("15.50"), fixedNow.AddDate(0, 0, 7), dec("1.0"))
	require.NoError(t, err)
	require.NoError(t, w.AddProduct(milk))

	require.NoError(t, w.UpdateProductPrice(id, dec("17.00")))

	products := w.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "17.00", products[0].Price().StringFixed(2))

	changed := w.ChangedProducts()
	require.Len(t, changed, 1)
	assert.Same(t, products[0], changed[0])
}

func TestWarehouse_ProductByID(t *testing.T) {
	w := domain.NewWarehouse("W")
	milk := newFood(t, "Milk", fixedNow, "1.0")
	require.NoError(t, w.AddProduct(milk))

	got, ok := w.ProductByID(milk.ID())
	require.True(t, ok)
	assert.Same(t, milk, got)

	_, ok = w.ProductByID(uuid.New())
	assert.False(t, ok)
}

func TestWarehouse_ProductsGroupedByCategories(t *testing.T) {
	w := domain.NewWarehouse("W")
	milk := newFood(t, "Milk", fixedNow, "1.0")
	laptop := newElectronics(t, "Laptop", "2.5")
	cheese := newFood(t, "Cheese", fixedNow, "0.3")
	require.NoError(t, w.AddProduct(milk))
	require.NoError(t, w.AddProduct(laptop))
	require.NoError(t, w.AddProduct(cheese))

	groups := w.ProductsGroupedByCategories()

	require.Len(t, groups, 2)
	assert.Equal(t, "Dairy", groups[0].Category.Name())
	assert.Equal(t, []*domain.Product{milk, cheese}, groups[0].Products)
	assert.Equal(t, "Electronics", groups[1].Category.Name())
	assert.Equal(t, []*domain.Product{laptop}, groups[1].Products)
}

func TestWarehouse_ExpiredProducts(t *testing.T) {
	w := domain.NewWarehouse("W", domain.WithClock(fixedClock))
	expired := newFood(t, "Old Milk", fixedNow.AddDate(0, 0, -1), "1.0")
	today := newFood(t, "Milk", fixedNow, "1.0")
	fresh := newFood(t, "Fresh Milk", fixedNow.AddDate(0, 0, 3), "1.0")
	laptop := newElectronics(t, "Laptop", "2.5")
	for _, p := range []*domain.Product{expired, today, fresh, laptop} {
		require.NoError(t, w.AddProduct(p))
	}

	got := w.ExpiredProducts()

	require.Len(t, got, 1)
	assert.Same(t, expired, got[0].Product())
	assert.Equal(t, fixedNow, w.Now())
}

func TestWarehouse_ShippableProducts(t *testing.T) {
	w := domain.NewWarehouse("W")
	milk := newFood(t, "Milk", fixedNow, "2.0")
	laptop := newElectronics(t, "Laptop", "6.0")
	require.NoError(t, w.AddProduct(milk))
	require.NoError(t, w.AddProduct(laptop))

	shippable := w.ShippableProducts()

	require.Len(t, shippable, 2)
	assert.Same(t, milk, shippable[0].Product())
	assert.Same(t, laptop, shippable[1].Product())
	assert.Equal(t, "228.00", w.TotalShippingCost().StringFixed(2))
}

func TestWarehouse_ClearProducts(t *testing.T) {
	w := domain.NewWarehouse("W")
	milk := newFood(t, "Milk", fixedNow, "1.0")
	require.NoError(t, w.AddProduct(milk))
	require.NoError(t, w.UpdateProductPrice(milk.ID(), dec("17.00")))

	w.ClearProducts()

	assert.True(t, w.IsEmpty())
	assert.Empty(t, w.Products())
	assert.Empty(t, w.ChangedProducts())

	require.NoError(t, w.AddProduct(milk), "cleared ids can be added again")
}

func TestWarehouse_EmptyQueries(t *testing.T) {
	w := domain.NewWarehouse(domain.DefaultWarehouseName)

	assert.Equal(t, "DefaultWarehouse", w.Name())
	assert.True(t, w.IsEmpty())
	assert.Empty(t, w.ProductsGroupedByCategories())
	assert.Empty(t, w.ExpiredProducts())
	assert.Empty(t, w.ShippableProducts())
	assert.True(t, w.TotalShippingCost().IsZero())
}
