package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultWarehouseName names the warehouse returned when no name is given
const DefaultWarehouseName = "DefaultWarehouse"

// CategoryGroup is one bucket of ProductsGroupedByCategories
type CategoryGroup struct {
	Category Category
	Products []*Product
}

// Warehouse holds products in insertion order and remembers which of them
// had their price changed.
type Warehouse struct {
	name  string
	clock func() time.Time

	mu       sync.RWMutex
	products []*Product
	changed  map[*Product]struct{}
	// changedOrder keeps ChangedProducts deterministic
	changedOrder []*Product
}

// WarehouseOption configures a Warehouse
type WarehouseOption func(*Warehouse)

// WithClock sets the time source used for expiry checks
func WithClock(clock func() time.Time) WarehouseOption {
	return func(w *Warehouse) {
		w.clock = clock
	}
}

// NewWarehouse creates an empty warehouse. Use a WarehouseRegistry to share
// warehouses by name.
func NewWarehouse(name string, opts ...WarehouseOption) *Warehouse {
	w := &Warehouse{
		name:    name,
		clock:   time.Now,
		changed: make(map[*Product]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Warehouse) Name() string {
	return w.name
}

// AddProduct appends p. It fails if p is nil or its id is already stored.
func (w *Warehouse) AddProduct(p *Product) error {
	if p == nil {
		return ErrNilProduct
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.indexOf(p.ID()) >= 0 {
		return ErrDuplicateProductID
	}
	w.products = append(w.products, p)
	return nil
}

// Remove deletes the product with the given id. Unknown ids are ignored.
func (w *Warehouse) Remove(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if i := w.indexOf(id); i >= 0 {
		w.products = append(w.products[:i], w.products[i+1:]...)
	}
}

// UpdateProductPrice sets the price of the product with the given id and
// records it as changed.
func (w *Warehouse) UpdateProductPrice(id uuid.UUID, price decimal.Decimal) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.indexOf(id)
	if i < 0 {
		return ErrProductNotFound
	}

	p := w.products[i]
	p.SetPrice(price)
	if _, seen := w.changed[p]; !seen {
		w.changed[p] = struct{}{}
		w.changedOrder = append(w.changedOrder, p)
	}
	return nil
}

// Products returns the products in insertion order. The slice is a copy.
func (w *Warehouse) Products() []*Product {
	w.mu.RLock()
	defer w.mu.RUnlock()

	products := make([]*Product, len(w.products))
	copy(products, w.products)
	return products
}

// ChangedProducts returns every product whose price was updated, in the
// order of their first update.
func (w *Warehouse) ChangedProducts() []*Product {
	w.mu.RLock()
	defer w.mu.RUnlock()

	changed := make([]*Product, len(w.changedOrder))
	copy(changed, w.changedOrder)
	return changed
}

func (w *Warehouse) ProductByID(id uuid.UUID) (*Product, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	i := w.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return w.products[i], true
}

// ProductsGroupedByCategories buckets the products by category. Groups come
// in the order their category first appears.
func (w *Warehouse) ProductsGroupedByCategories() []CategoryGroup {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var groups []CategoryGroup
	index := make(map[Category]int)
	for _, p := range w.products {
		i, ok := index[p.Category()]
		if !ok {
			i = len(groups)
			index[p.Category()] = i
			groups = append(groups, CategoryGroup{Category: p.Category()})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}

// ExpiredProducts returns the perishable products expired as of the
// warehouse clock.
func (w *Warehouse) ExpiredProducts() []Perishable {
	w.mu.RLock()
	defer w.mu.RUnlock()

	now := w.clock()
	var expired []Perishable
	for _, p := range w.products {
		if v, ok := p.Perishable(); ok && v.IsExpiredAt(now) {
			expired = append(expired, v)
		}
	}
	return expired
}

func (w *Warehouse) ShippableProducts() []Shippable {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var shippable []Shippable
	for _, p := range w.products {
		if v, ok := p.Shippable(); ok {
			shippable = append(shippable, v)
		}
	}
	return shippable
}

// TotalShippingCost sums the shipping cost of every shippable product
func (w *Warehouse) TotalShippingCost() decimal.Decimal {
	total := decimal.Zero
	for _, v := range w.ShippableProducts() {
		total = total.Add(v.ShippingCost())
	}
	return total
}

// ClearProducts drops every product and forgets the price changes
func (w *Warehouse) ClearProducts() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.products = nil
	w.changed = make(map[*Product]struct{})
	w.changedOrder = nil
}

func (w *Warehouse) IsEmpty() bool {
	return w.Len() == 0
}

func (w *Warehouse) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.products)
}

// Now returns the current time according to the warehouse clock
func (w *Warehouse) Now() time.Time {
	return w.clock()
}

// indexOf returns the position of id in w.products or -1. Callers hold w.mu.
func (w *Warehouse) indexOf(id uuid.UUID) int {
	for i, p := range w.products {
		if p.ID() == id {
			return i
		}
	}
	return -1
}
