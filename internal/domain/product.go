package domain

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind tags the product variant
type Kind int

const (
	KindFood Kind = iota + 1
	KindElectronics
)

func (k Kind) String() string {
	switch k {
	case KindFood:
		return "food"
	case KindElectronics:
		return "electronics"
	default:
		return "unknown"
	}
}

// ParseKind parses the lower-case kind name used in requests and fixtures
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "food":
		return KindFood, nil
	case "electronics":
		return KindElectronics, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownProductKind, s)
	}
}

var (
	foodShippingRatePerKg       = decimal.NewFromInt(50)
	electronicsBaseShipping     = decimal.NewFromInt(79)
	electronicsHeavySurcharge   = decimal.NewFromInt(49)
	electronicsHeavyThresholdKg = decimal.RequireFromString("5.0")
)

// Product is a warehouse item. The variant is fixed at construction by
// NewFoodProduct or NewElectronicsProduct; only the price changes afterwards.
type Product struct {
	id       uuid.UUID
	name     string
	category Category
	kind     Kind
	weight   decimal.Decimal

	// food
	expiresOn time.Time
	// electronics
	warrantyMonths int

	mu    sync.RWMutex
	price decimal.Decimal
}

// NewFoodProduct creates a perishable, shippable food product. The time part
// of expiresOn is ignored.
func NewFoodProduct(
	id uuid.UUID,
	name string,
	category Category,
	price decimal.Decimal,
	expiresOn time.Time,
	weight decimal.Decimal,
) (*Product, error) {
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}

	p := &Product{
		id:        id,
		name:      name,
		category:  category,
		kind:      KindFood,
		weight:    weight,
		expiresOn: dateOf(expiresOn),
		price:     price,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewElectronicsProduct creates a shippable electronics product
func NewElectronicsProduct(
	id uuid.UUID,
	name string,
	category Category,
	price decimal.Decimal,
	warrantyMonths int,
	weight decimal.Decimal,
) (*Product, error) {
	if warrantyMonths < 0 {
		return nil, ErrNegativeWarranty
	}

	p := &Product{
		id:             id,
		name:           name,
		category:       category,
		kind:           KindElectronics,
		weight:         weight,
		warrantyMonths: warrantyMonths,
		price:          price,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the fields shared by every variant
func (p *Product) Validate() error {
	if strings.TrimSpace(p.name) == "" {
		return ErrInvalidProductName
	}
	if p.category.IsZero() {
		return ErrMissingCategory
	}
	if p.weight.IsNegative() {
		return ErrNegativeWeight
	}
	return nil
}

func (p *Product) ID() uuid.UUID {
	return p.id
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) Category() Category {
	return p.category
}

func (p *Product) Kind() Kind {
	return p.kind
}

// Weight returns the weight in kilograms
func (p *Product) Weight() decimal.Decimal {
	return p.weight
}

func (p *Product) Price() decimal.Decimal {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.price
}

// SetPrice replaces the price. Unlike the constructors it accepts any value.
func (p *Product) SetPrice(price decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.price = price
}

// ExpirationDate returns the expiration date of a food product
func (p *Product) ExpirationDate() (time.Time, bool) {
	if p.kind != KindFood {
		return time.Time{}, false
	}
	return p.expiresOn, true
}

// WarrantyMonths returns the warranty of an electronics product
func (p *Product) WarrantyMonths() (int, bool) {
	if p.kind != KindElectronics {
		return 0, false
	}
	return p.warrantyMonths, true
}

// Details renders a one-line human readable summary
func (p *Product) Details() string {
	switch p.kind {
	case KindFood:
		return fmt.Sprintf("Food: %s, Expires: %s", p.name, p.expiresOn.Format(time.DateOnly))
	case KindElectronics:
		return fmt.Sprintf("Electronics: %s, Warranty: %d months", p.name, p.warrantyMonths)
	default:
		return p.name
	}
}

func (p *Product) String() string {
	return p.Details()
}

// Perishable returns the perishable view of p. Only food is perishable.
func (p *Product) Perishable() (Perishable, bool) {
	if p.kind != KindFood {
		return Perishable{}, false
	}
	return Perishable{product: p}, true
}

// Shippable returns the shippable view of p. Every current variant ships.
func (p *Product) Shippable() (Shippable, bool) {
	switch p.kind {
	case KindFood, KindElectronics:
		return Shippable{product: p}, true
	default:
		return Shippable{}, false
	}
}

// Perishable is a product that can expire
type Perishable struct {
	product *Product
}

func (v Perishable) Product() *Product {
	return v.product
}

func (v Perishable) ExpirationDate() time.Time {
	return v.product.expiresOn
}

// IsExpired reports whether the expiration date is before today
func (v Perishable) IsExpired() bool {
	return v.IsExpiredAt(time.Now())
}

// IsExpiredAt reports whether the expiration date is before the calendar day
// of now. A product expiring today is not expired yet.
func (v Perishable) IsExpiredAt(now time.Time) bool {
	return v.product.expiresOn.Before(dateOf(now))
}

func (v Perishable) String() string {
	return v.product.Details()
}

// Shippable is a product with a shipping cost
type Shippable struct {
	product *Product
}

func (v Shippable) Product() *Product {
	return v.product
}

// Weight returns the shipping weight in kilograms
func (v Shippable) Weight() decimal.Decimal {
	return v.product.weight
}

// ShippingCost computes the cost to ship the product.
//
// Food costs 50 per kg rounded half-up to cents. Electronics cost a flat 79,
// plus 49 above 5 kg.
func (v Shippable) ShippingCost() decimal.Decimal {
	switch v.product.kind {
	case KindFood:
		return v.product.weight.Mul(foodShippingRatePerKg).Round(2)
	case KindElectronics:
		cost := electronicsBaseShipping
		if v.product.weight.GreaterThan(electronicsHeavyThresholdKg) {
			cost = cost.Add(electronicsHeavySurcharge)
		}
		return cost
	default:
		return decimal.Zero
	}
}

func (v Shippable) String() string {
	return v.product.Details()
}

// dateOf keeps the calendar day of t, as UTC midnight
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
