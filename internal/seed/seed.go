// Package seed loads sample product catalogs from YAML fixtures.
package seed

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/warehouse-registry/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Catalog is a list of product fixtures
type Catalog struct {
	Products []Entry `yaml:"products"`
}

// Entry describes one product. Expiration is relative to the build time so
// fixtures stay valid.
type Entry struct {
	ID             string          `yaml:"id,omitempty"`
	Kind           string          `yaml:"kind"`
	Name           string          `yaml:"name"`
	Category       string          `yaml:"category"`
	Price          decimal.Decimal `yaml:"price"`
	WeightKg       decimal.Decimal `yaml:"weight_kg"`
	ExpiresInDays  int             `yaml:"expires_in_days,omitempty"`
	WarrantyMonths int             `yaml:"warranty_months,omitempty"`
}

// Load parses a YAML catalog
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("decoding seed catalog: %w", err)
	}
	return &c, nil
}

// Default returns the built-in milk, apple and laptop catalog
func Default() *Catalog {
	return &Catalog{Products: []Entry{
		{
			Kind:          "food",
			Name:          "Milk",
			Category:      "Dairy",
			Price:         decimal.RequireFromString("15.50"),
			WeightKg:      decimal.RequireFromString("1.0"),
			ExpiresInDays: 7,
		},
		{
			Kind:          "food",
			Name:          "Apple",
			Category:      "Fruit",
			Price:         decimal.RequireFromString("2.50"),
			WeightKg:      decimal.RequireFromString("0.5"),
			ExpiresInDays: 5,
		},
		{
			Kind:           "electronics",
			Name:           "Laptop",
			Category:       "Electronics",
			Price:          decimal.RequireFromString("1599.99"),
			WeightKg:       decimal.RequireFromString("2.5"),
			WarrantyMonths: 24,
		},
	}}
}

// Build turns every entry into a domain product, in catalog order
func (c *Catalog) Build(categories *domain.CategoryRegistry, now time.Time) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(c.Products))
	for i, e := range c.Products {
		p, err := e.build(categories, now)
		if err != nil {
			return nil, fmt.Errorf("seed product %d (%s): %w", i, e.Name, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (e Entry) build(categories *domain.CategoryRegistry, now time.Time) (*domain.Product, error) {
	id := uuid.New()
	if e.ID != "" {
		parsed, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, errors.Join(domain.ErrInvalidArgument, err)
		}
		id = parsed
	}

	kind, err := domain.ParseKind(e.Kind)
	if err != nil {
		return nil, err
	}

	category, err := categories.Of(e.Category)
	if err != nil {
		return nil, err
	}

	switch kind {
	case domain.KindFood:
		return domain.NewFoodProduct(id, e.Name, category, e.Price, now.AddDate(0, 0, e.ExpiresInDays), e.WeightKg)
	default:
		return domain.NewElectronicsProduct(id, e.Name, category, e.Price, e.WarrantyMonths, e.WeightKg)
	}
}
