package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mrops-br/warehouse-registry/internal/domain"
	"github.com/mrops-br/warehouse-registry/internal/infrastructure/repository/memory"
	"github.com/mrops-br/warehouse-registry/internal/seed"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D97706"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

var updatedPrice = decimal.RequireFromString("17.00")

type demo struct {
	out       io.Writer
	logger    *slog.Logger
	catalog   *seed.Catalog
	warehouse string
	now       func() time.Time
}

func (d *demo) heading(title string) {
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, headingStyle.Render(title))
}

func (d *demo) line(format string, args ...any) {
	fmt.Fprintf(d.out, format+"\n", args...)
}

// run drives every warehouse operation once. The first catalog product gets
// its price updated and is re-added as a duplicate; the second is removed.
func (d *demo) run(ctx context.Context) error {
	categories := domain.NewCategoryRegistry()
	registry := memory.NewWarehouseRegistry(
		d.warehouse,
		noop.NewTracerProvider().Tracer("warehouse-demo"),
		d.logger,
		domain.WithClock(d.now),
	)

	products, err := d.catalog.Build(categories, d.now())
	if err != nil {
		return err
	}
	if len(products) < 2 {
		return fmt.Errorf("seed catalog needs at least two products, got %d", len(products))
	}
	first, second := products[0], products[1]

	d.heading("Warehouses")
	warehouse := registry.GetInstance(ctx, d.warehouse)
	other := registry.GetInstance(ctx, d.warehouse+"2")
	d.line("Warehouse 1: %s", warehouse.Name())
	d.line("Warehouse 2: %s", other.Name())
	d.line("Same instance? %t", warehouse == registry.GetInstance(ctx, d.warehouse))

	for _, p := range products {
		if err := warehouse.AddProduct(p); err != nil {
			return err
		}
	}

	d.heading("All products in warehouse")
	for _, p := range warehouse.Products() {
		d.line("- %s", p.Details())
	}

	d.heading(fmt.Sprintf("Updating %s price", first.Name()))
	if err := warehouse.UpdateProductPrice(first.ID(), updatedPrice); err != nil {
		return err
	}
	d.line("New %s price: %s", first.Name(), first.Price().StringFixed(2))

	d.heading("Changed products")
	for _, p := range warehouse.ChangedProducts() {
		d.line("- %s (%s)", p.Name(), p.Price().StringFixed(2))
	}

	d.heading("Products grouped by category")
	for _, group := range warehouse.ProductsGroupedByCategories() {
		d.line("%s:", group.Category.Name())
		for _, p := range group.Products {
			d.line("  - %s", p.Name())
		}
	}

	d.heading(fmt.Sprintf("Removing %s", second.Name()))
	warehouse.Remove(second.ID())
	d.line("Products after removal: %d", warehouse.Len())

	d.heading("Expired products")
	expired := warehouse.ExpiredProducts()
	if len(expired) == 0 {
		d.line("%s", dimStyle.Render("none"))
	}
	for _, v := range expired {
		d.line("- %s", v)
	}

	d.heading("Shipping costs for shippable products")
	for _, v := range warehouse.ShippableProducts() {
		d.line("- %s: $%s", v, v.ShippingCost().StringFixed(2))
	}
	d.line("Total: $%s", warehouse.TotalShippingCost().StringFixed(2))

	d.heading("Adding a product with a duplicate ID")
	duplicate, err := duplicateOf(first)
	if err != nil {
		return err
	}
	if err := warehouse.AddProduct(duplicate); err != nil {
		if !errors.Is(err, domain.ErrInvalidArgument) {
			return err
		}
		d.line("%s %s", okStyle.Render("Caught expected error:"), err)
	} else {
		return errors.New("duplicate product id was accepted")
	}

	d.heading("Clearing warehouse")
	warehouse.ClearProducts()
	d.line("Warehouse is now empty: %t", warehouse.IsEmpty())

	return nil
}

// duplicateOf builds a different product sharing p's id
func duplicateOf(p *domain.Product) (*domain.Product, error) {
	name := "Duplicate " + p.Name()
	if expiresOn, ok := p.ExpirationDate(); ok {
		return domain.NewFoodProduct(p.ID(), name, p.Category(), p.Price(), expiresOn, p.Weight())
	}
	months, _ := p.WarrantyMonths()
	return domain.NewElectronicsProduct(p.ID(), name, p.Category(), p.Price(), months, p.Weight())
}
