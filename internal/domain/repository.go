package domain

import (
	"context"
)

// WarehouseRegistry hands out one Warehouse per distinct name
type WarehouseRegistry interface {
	// GetInstance returns the warehouse called name, creating it on first
	// use. An empty name selects the default warehouse.
	GetInstance(ctx context.Context, name string) *Warehouse
	Default(ctx context.Context) *Warehouse
	// Lookup returns ErrWarehouseNotFound instead of creating
	Lookup(ctx context.Context, name string) (*Warehouse, error)
	Names(ctx context.Context) []string
}
