package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps one of them, so
// callers can branch with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)

var (
	ErrBlankCategory      = fmt.Errorf("%w: category name can't be blank", ErrInvalidArgument)
	ErrMissingCategory    = fmt.Errorf("%w: product category is required", ErrInvalidArgument)
	ErrInvalidProductName = fmt.Errorf("%w: product name is required", ErrInvalidArgument)
	ErrNegativePrice      = fmt.Errorf("%w: price cannot be negative", ErrInvalidArgument)
	ErrNegativeWeight     = fmt.Errorf("%w: weight cannot be negative", ErrInvalidArgument)
	ErrNegativeWarranty   = fmt.Errorf("%w: warranty months cannot be negative", ErrInvalidArgument)
	ErrNilProduct         = fmt.Errorf("%w: product cannot be nil", ErrInvalidArgument)
	ErrDuplicateProductID = fmt.Errorf("%w: product with that id already exists", ErrInvalidArgument)
	ErrUnknownProductKind = fmt.Errorf("%w: unknown product kind", ErrInvalidArgument)
	ErrProductNotFound    = fmt.Errorf("product %w", ErrNotFound)
	ErrWarehouseNotFound  = fmt.Errorf("warehouse %w", ErrNotFound)
)
