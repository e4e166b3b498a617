// Package query compiles product filter expressions.
//
// Filters are CEL boolean expressions evaluated once per product, for example
//
//	kind == "food" && price > 10.0
//	category == "Electronics" && weight > 5.0
//	expired || warranty_months >= 24
package query

import (
	"fmt"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/mrops-br/warehouse-registry/internal/domain"
)

// Filter is a compiled product filter. It is safe for concurrent use.
type Filter struct {
	expr    string
	program cel.Program
}

var env *cel.Env

func init() {
	var err error
	env, err = cel.NewEnv(
		cel.Variable("name", cel.StringType),
		cel.Variable("category", cel.StringType),
		cel.Variable("kind", cel.StringType),
		cel.Variable("price", cel.DoubleType),
		cel.Variable("weight", cel.DoubleType),
		cel.Variable("warranty_months", cel.IntType),
		cel.Variable("expired", cel.BoolType),
		cel.Variable("shippable", cel.BoolType),
	)
	if err != nil {
		panic(fmt.Sprintf("query: build CEL environment: %v", err))
	}
}

// Compile parses and type-checks expr. Errors wrap domain.ErrInvalidArgument.
func Compile(expr string) (*Filter, error) {
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: filter: %v", domain.ErrInvalidArgument, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: filter must be a boolean expression, got %s",
			domain.ErrInvalidArgument, ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: filter: %v", domain.ErrInvalidArgument, err)
	}
	return &Filter{expr: expr, program: program}, nil
}

func (f *Filter) String() string {
	return f.expr
}

// Match evaluates the filter against p. now decides whether perishable
// products count as expired.
func (f *Filter) Match(p *domain.Product, now time.Time) (bool, error) {
	out, _, err := f.program.Eval(activation(p, now))
	if err != nil {
		return false, fmt.Errorf("%w: filter %q: %v", domain.ErrInvalidArgument, f.expr, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: filter %q returned %T", domain.ErrInvalidArgument, f.expr, out.Value())
	}
	return matched, nil
}

// Select returns the products matching the filter, keeping their order
func (f *Filter) Select(products []*domain.Product, now time.Time) ([]*domain.Product, error) {
	selected := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		ok, err := f.Match(p, now)
		if err != nil {
			return nil, err
		}
		if ok {
			selected = append(selected, p)
		}
	}
	return selected, nil
}

func activation(p *domain.Product, now time.Time) map[string]any {
	vars := map[string]any{
		"name":            p.Name(),
		"category":        p.Category().Name(),
		"kind":            p.Kind().String(),
		"price":           p.Price().InexactFloat64(),
		"weight":          p.Weight().InexactFloat64(),
		"warranty_months": int64(0),
		"expired":         false,
		"shippable":       false,
	}
	if months, ok := p.WarrantyMonths(); ok {
		vars["warranty_months"] = int64(months)
	}
	if v, ok := p.Perishable(); ok {
		vars["expired"] = v.IsExpiredAt(now)
	}
	if _, ok := p.Shippable(); ok {
		vars["shippable"] = true
	}
	return vars
}
