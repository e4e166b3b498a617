package domain

import (
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is a product category label such as "Dairy" or "Home Appliances".
// Two categories are equal when their normalized names are equal, so the
// value can be used directly as a map key.
type Category struct {
	name string
}

// Name returns the normalized category name
func (c Category) Name() string {
	return c.name
}

func (c Category) String() string {
	return c.name
}

// IsZero reports whether c was never produced by a CategoryRegistry
func (c Category) IsZero() bool {
	return c.name == ""
}

// CategoryRegistry interns categories by normalized name. It is owned by the
// caller; there is no process-wide cache.
type CategoryRegistry struct {
	mu    sync.RWMutex
	cache map[string]Category
	upper cases.Caser
	lower cases.Caser
}

// NewCategoryRegistry creates an empty category registry
func NewCategoryRegistry() *CategoryRegistry {
	return &CategoryRegistry{
		cache: make(map[string]Category),
		upper: cases.Upper(language.Und),
		lower: cases.Lower(language.Und),
	}
}

// Of returns the category for rawName. "dairy", "DAIRY" and "  dairy " all
// resolve to the same "Dairy" category.
func (r *CategoryRegistry) Of(rawName string) (Category, error) {
	words := strings.Fields(rawName)
	if len(words) == 0 {
		return Category{}, ErrBlankCategory
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, word := range words {
		words[i] = r.capitalize(word)
	}
	name := strings.Join(words, " ")

	if c, ok := r.cache[name]; ok {
		return c, nil
	}
	c := Category{name: name}
	r.cache[name] = c
	return c, nil
}

// MustOf is like Of but panics on a blank name. Use only for literals.
func (r *CategoryRegistry) MustOf(rawName string) Category {
	c, err := r.Of(rawName)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of distinct categories seen so far
func (r *CategoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// capitalize upper-cases the first rune of word and lower-cases the rest.
// Callers must hold r.mu; Casers are not safe for concurrent use.
func (r *CategoryRegistry) capitalize(word string) string {
	_, size := utf8.DecodeRuneInString(word)
	return r.upper.String(word[:size]) + r.lower.String(word[size:])
}
