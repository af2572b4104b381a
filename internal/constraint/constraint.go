// Package constraint implements the pluggable predicate system that gates
// every placement. Constraints are registered by name with a weight; a pack
// run resolves an ordered list of names into predicates evaluated in
// ascending weight order, so cheap tests short-circuit expensive ones.
package constraint

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/loadwise/vanpack/internal/model"
)

// Params holds a constraint's recognized option values.
type Params map[string]decimal.Decimal

// Get returns the parameter value, falling back to def when unset.
func (p Params) Get(name string, def decimal.Decimal) decimal.Decimal {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// CheckFunc evaluates a constraint for an item under trial in a bin.
// The item carries the proposed position and dimensions; it is not yet part
// of bin.Items.
type CheckFunc func(b *model.Bin, it *model.Item, p Params) bool

// Constraint is a named, weighted predicate with parameters.
// It satisfies model.Constraint.
type Constraint struct {
	name   string
	weight int
	params Params
	check  CheckFunc
}

// New builds a constraint. The weight controls evaluation order: higher
// weights run later.
func New(name string, weight int, check CheckFunc) *Constraint {
	return &Constraint{name: name, weight: weight, params: Params{}, check: check}
}

func (c *Constraint) Name() string { return c.name }

func (c *Constraint) Weight() int { return c.weight }

// SetParameter sets a recognized option value on the constraint.
func (c *Constraint) SetParameter(name string, value decimal.Decimal) {
	c.params[name] = value
}

// Check evaluates the predicate.
func (c *Constraint) Check(b *model.Bin, it *model.Item) bool {
	return c.check(b, it, c.params)
}

func (c *Constraint) String() string {
	return fmt.Sprintf("Constraint %s weight(%d)", c.name, c.weight)
}

var registry = map[string]*Constraint{}

// Register adds a constraint to the registry under its name, replacing any
// previous registration.
func Register(c *Constraint) {
	registry[c.name] = c
}

// Lookup returns the registered constraint for the given key.
func Lookup(name string) (*Constraint, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown constraint %q", name)
	}
	return c, nil
}

// Resolve maps constraint names to predicates ordered by ascending weight.
// An unknown name is a configuration error.
func Resolve(names []string) ([]model.Constraint, error) {
	out := make([]model.Constraint, 0, len(names))
	for _, name := range names {
		c, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight() < out[j].Weight() })
	return out, nil
}

// Names returns all registered constraint names sorted by weight.
func Names() []string {
	all := make([]*Constraint, 0, len(registry))
	for _, c := range registry {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].weight != all[j].weight {
			return all[i].weight < all[j].weight
		}
		return all[i].name < all[j].name
	})
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.name
	}
	return names
}
