package registry

import (
	"context"
	"fmt"

	"github.com/appforge-dev/appforge/internal/extensions"
	"github.com/appforge-dev/appforge/internal/extensions/specifications"
)

// Set holds one registry per category.
type Set struct {
	registries map[extensions.Category]*Registry
}

// NewSet groups registries by their category.
func NewSet(registries ...*Registry) (*Set, error) {
	s := &Set{registries: make(map[extensions.Category]*Registry, len(registries))}
	for _, r := range registries {
		if _, dup := s.registries[r.Category()]; dup {
			return nil, fmt.Errorf("duplicate %s registry", r.Category())
		}
		s.registries[r.Category()] = r
	}
	return s, nil
}

// Default builds the registries of the locally declared specifications. A
// remote catalog passed in opts is shared by all three registries.
func Default(opts ...Option) (*Set, error) {
	o := buildOptions(opts)
	shared := []Option{WithLogger(o.logger)}
	if o.remote != nil {
		shared = append(shared, WithRemoteCatalog(o.remote))
	}

	var regs []*Registry
	for _, c := range extensions.Categories {
		r, err := New(c, specifications.ByCategory(c), shared...)
		if err != nil {
			return nil, err
		}
		regs = append(regs, r)
	}
	return NewSet(regs...)
}

// For returns the registry of category c, or nil.
func (s *Set) For(c extensions.Category) *Registry {
	return s.registries[c]
}

// Lookup resolves typ within category c. A category without a registry
// resolves nothing.
func (s *Set) Lookup(ctx context.Context, c extensions.Category, typ string) Resolution {
	r := s.For(c)
	if r == nil {
		return Resolution{}
	}
	return r.Lookup(ctx, typ)
}

// Specs returns every specification, ordered by category.
func (s *Set) Specs() []*extensions.Spec {
	var out []*extensions.Spec
	for _, c := range extensions.Categories {
		if r := s.For(c); r != nil {
			out = append(out, r.Specs()...)
		}
	}
	return out
}
