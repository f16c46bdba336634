package registry

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/appforge-dev/appforge/internal/extensions"
)

// RemoteCatalog lists the specifications the platform knows about.
type RemoteCatalog interface {
	FetchSpecifications(ctx context.Context) ([]extensions.RemoteSpecification, error)
}

// Resolution is the outcome of a lookup. Found is false for unknown types.
// Err reports a remote catalog failure; Spec is still the usable local
// specification in that case.
type Resolution struct {
	Spec   *extensions.Spec
	Remote *extensions.RemoteSpecification
	Found  bool
	Err    error
}

// LookupError wraps a remote catalog failure.
type LookupError struct {
	Category extensions.Category
	Err      error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("fetching remote %s specifications: %v", e.Category, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

type options struct {
	remote RemoteCatalog
	logger *zap.Logger
}

// Option configures a Registry.
type Option func(*options)

// WithRemoteCatalog enables remote metadata merging.
func WithRemoteCatalog(c RemoteCatalog) Option {
	return func(o *options) { o.remote = c }
}

// WithLogger sets the logger used for catalog activity.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.remote != nil {
		o.remote = cache(o.remote, o.logger)
	}
	return o
}

// Registry holds the specifications of one category.
type Registry struct {
	category extensions.Category
	specs    map[string]*extensions.Spec
	aliases  map[string]string
	order    []*extensions.Spec
	remote   RemoteCatalog
	logger   *zap.Logger
}

// New builds a registry. Every spec must belong to category and identifiers
// must be unique.
func New(category extensions.Category, specs []*extensions.Spec, opts ...Option) (*Registry, error) {
	if _, err := extensions.ParseCategory(string(category)); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	r := &Registry{
		category: category,
		specs:    make(map[string]*extensions.Spec, len(specs)),
		aliases:  map[string]string{},
		remote:   o.remote,
		logger:   o.logger.With(zap.String("category", string(category))),
	}
	for _, s := range specs {
		if s == nil {
			return nil, fmt.Errorf("%s registry: nil specification", category)
		}
		if s.Category() != category {
			return nil, fmt.Errorf("%s registry: specification %s belongs to category %s", category, s.Identifier(), s.Category())
		}
		if _, dup := r.specs[s.Identifier()]; dup {
			return nil, fmt.Errorf("%s registry: duplicate specification %s", category, s.Identifier())
		}
		r.specs[s.Identifier()] = s
		r.order = append(r.order, s)
	}

	// Partners web IDs resolve too, unless they shadow an identifier.
	for _, s := range r.order {
		id := s.PartnersWebID()
		if _, taken := r.specs[id]; taken {
			continue
		}
		if _, taken := r.aliases[id]; !taken {
			r.aliases[id] = s.Identifier()
		}
	}
	return r, nil
}

// Category returns the category served by the registry.
func (r *Registry) Category() extensions.Category { return r.category }

// Specs returns the local specifications in registration order.
func (r *Registry) Specs() []*extensions.Spec {
	return append([]*extensions.Spec(nil), r.order...)
}

// Lookup resolves typ. Local specifications are matched by identifier first,
// then by partners web ID; remote metadata is merged when available.
func (r *Registry) Lookup(ctx context.Context, typ string) Resolution {
	if err := ctx.Err(); err != nil {
		return Resolution{Err: err}
	}

	local, ok := r.local(typ)
	if !ok {
		return Resolution{}
	}
	res := Resolution{Spec: local, Found: true}
	if r.remote == nil {
		return res
	}

	remotes, err := r.remote.FetchSpecifications(ctx)
	if err != nil {
		r.logger.Warn("remote specifications unavailable, using local specification",
			zap.String("type", typ), zap.Error(err))
		res.Err = &LookupError{Category: r.category, Err: err}
		return res
	}
	for i := range remotes {
		if remotes[i].Identifier != local.Identifier() {
			continue
		}
		remote := remotes[i]
		res.Spec = local.WithRemote(remote)
		res.Remote = &remote
		break
	}
	return res
}

// SpecForType returns the specification for typ, if any.
func (r *Registry) SpecForType(ctx context.Context, typ string) (*extensions.Spec, bool) {
	res := r.Lookup(ctx, typ)
	return res.Spec, res.Found
}

func (r *Registry) local(typ string) (*extensions.Spec, bool) {
	if s, ok := r.specs[typ]; ok {
		return s, true
	}
	if id, ok := r.aliases[typ]; ok {
		return r.specs[id], true
	}
	return nil, false
}
