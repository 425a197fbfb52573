package origin

import (
	"context"
	"sort"
	"sync"

	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/types"
)

// Handler materializes and refreshes packages of one origin kind.
//
// Implementations must confine every write to dest and its descendants.
type Handler interface {
	// Kind returns the origin kind this handler serves.
	Kind() types.OriginKind

	// Materialize fetches ref into dest, which does not exist yet.
	Materialize(ctx context.Context, ref types.PackageRef, dest string) error

	// Refresh brings an existing dest up to date with ref.
	Refresh(ctx context.Context, ref types.PackageRef, dest string) error
}

// Registry maps origin kinds to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[types.OriginKind]Handler
}

// NewRegistry creates a registry holding the given handlers.
func NewRegistry(handlers ...Handler) (*Registry, error) {
	r := &Registry{handlers: make(map[types.OriginKind]Handler)}
	for _, h := range handlers {
		if err := r.Register(h); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds h under its kind. Registering a kind twice is an error.
func (r *Registry) Register(h Handler) error {
	if h == nil {
		return errors.New(errors.ErrInvalidInput, "handler cannot be nil")
	}
	kind := h.Kind()
	if kind == "" {
		return errors.New(errors.ErrInvalidInput, "handler kind cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[kind]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "handler for origin '%s' is already registered", kind).
			WithDetail("kind", string(kind))
	}
	r.handlers[kind] = h
	return nil
}

// Get returns the handler for kind, or an ORIGIN_UNSUPPORTED_TYPE error.
func (r *Registry) Get(kind types.OriginKind) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[kind]
	if !ok {
		return nil, errors.Newf(errors.ErrOriginUnsupportedType, "no handler for origin '%s'", kind).
			WithDetail("kind", string(kind)).
			WithDetail("supported", r.kinds())
	}
	return h, nil
}

// Kinds lists the registered origin kinds in sorted order.
func (r *Registry) Kinds() []types.OriginKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.kinds()
}

func (r *Registry) kinds() []types.OriginKind {
	kinds := make([]types.OriginKind, 0, len(r.handlers))
	for k := range r.handlers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
