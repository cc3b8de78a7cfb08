package core

import (
	"errors"
	"fmt"
	"sync"
)

// Lifetime controls instance reuse for a registration.
type Lifetime int

const (
	// Transient produces a new instance on every resolve.
	Transient Lifetime = iota
	// Singleton produces one instance per container tree, computed against
	// the root scope on first resolution.
	Singleton
	// Scoped produces one instance per scope; child scopes do not inherit
	// the parent's scoped instances.
	Scoped
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	default:
		return "transient"
	}
}

// Factory builds an instance. It receives the resolving container so it can
// resolve its own dependencies; resolution is synchronous-reentrant. A cycle
// between tokens is not guarded and will recurse until the stack runs out.
type Factory func(c *Container) (any, error)

// Disposable is implemented by instances holding resources the owning scope
// should release on Dispose.
type Disposable interface {
	Close() error
}

type binding struct {
	factory  Factory
	lifetime Lifetime
}

// Container binds tokens to factories and resolves them honoring lifetime and
// scope rules. A Container is a node in a scope tree: the root holds the
// singleton cache shared by all descendants, and every node holds its own
// scoped-instance cache. Child scopes see the parent's bindings through chain
// lookup; registering in a child shadows the parent's binding for that subtree.
type Container struct {
	mu         sync.RWMutex
	parent     *Container
	root       *Container
	bindings   map[any]binding
	singletons map[any]any // root only
	scoped     map[any]any
}

// NewContainer creates a root scope.
func NewContainer() *Container {
	c := &Container{
		bindings:   make(map[any]binding),
		singletons: make(map[any]any),
		scoped:     make(map[any]any),
	}
	c.root = c
	return c
}

// Register binds token to factory under the given lifetime, overwriting any
// prior binding for the same token in this container. Rebinding does not
// invalidate instances already cached from the old factory.
func (c *Container) Register(token any, factory Factory, lifetime Lifetime) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings[token] = binding{factory: factory, lifetime: lifetime}
}

// Resolve looks up the binding visible to this scope and produces an instance
// per its lifetime. Unregistered tokens fail with *ServiceNotRegisteredError.
func (c *Container) Resolve(token any) (any, error) {
	b, ok := c.lookup(token)
	if !ok {
		return nil, &ServiceNotRegisteredError{Token: token}
	}

	switch b.lifetime {
	case Singleton:
		return c.root.resolveCached(token, b.factory, &c.root.singletons)
	case Scoped:
		return c.resolveCached(token, b.factory, &c.scoped)
	default:
		return b.factory(c)
	}
}

// resolveCached computes the instance at most once per cache. The factory runs
// outside the lock so it may reenter Resolve; first write wins if it did.
func (c *Container) resolveCached(token any, factory Factory, cache *map[any]any) (any, error) {
	c.mu.RLock()
	instance, ok := (*cache)[token]
	c.mu.RUnlock()
	if ok {
		return instance, nil
	}

	instance, err := factory(c)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := (*cache)[token]; ok {
		return cached, nil
	}
	(*cache)[token] = instance
	return instance, nil
}

// Has reports whether a binding for token is visible to this scope. Pure
// lookup, nothing is instantiated.
func (c *Container) Has(token any) bool {
	_, ok := c.lookup(token)
	return ok
}

func (c *Container) lookup(token any) (binding, bool) {
	for s := c; s != nil; s = s.parent {
		s.mu.RLock()
		b, ok := s.bindings[token]
		s.mu.RUnlock()
		if ok {
			return b, true
		}
	}
	return binding{}, false
}

// CreateScope returns a child container that shares this container's bindings
// and the root's singleton cache, with an empty scoped-instance cache.
func (c *Container) CreateScope() *Container {
	return &Container{
		parent:   c,
		root:     c.root,
		bindings: make(map[any]binding),
		scoped:   make(map[any]any),
	}
}

// Dispose closes Disposable instances held in this scope's own caches and
// clears them. Parent caches are untouched. Close failures are collected, not
// short-circuited.
func (c *Container) Dispose() error {
	type held struct {
		token    any
		instance any
	}

	c.mu.Lock()
	instances := make([]held, 0, len(c.scoped))
	for token, instance := range c.scoped {
		instances = append(instances, held{token, instance})
	}
	c.scoped = make(map[any]any)
	if c == c.root {
		for token, instance := range c.singletons {
			instances = append(instances, held{token, instance})
		}
		c.singletons = make(map[any]any)
	}
	c.mu.Unlock()

	var errs []error
	for _, h := range instances {
		d, ok := h.instance.(Disposable)
		if !ok {
			continue
		}
		if err := d.Close(); err != nil {
			errs = append(errs, fmt.Errorf("dispose %s: %w", tokenString(h.token), err))
		}
	}
	return errors.Join(errs...)
}

// TypeKey is a typed token: registrations keyed by a Go type rather than a
// string.
type TypeKey[T any] struct{}

// Provide registers a typed factory under TypeKey[T].
func Provide[T any](c *Container, lifetime Lifetime, fn func(*Container) (T, error)) {
	c.Register(TypeKey[T]{}, func(rc *Container) (any, error) {
		return fn(rc)
	}, lifetime)
}

// ProvideValue registers an already-built value as a singleton under
// TypeKey[T].
func ProvideValue[T any](c *Container, value T) {
	c.Register(TypeKey[T]{}, func(*Container) (any, error) {
		return value, nil
	}, Singleton)
}

// ResolveAs resolves TypeKey[T] and asserts the result.
func ResolveAs[T any](c *Container) (T, error) {
	var zero T
	raw, err := c.Resolve(TypeKey[T]{})
	if err != nil {
		return zero, err
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("container: wrong type for %s: have %T", tokenString(TypeKey[T]{}), raw)
	}
	return v, nil
}

// MustResolve is ResolveAs for wiring paths where a missing binding is a
// programming error.
func MustResolve[T any](c *Container) T {
	v, err := ResolveAs[T](c)
	if err != nil {
		panic(err)
	}
	return v
}
