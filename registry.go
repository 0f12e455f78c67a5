package gio

import (
	"reflect"
	"sync"
)

// Registry keeps the process-wide interceptor tiers: the global list and the
// named group lists. It is an explicit object rather than package state so
// tests can build isolated registries; DefaultRegistry covers the common
// single-registry case. All reads return point-in-time copies, so a
// registration made mid-flight never alters an in-progress call's ordering.
type Registry struct {
	global []Interceptor
	groups map[string][]Interceptor
	lock   sync.RWMutex
}

// NewRegistry makes an empty registry.
func NewRegistry() *Registry {
	return &Registry{groups: map[string][]Interceptor{}}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the shared process-wide registry.
func DefaultRegistry() *Registry { return defaultRegistry }

// SetGlobal replaces the global tier.
func (r *Registry) SetGlobal(interceptors ...Interceptor) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.global = icopy(interceptors)
}

// AddGlobal appends to the global tier.
func (r *Registry) AddGlobal(interceptors ...Interceptor) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.global = append(r.global, interceptors...)
}

// Global returns a snapshot of the global tier.
func (r *Registry) Global() []Interceptor {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return icopy(r.global)
}

// Group returns a handle to the named group tier, creating the name on first
// mutation. Handles for the same name share the underlying list.
func (r *Registry) Group(name string) *Group {
	return &Group{name: name, registry: r}
}

func (r *Registry) groupSnapshot(name string) []Interceptor {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return icopy(r.groups[name])
}

// Group is a handle to one named interceptor list inside a registry.
type Group struct {
	name     string
	registry *Registry
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Add appends interceptors to the group list.
func (g *Group) Add(interceptors ...Interceptor) {
	g.registry.lock.Lock()
	defer g.registry.lock.Unlock()
	g.registry.groups[g.name] = append(g.registry.groups[g.name], interceptors...)
}

// Remove drops the first occurrence of the given interceptor, matched by
// identity. Removing an absent interceptor is a no-op.
func (g *Group) Remove(interceptor Interceptor) {
	g.registry.lock.Lock()
	defer g.registry.lock.Unlock()
	lst := g.registry.groups[g.name]
	for i, ic := range lst {
		if sameInterceptor(ic, interceptor) {
			g.registry.groups[g.name] = append(lst[:i:i], lst[i+1:]...)
			return
		}
	}
}

// Clear drops the whole group list.
func (g *Group) Clear() {
	g.registry.lock.Lock()
	defer g.registry.lock.Unlock()
	delete(g.registry.groups, g.name)
}

// Interceptors returns a snapshot of the group list.
func (g *Group) Interceptors() []Interceptor {
	return g.registry.groupSnapshot(g.name)
}

func icopy(src []Interceptor) []Interceptor {
	if len(src) == 0 {
		return nil
	}
	res := make([]Interceptor, len(src))
	copy(res, src)
	return res
}

// sameInterceptor reports identity of two interceptors. Function values are
// matched by code pointer, everything else by plain comparison when the
// dynamic type allows it.
func sameInterceptor(a, b Interceptor) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Kind() == reflect.Func || bv.Kind() == reflect.Func {
		return av.Kind() == bv.Kind() && av.Pointer() == bv.Pointer()
	}
	if !av.Type().Comparable() || !bv.Type().Comparable() {
		return false
	}
	return a == b
}
