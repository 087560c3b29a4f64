package algorithm

import (
	"fmt"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/domain"
)

// Entry binds a descriptor to the handler that executes it.
type Entry struct {
	Descriptor domain.AlgorithmDescriptor
	Handler    primary.AlgorithmHandler
}

// Registry is the closed, ordered set of algorithms. It is built once and
// never mutated afterwards.
type Registry struct {
	entries []Entry
	byID    map[domain.AlgorithmID]int
}

// NewRegistry builds a registry from entries in registration order. Duplicate
// identifiers are a programming error.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{
		entries: make([]Entry, len(entries)),
		byID:    make(map[domain.AlgorithmID]int, len(entries)),
	}
	for i, e := range entries {
		if _, dup := r.byID[e.Descriptor.ID]; dup {
			panic(fmt.Sprintf("algorithm %q registered twice", e.Descriptor.ID))
		}
		r.entries[i] = e
		r.byID[e.Descriptor.ID] = i
	}
	return r
}

// All returns every descriptor in registration order.
func (r *Registry) All() []domain.AlgorithmDescriptor {
	out := make([]domain.AlgorithmDescriptor, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Descriptor
	}
	return out
}

// Filter returns the descriptors tagged with category, in registration order.
func (r *Registry) Filter(category domain.Category) []domain.AlgorithmDescriptor {
	out := make([]domain.AlgorithmDescriptor, 0, len(r.entries))
	for _, e := range r.entries {
		if e.Descriptor.HasCategory(category) {
			out = append(out, e.Descriptor)
		}
	}
	return out
}

// Classify returns the categories of id, false if it is not registered.
func (r *Registry) Classify(id domain.AlgorithmID) ([]domain.Category, bool) {
	i, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	categories := r.entries[i].Descriptor.Categories
	out := make([]domain.Category, len(categories))
	copy(out, categories)
	return out, true
}

// Lookup returns the entry registered under id.
func (r *Registry) Lookup(id domain.AlgorithmID) (Entry, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}
