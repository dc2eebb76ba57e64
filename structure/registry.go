package structure

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry indexes structures by their block qualified path.
type Registry struct {
	mu         sync.RWMutex
	structures map[string]*Structure
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{structures: make(map[string]*Structure)}
}

// RegistryFor indexes every field of def.
func RegistryFor(def *Definition) (*Registry, error) {
	r := NewRegistry()
	for _, st := range def.Structures() {
		if err := r.Register(st); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register stores st guarding against duplicates.
func (r *Registry) Register(st *Structure) error {
	if err := st.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.structures == nil {
		r.structures = make(map[string]*Structure)
	}
	key := st.Path()
	if _, exists := r.structures[key]; exists {
		return fmt.Errorf("structure: %q already registered", key)
	}
	r.structures[key] = st
	return nil
}

// Lookup returns the structure registered for block and name.
func (r *Registry) Lookup(block, name string) (*Structure, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.structures[strings.ToLower(block+"/"+name)]
	return st, ok
}

// Names returns registered paths sorted alphabetically.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.structures))
	for name := range r.structures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
