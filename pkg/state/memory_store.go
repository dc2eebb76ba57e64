package state

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
)

// MemoryStore keeps every saved revision of each ref in memory. Load
// returns the latest one.
type MemoryStore[T any] struct {
	mu        sync.RWMutex
	revisions map[string][]revision[T]
	// Keep bounds the revisions held per ref. Zero keeps all of them.
	Keep int
}

type revision[T any] struct {
	value T
	meta  Meta
}

func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{revisions: map[string][]revision[T]{}}
}

func (s *MemoryStore[T]) Load(_ context.Context, ref Ref) (T, Meta, bool, error) {
	var zero T
	key, err := ref.Identifier()
	if err != nil {
		return zero, Meta{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	revs := s.revisions[key]
	if len(revs) == 0 {
		return zero, Meta{}, false, nil
	}
	last := revs[len(revs)-1]
	return last.value, copyMeta(last.meta), true, nil
}

// Save appends a revision for ref, dropping the oldest ones beyond Keep.
func (s *MemoryStore[T]) Save(_ context.Context, ref Ref, value T, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}
	meta = copyMeta(meta)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revisions == nil {
		s.revisions = map[string][]revision[T]{}
	}
	revs := append(s.revisions[key], revision[T]{value: value, meta: meta})
	if s.Keep > 0 && len(revs) > s.Keep {
		revs = slices.Clone(revs[len(revs)-s.Keep:])
	}
	s.revisions[key] = revs
	return copyMeta(meta), nil
}

// History lists the metadata of the kept revisions of ref, oldest first.
func (s *MemoryStore[T]) History(ref Ref) ([]Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Meta, 0, len(s.revisions[key]))
	for _, rev := range s.revisions[key] {
		out = append(out, copyMeta(rev.meta))
	}
	return out, nil
}

// Delete forgets ref and its history.
func (s *MemoryStore[T]) Delete(_ context.Context, ref Ref) error {
	key, err := ref.Identifier()
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.revisions, key)
	s.mu.Unlock()
	return nil
}

// Packages lists the packages stored for model, sorted.
func (s *MemoryStore[T]) Packages(model string) []string {
	prefix := strings.ToLower(strings.TrimSpace(model)) + "/"
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for key := range s.revisions {
		if pkg, ok := strings.CutPrefix(key, prefix); ok {
			out = append(out, pkg)
		}
	}
	slices.Sort(out)
	return out
}

// Len counts the refs holding at least one revision.
func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.revisions)
}

func copyMeta(meta Meta) Meta {
	meta.Extra = maps.Clone(meta.Extra)
	return meta
}
