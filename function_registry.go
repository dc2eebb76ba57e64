package mfdata

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-mfdata/storage"
	"github.com/goliatone/go-mfdata/structure"
	"github.com/spf13/cast"
)

// Function is a callable exposed to expressions.
type Function func(args ...any) (any, error)

// Variadic is the arity of functions accepting any argument count.
const Variadic = -1

var functionName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type registered struct {
	fn    Function
	arity int
}

// FunctionRegistry maps lowercase names to functions. Call checks the
// argument count against the arity given at registration.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]registered
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: map[string]registered{}}
}

// BuiltinFunctions returns a registry holding:
//
//	entry(value, type)  value rendered as it would appear in an input file
//	onebased(n)         n plus one, the way periods and layers are written
func BuiltinFunctions() *FunctionRegistry {
	r := NewFunctionRegistry()
	_ = r.RegisterArity("entry", 2, entryFunction)
	_ = r.RegisterArity("onebased", 1, oneBasedFunction)
	return r
}

// Register stores a variadic fn under name.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	return r.RegisterArity(name, Variadic, fn)
}

// RegisterArity stores fn under name, called with exactly arity arguments.
// Names must be identifiers and are case-insensitive; a name can only be
// registered once.
func (r *FunctionRegistry) RegisterArity(name string, arity int, fn Function) error {
	key := strings.ToLower(strings.TrimSpace(name))
	switch {
	case fn == nil:
		return fmt.Errorf("mfdata: function %q is nil", name)
	case !functionName.MatchString(key):
		return fmt.Errorf("mfdata: invalid function name %q", name)
	case arity < Variadic:
		return fmt.Errorf("mfdata: function %q has invalid arity %d", name, arity)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = map[string]registered{}
	}
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("mfdata: function %q already registered", name)
	}
	r.functions[key] = registered{fn: fn, arity: arity}
	return nil
}

// Clone copies the registry so later registrations do not leak between
// the copies.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &FunctionRegistry{functions: maps.Clone(r.functions)}
}

// Call runs the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("mfdata: no functions registered")
	}
	r.mu.RLock()
	entry, ok := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("mfdata: function %q not registered", name)
	}
	if entry.arity != Variadic && len(args) != entry.arity {
		return nil, fmt.Errorf("mfdata: %s expects %d arguments, got %d", strings.ToLower(name), entry.arity, len(args))
	}
	return entry.fn(args...)
}

// Names lists the registered names, sorted.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.functions))
}

// WithFunctionRegistry makes a copy of registry available to evaluations,
// replacing any functions set before.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *config) {
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction adds a variadic function to the package registry.
// Invalid or duplicate names are ignored.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *config) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}

func entryFunction(args ...any) (any, error) {
	typ, err := structure.ParseItemType(cast.ToString(args[1]))
	if err != nil {
		return nil, err
	}
	value, err := storage.Convert(args[0], typ)
	if err != nil {
		return nil, err
	}
	return storage.Format(value, typ, false, 0), nil
}

func oneBasedFunction(args ...any) (any, error) {
	n, err := cast.ToIntE(args[0])
	if err != nil {
		return nil, err
	}
	return n + 1, nil
}
