package lox

import (
	"fmt"
	"sort"
	"strings"
)

// Scope maps names to values. Scopes link to their parent, so a chain
// can be captured by a closure and outlive the block that made it.
// The resolver instantiates Scope[bool] (declared vs initialized);
// the interpreter instantiates Scope[Value].
type Scope[V any] struct {
	Map    map[string]V
	Parent *Scope[V]
	Name   string
}

func NewScope[V any](parent *Scope[V]) *Scope[V] {
	return &Scope[V]{
		Map:    make(map[string]V),
		Parent: parent,
	}
}

func NewNamedScope[V any](name string, parent *Scope[V]) *Scope[V] {
	s := NewScope(parent)
	s.Name = name
	return s
}

// Environment is a scope chain: Top is the innermost, mutable scope
// and lookups walk outward through Parent links.
type Environment[V any] struct {
	Top *Scope[V]

	// the bottom scope is never popped.
	floor *Scope[V]
}

// NewEnvironment starts a chain at base. A nil base gives an empty
// chain, which is what the resolver uses at top level.
func NewEnvironment[V any](base *Scope[V]) *Environment[V] {
	return &Environment[V]{Top: base, floor: base}
}

func (env *Environment[V]) IsEmpty() bool {
	return env.Top == nil
}

// Depth counts the scopes on the chain.
func (env *Environment[V]) Depth() int {
	n := 0
	for s := env.Top; s != nil; s = s.Parent {
		n++
	}
	return n
}

func (env *Environment[V]) PushScope() {
	env.Top = NewScope(env.Top)
}

func (env *Environment[V]) PopScope() error {
	if env.Top == nil || env.Top == env.floor {
		return ErrScopeUnderflow
	}
	env.Top = env.Top.Parent
	return nil
}

// Define always binds in the innermost scope, silently shadowing.
func (env *Environment[V]) Define(name string, val V) {
	if env.Top == nil {
		return
	}
	env.Top.Map[name] = val
}

func (env *Environment[V]) lookup(name string) (*Scope[V], bool) {
	for s := env.Top; s != nil; s = s.Parent {
		if _, ok := s.Map[name]; ok {
			return s, true
		}
	}
	return nil, false
}

func (env *Environment[V]) Get(name string) (V, error) {
	s, ok := env.lookup(name)
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
	}
	return s.Map[name], nil
}

// Assign updates the nearest existing binding; it never creates one.
func (env *Environment[V]) Assign(name string, val V) error {
	s, ok := env.lookup(name)
	if !ok {
		return fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
	}
	s.Map[name] = val
	return nil
}

// ResolveDepth reports how many hops outward from Top the nearest
// scope declaring name is.
func (env *Environment[V]) ResolveDepth(name string) (int, bool) {
	depth := 0
	for s := env.Top; s != nil; s = s.Parent {
		if _, ok := s.Map[name]; ok {
			return depth, true
		}
		depth++
	}
	return 0, false
}

func (env *Environment[V]) Ancestor(depth int) (*Scope[V], error) {
	s := env.Top
	for i := 0; i < depth && s != nil; i++ {
		s = s.Parent
	}
	if s == nil {
		return nil, ErrScopeUnderflow
	}
	return s, nil
}

// GetAt reads name directly from the scope depth hops out.
func (env *Environment[V]) GetAt(depth int, name string) (V, error) {
	var zero V
	s, err := env.Ancestor(depth)
	if err != nil {
		return zero, err
	}
	val, ok := s.Map[name]
	if !ok {
		return zero, fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
	}
	return val, nil
}

func (env *Environment[V]) AssignAt(depth int, name string, val V) error {
	s, err := env.Ancestor(depth)
	if err != nil {
		return err
	}
	if _, ok := s.Map[name]; !ok {
		return fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
	}
	s.Map[name] = val
	return nil
}

type SymtabE struct {
	Key string
	Val string
}

type SymtabSorter []*SymtabE

func (a SymtabSorter) Len() int           { return len(a) }
func (a SymtabSorter) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a SymtabSorter) Less(i, j int) bool { return a[i].Key < a[j].Key }

// Entries lists the scope's bindings sorted by name.
func (s *Scope[V]) Entries() []*SymtabE {
	sortme := []*SymtabE{}
	for name, val := range s.Map {
		sortme = append(sortme, &SymtabE{Key: name, Val: showValue(val)})
	}
	sort.Sort(SymtabSorter(sortme))
	return sortme
}

func showValue(v interface{}) string {
	if val, ok := v.(Value); ok {
		return Render(val)
	}
	return fmt.Sprintf("%v", v)
}

// Show lists every scope from innermost to outermost.
func (env *Environment[V]) Show(label string) string {
	s := fmt.Sprintf(" %s\n", label)
	i := 0
	for scop := env.Top; scop != nil; scop = scop.Parent {
		name := scop.Name
		if name == "" {
			name = "block"
		}
		s += fmt.Sprintf("    scope %d (%s)\n", i, name)
		entries := scop.Entries()
		if len(entries) == 0 {
			s += "        empty-scope: no symbols\n"
		}
		for _, e := range entries {
			s += fmt.Sprintf("        %s -> %s\n", e.Key, e.Val)
		}
		i++
	}
	return strings.TrimRight(s, "\n")
}

// Snapshot flattens the chain, innermost first, into rendered
// bindings. It has no pointers, so it is safe to dump.
func (env *Environment[V]) Snapshot() []map[string]string {
	var out []map[string]string
	for scop := env.Top; scop != nil; scop = scop.Parent {
		m := make(map[string]string, len(scop.Map))
		for name, val := range scop.Map {
			m[name] = showValue(val)
		}
		out = append(out, m)
	}
	return out
}
