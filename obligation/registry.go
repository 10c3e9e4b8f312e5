package obligation

import (
	"sort"

	"cattletrail/errs"
)

// Definition registers metadata for an action kind.
type Definition struct {
	Kind        Kind
	Description string
}

// Registry is the closed set of action kinds a game understands.
type Registry struct {
	definitions map[Kind]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[Kind]Definition)}
}

// Register adds definitions, rejecting empty and duplicate kinds.
func (r *Registry) Register(defs ...Definition) error {
	for _, d := range defs {
		if d.Kind == "" {
			return errs.ErrKindRequired
		}
		if _, ok := r.definitions[d.Kind]; ok {
			return errs.WithMetadata(errs.CodeKindDuplicate, "action kind already registered: "+string(d.Kind),
				map[string]string{"kind": string(d.Kind)})
		}
		r.definitions[d.Kind] = d
	}
	return nil
}

// Definition returns the definition for kind.
func (r *Registry) Definition(kind Kind) (Definition, bool) {
	d, ok := r.definitions[kind]
	return d, ok
}

// Kinds returns all registered kinds in sorted order.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.definitions))
	for k := range r.definitions {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Validate checks that every kind mentioned in the tree is registered.
func (r *Registry) Validate(n *Node) error {
	var unknown Kind
	n.Walk(func(k Kind) {
		if _, ok := r.definitions[k]; !ok && unknown == "" {
			unknown = k
		}
	})
	if unknown != "" {
		return errs.WithMetadata(errs.CodeKindUnknown, "action kind is not registered: "+string(unknown),
			map[string]string{"kind": string(unknown)})
	}
	return nil
}
