package anzen

import "fmt"

// Extension is a named, parameterized validator factory that can be attached
// to a node kind without modifying it. Async must be declared up front;
// exactly one of Build/BuildAsync is consulted accordingly.
type Extension struct {
	Name       string
	Async      bool
	Build      func(args ...any) RefineFunc
	BuildAsync func(args ...any) RefineAsyncFunc
}

// Registry is the capability-keyed extension table for one node kind.
// "Attaching" an extension populates the registry; node instances look
// entries up by name when Apply is chained.
type Registry struct {
	reserved map[string]struct{}
	entries  map[string]Extension
}

// NewRegistry creates an empty registry. The reserved names are the target
// kind's built-in chainable methods; registering an extension under one of
// them is refused so built-in behavior is never silently shadowed.
func NewRegistry(reserved ...string) *Registry {
	r := &Registry{
		reserved: make(map[string]struct{}, len(reserved)),
		entries:  map[string]Extension{},
	}
	for _, n := range reserved {
		r.reserved[n] = struct{}{}
	}
	return r
}

// Register adds an extension. Re-registering an extension name replaces the
// prior entry; colliding with a built-in name is a hard configuration error.
func (r *Registry) Register(ext Extension) error {
	if ext.Name == "" {
		return fmt.Errorf("anzen: extension name must not be empty")
	}
	if _, res := r.reserved[ext.Name]; res {
		return fmt.Errorf("anzen: extension %q collides with a built-in method", ext.Name)
	}
	if ext.Async && ext.BuildAsync == nil {
		return fmt.Errorf("anzen: async extension %q has no BuildAsync", ext.Name)
	}
	if !ext.Async && ext.Build == nil {
		return fmt.Errorf("anzen: extension %q has no Build", ext.Name)
	}
	r.entries[ext.Name] = ext
	return nil
}

// MustRegister is Register but panics on error.
func (r *Registry) MustRegister(ext Extension) {
	if err := r.Register(ext); err != nil {
		panic(err)
	}
}

// Lookup returns the extension registered under name.
func (r *Registry) Lookup(name string) (Extension, bool) {
	ext, ok := r.entries[name]
	return ext, ok
}

// AppliedArgs returns the exact argument list a node instance was configured
// with for the named extension, or false when that extension was never
// applied to the instance.
func (r *Registry) AppliedArgs(n Node, name string) ([]any, bool) {
	if _, ok := r.entries[name]; !ok {
		return nil, false
	}
	return n.Meta().ArgsOf(name)
}
