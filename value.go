package anzen

import (
	"iter"
	"sort"
)

// Value is the path-tracking view handed to refinement callbacks. Every
// field or index access moves the parse context's current path to the
// accessed child before returning the (cached) child view, so an issue
// raised with no explicit path attaches to the most recently accessed field.
//
// The wrapper cache is path-keyed: revisiting the same child returns the
// same *Value instance, so PathOf lookups stay referentially stable.
type Value struct {
	pc   *Context
	path Path
	raw  any
}

// view returns the cached wrapper for a path, creating it on first access.
func (pc *Context) view(path Path, raw any) *Value {
	key := path.Pointer()
	if v, ok := pc.views[key]; ok {
		return v
	}
	v := &Value{pc: pc, path: path, raw: raw}
	pc.views[key] = v
	return v
}

// PathOf returns the path a wrapper was constructed for; nil wrappers yield
// the empty path, matching the behavior for non-wrapped primitives.
func PathOf(v *Value) Path {
	if v == nil {
		return nil
	}
	return append(Path{}, v.path...)
}

// Get returns the view of an object field and moves the current path to it.
// Missing fields yield a view over nil.
func (v *Value) Get(name string) *Value {
	child := v.path.Field(name)
	var cr any
	if m, ok := v.raw.(map[string]any); ok {
		cr = m[name]
	}
	cv := v.pc.view(child, cr)
	v.pc.SetPath(child)
	return cv
}

// Index returns the view of an array element and moves the current path to
// it. Out-of-range indices yield a view over nil.
func (v *Value) Index(i int) *Value {
	child := v.path.Index(i)
	var cr any
	if a, ok := v.raw.([]any); ok && i >= 0 && i < len(a) {
		cr = a[i]
	}
	cv := v.pc.view(child, cr)
	v.pc.SetPath(child)
	return cv
}

// Items iterates array elements, updating the current path per visited index
// rather than leaving it at the array's own path.
func (v *Value) Items() iter.Seq2[int, *Value] {
	return func(yield func(int, *Value) bool) {
		a, ok := v.raw.([]any)
		if !ok {
			return
		}
		for i := range a {
			if !yield(i, v.Index(i)) {
				return
			}
		}
	}
}

// Keys returns the object's field names in sorted order.
func (v *Value) Keys() []string {
	m, ok := v.raw.(map[string]any)
	if !ok {
		return nil
	}
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// Raw returns the unwrapped value at this path.
func (v *Value) Raw() any { return v.raw }

// IsNil reports whether the value at this path is null or missing.
func (v *Value) IsNil() bool { return v.raw == nil }

// Len returns the element count for arrays and objects, the byte length for
// strings, and 0 otherwise.
func (v *Value) Len() int {
	switch t := v.raw.(type) {
	case []any:
		return len(t)
	case map[string]any:
		return len(t)
	case string:
		return len(t)
	default:
		return 0
	}
}

// Str returns the value as a string (zero value on mismatch).
func (v *Value) Str() string {
	s, _ := v.raw.(string)
	return s
}

// Num returns the value as a float64 (zero value on mismatch).
func (v *Value) Num() float64 {
	switch t := v.raw.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	}
	return 0
}

// Bool returns the value as a bool (zero value on mismatch).
func (v *Value) Bool() bool {
	b, _ := v.raw.(bool)
	return b
}
