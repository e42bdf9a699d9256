package anzen

import "context"

// Kind identifies the concrete kind of a type node.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBool    Kind = "bool"
	KindLiteral Kind = "literal"
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindRecord  Kind = "record"
	KindUnion   Kind = "union"
)

// Node is one schema unit: a type node describing the shape and validation
// rules of a single value. Implementations live under dsl/; the engine in
// this package drives them through the hooks below.
//
// Nodes are read-only after construction. Every chainable configuration call
// clones the node, so values built earlier are never mutated and may be
// shared across many concurrent parse calls.
type Node interface {
	Kind() Kind
	// Meta exposes the shared configuration: optionality flags, core-issue
	// overrides, and the sync/async refinement lists.
	Meta() *Meta
	// DefaultValue is the fallback result used when null handling admits a
	// missing value or when a structural failure leaves no usable value.
	DefaultValue() any

	// Resolve lets union-like nodes delegate to a concrete member before any
	// checking happens. Non-composite nodes return themselves.
	Resolve(pc *Context, raw any) Node
	// Check is the structural predicate: nil means pass, otherwise the
	// returned issue describes the mismatch (the engine fills in the path).
	Check(pc *Context, raw any) *Issue
	// Coerce attempts a best-effort conversion after a failed Check.
	Coerce(pc *Context, raw any) (any, bool)
	// Clean normalizes a structurally valid value (trimming, dropping unknown
	// keys). Returning nil signals the value normalized to "missing" and
	// re-enters null handling.
	Clean(pc *Context, v any) any
	// ParseChildren recurses structural parsing into child nodes, writing
	// results back into a shallow copy of v.
	ParseChildren(pc *Context, v any) any

	// RuleChildren recurses the synchronous refinement phase into children.
	RuleChildren(pc *Context, v any) error
	// RuleChildrenAsync is the awaitable counterpart of RuleChildren.
	RuleChildrenAsync(ctx context.Context, pc *Context, v any) error
	// HasAsyncRules reports whether this node or any descendant carries an
	// asynchronous refinement.
	HasAsyncRules() bool
}

// RefineFunc is a synchronous refinement callback. It receives a
// path-tracking view of the value; raising an issue without an explicit path
// attributes it to the most recently accessed field. The return value may be
// nothing, an Issue, or a sequence possibly containing issues.
type RefineFunc func(rc *RefineCtx, v *Value) (any, error)

// RefineAsyncFunc is an asynchronous refinement callback. Async refinements
// run strictly sequentially, only after the entire tree's synchronous phase
// has completed.
type RefineAsyncFunc func(ctx context.Context, rc *RefineCtx, v *Value) (any, error)

// Rule is one named-or-anonymous refinement entry on a node. Exactly one of
// Fn/AsyncFn is set. Args retains the extension call arguments for
// introspection.
type Rule struct {
	Name    string
	Args    []any
	Fn      RefineFunc
	AsyncFn RefineAsyncFunc
	Msg     *IssueText
}

// Meta is the node configuration shared by every kind: optionality and
// nullability flags, core-issue overrides (invalid_type/required), the
// ordered refinement lists, and an optional declared default.
type Meta struct {
	Optional   bool
	Nullable   bool
	Overrides  map[string]IssueText
	Rules      []Rule
	AsyncRules []Rule
	Default    any
	HasDefault bool
}

// NewMeta returns an empty node configuration.
func NewMeta() *Meta { return &Meta{} }

// Clone produces a copy with independent override and rule lists so that
// chained configuration never mutates a previously built node.
func (m *Meta) Clone() *Meta {
	c := &Meta{
		Optional:   m.Optional,
		Nullable:   m.Nullable,
		Default:    m.Default,
		HasDefault: m.HasDefault,
	}
	if len(m.Overrides) > 0 {
		c.Overrides = make(map[string]IssueText, len(m.Overrides))
		for k, v := range m.Overrides {
			c.Overrides[k] = v
		}
	}
	c.Rules = append([]Rule(nil), m.Rules...)
	c.AsyncRules = append([]Rule(nil), m.AsyncRules...)
	return c
}

// SetOverride registers replacement text for a core issue code
// (invalid_type or required).
func (m *Meta) SetOverride(code string, t IssueText) {
	if m.Overrides == nil {
		m.Overrides = map[string]IssueText{}
	}
	m.Overrides[code] = t
}

// AddRule appends a synchronous refinement entry. Re-adding a named entry
// replaces the prior one in place, keeping its position in the order.
func (m *Meta) AddRule(r Rule) {
	if r.Name != "" {
		for i := range m.Rules {
			if m.Rules[i].Name == r.Name {
				m.Rules[i] = r
				return
			}
		}
	}
	m.Rules = append(m.Rules, r)
}

// AddAsyncRule appends an asynchronous refinement entry with the same
// replace-in-place semantics as AddRule.
func (m *Meta) AddAsyncRule(r Rule) {
	if r.Name != "" {
		for i := range m.AsyncRules {
			if m.AsyncRules[i].Name == r.Name {
				m.AsyncRules[i] = r
				return
			}
		}
	}
	m.AsyncRules = append(m.AsyncRules, r)
}

// ArgsOf returns the exact argument list the named refinement was applied
// with, or false if no such entry exists on this node.
func (m *Meta) ArgsOf(name string) ([]any, bool) {
	for _, r := range m.Rules {
		if r.Name == name {
			return r.Args, true
		}
	}
	for _, r := range m.AsyncRules {
		if r.Name == name {
			return r.Args, true
		}
	}
	return nil, false
}

// HasOwnAsync reports whether this node itself declares async refinements,
// ignoring descendants.
func (m *Meta) HasOwnAsync() bool { return len(m.AsyncRules) > 0 }

// Apply resolves a named extension in reg and registers the built validator
// under the extension's name. A trailing IssueText argument is split off as
// the message override. It panics when the extension is unknown: calling an
// unregistered extension is a schema-construction bug, not a data problem.
func (m *Meta) Apply(reg *Registry, name string, args []any) {
	ext, ok := reg.Lookup(name)
	if !ok {
		panic("anzen: unknown extension " + name)
	}
	var msg *IssueText
	if len(args) > 0 {
		if t, ok := isIssueText(args[len(args)-1]); ok {
			msg = &t
			args = args[:len(args)-1]
		}
	}
	r := Rule{Name: name, Args: args, Msg: msg}
	if ext.Async {
		r.AsyncFn = ext.BuildAsync(args...)
		m.AddAsyncRule(r)
		return
	}
	r.Fn = ext.Build(args...)
	m.AddRule(r)
}

// DefaultOf honors an explicitly configured Default over the kind's
// intrinsic default value.
func DefaultOf(n Node) any {
	if m := n.Meta(); m.HasDefault {
		return m.Default
	}
	return n.DefaultValue()
}
