package dsl

import (
	"context"
	"sort"

	anzen "github.com/anzen-go/anzen"
	"github.com/anzen-go/anzen/i18n"
)

// ObjectNode parses objects with fixed named children. Unknown input keys
// are dropped during Clean; the default value is the object of each child's
// own default. Literal-valued children double as discriminants for union
// matching.
type ObjectNode struct {
	meta   *anzen.Meta
	fields map[string]anzen.Node
	keys   []string // sorted for deterministic traversal
}

// Object returns an object node over the given named children.
func Object(fields map[string]anzen.Node) *ObjectNode {
	o := &ObjectNode{meta: anzen.NewMeta(), fields: map[string]anzen.Node{}}
	for k, n := range fields {
		o.fields[k] = n
	}
	o.keys = sortedKeys(o.fields)
	return o
}

func sortedKeys(m map[string]anzen.Node) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func (o *ObjectNode) clone() *ObjectNode {
	c := *o
	c.meta = o.meta.Clone()
	return &c
}

// Field returns a copy with one more named child. Child nodes themselves are
// shared, not cloned.
func (o *ObjectNode) Field(name string, n anzen.Node) *ObjectNode {
	c := o.clone()
	c.fields = make(map[string]anzen.Node, len(o.fields)+1)
	for k, v := range o.fields {
		c.fields[k] = v
	}
	c.fields[name] = n
	c.keys = sortedKeys(c.fields)
	return c
}

// Optional admits a missing value, yielding the default object.
func (o *ObjectNode) Optional() *ObjectNode {
	c := o.clone()
	c.meta.Optional = true
	return c
}

// Nullable admits an explicit null, yielding the default object.
func (o *ObjectNode) Nullable() *ObjectNode {
	c := o.clone()
	c.meta.Nullable = true
	return c
}

// Default overrides the fallback value.
func (o *ObjectNode) Default(v any) *ObjectNode {
	c := o.clone()
	c.meta.Default = v
	c.meta.HasDefault = true
	return c
}

// OnIssue overrides the message for a core issue code.
func (o *ObjectNode) OnIssue(code string, t anzen.IssueText) *ObjectNode {
	c := o.clone()
	c.meta.SetOverride(code, t)
	return c
}

// Refine appends a synchronous refinement over the parsed object.
func (o *ObjectNode) Refine(name string, fn anzen.RefineFunc, msg ...anzen.IssueText) *ObjectNode {
	c := o.clone()
	c.meta.AddRule(refineRule(name, fn, msg))
	return c
}

// RefineAsync appends an asynchronous refinement.
func (o *ObjectNode) RefineAsync(name string, fn anzen.RefineAsyncFunc, msg ...anzen.IssueText) *ObjectNode {
	c := o.clone()
	c.meta.AddAsyncRule(asyncRule(name, fn, msg))
	return c
}

// Apply attaches a named extension from ObjectRules.
func (o *ObjectNode) Apply(name string, args ...any) *ObjectNode {
	c := o.clone()
	c.meta.Apply(ObjectRules, name, args)
	return c
}

// FieldNodes exposes the declared children for input-tree rendering and
// union matching. The returned map is read-only.
func (o *ObjectNode) FieldNodes() map[string]anzen.Node { return o.fields }

// literalFields returns the literal-valued children, the discriminants used
// by union resolution.
func (o *ObjectNode) literalFields() map[string]*LiteralNode {
	var out map[string]*LiteralNode
	for k, n := range o.fields {
		if l, ok := n.(*LiteralNode); ok {
			if out == nil {
				out = map[string]*LiteralNode{}
			}
			out[k] = l
		}
	}
	return out
}

// ---- anzen.Node ----

func (o *ObjectNode) Kind() anzen.Kind  { return anzen.KindObject }
func (o *ObjectNode) Meta() *anzen.Meta { return o.meta }

func (o *ObjectNode) DefaultValue() any {
	out := make(map[string]any, len(o.fields))
	for k, n := range o.fields {
		out[k] = anzen.DefaultOf(n)
	}
	return out
}

func (o *ObjectNode) Resolve(pc *anzen.Context, raw any) anzen.Node { return o }

func (o *ObjectNode) Check(pc *anzen.Context, raw any) *anzen.Issue {
	if _, ok := raw.(map[string]any); ok {
		return nil
	}
	return &anzen.Issue{Code: anzen.CodeInvalidType, Message: i18n.T(anzen.CodeInvalidType, nil)}
}

func (o *ObjectNode) Coerce(pc *anzen.Context, raw any) (any, bool) { return nil, false }

// Clean drops unknown keys, keeping declared keys that were present in the
// input (including explicit nulls, so null handling can tell them apart from
// missing keys).
func (o *ObjectNode) Clean(pc *anzen.Context, v any) any {
	src, ok := v.(map[string]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(o.fields))
	for _, k := range o.keys {
		if val, present := src[k]; present {
			out[k] = val
		}
	}
	return out
}

func (o *ObjectNode) ParseChildren(pc *anzen.Context, v any) any {
	src, ok := v.(map[string]any)
	if !ok {
		return v
	}
	out := src
	for _, k := range o.keys {
		raw, present := src[k]
		child := o.fields[k]
		_ = pc.Scoped(k, func() error {
			out[k] = pc.ParseNode(child, raw, present)
			return nil
		})
	}
	return out
}

func (o *ObjectNode) RuleChildren(pc *anzen.Context, v any) error {
	m, _ := v.(map[string]any)
	for _, k := range o.keys {
		child := o.fields[k]
		var cv any
		if m != nil {
			cv = m[k]
		}
		if err := pc.Scoped(k, func() error { return pc.ApplyRules(child, cv) }); err != nil {
			return err
		}
	}
	return nil
}

func (o *ObjectNode) RuleChildrenAsync(ctx context.Context, pc *anzen.Context, v any) error {
	m, _ := v.(map[string]any)
	for _, k := range o.keys {
		child := o.fields[k]
		var cv any
		if m != nil {
			cv = m[k]
		}
		if err := pc.Scoped(k, func() error { return pc.ApplyRulesAsync(ctx, child, cv) }); err != nil {
			return err
		}
	}
	return nil
}

func (o *ObjectNode) HasAsyncRules() bool {
	if o.meta.HasOwnAsync() {
		return true
	}
	for _, n := range o.fields {
		if n.HasAsyncRules() {
			return true
		}
	}
	return false
}
