package dsl

import (
	"context"

	anzen "github.com/anzen-go/anzen"
	"github.com/anzen-go/anzen/i18n"
)

// ArrayNode applies a single item node to every element. Sparse (nil) slots
// are skipped, not treated as holes needing defaults. With WrapScalar a
// non-array input coerces into a one-element array.
type ArrayNode struct {
	meta *anzen.Meta
	item anzen.Node
	wrap *bool
}

// Array returns an array node over the given item node.
func Array(item anzen.Node) *ArrayNode {
	return &ArrayNode{meta: anzen.NewMeta(), item: item}
}

func (a *ArrayNode) clone() *ArrayNode {
	c := *a
	c.meta = a.meta.Clone()
	return &c
}

// Optional admits a missing value, yielding the default (empty array).
func (a *ArrayNode) Optional() *ArrayNode {
	c := a.clone()
	c.meta.Optional = true
	return c
}

// Nullable admits an explicit null, yielding the default (empty array).
func (a *ArrayNode) Nullable() *ArrayNode {
	c := a.clone()
	c.meta.Nullable = true
	return c
}

// Default overrides the fallback value.
func (a *ArrayNode) Default(v any) *ArrayNode {
	c := a.clone()
	c.meta.Default = v
	c.meta.HasDefault = true
	return c
}

// OnIssue overrides the message for a core issue code.
func (a *ArrayNode) OnIssue(code string, t anzen.IssueText) *ArrayNode {
	c := a.clone()
	c.meta.SetOverride(code, t)
	return c
}

// Refine appends a synchronous refinement over the parsed array.
func (a *ArrayNode) Refine(name string, fn anzen.RefineFunc, msg ...anzen.IssueText) *ArrayNode {
	c := a.clone()
	c.meta.AddRule(refineRule(name, fn, msg))
	return c
}

// RefineAsync appends an asynchronous refinement.
func (a *ArrayNode) RefineAsync(name string, fn anzen.RefineAsyncFunc, msg ...anzen.IssueText) *ArrayNode {
	c := a.clone()
	c.meta.AddAsyncRule(asyncRule(name, fn, msg))
	return c
}

// Apply attaches a named extension from ArrayRules.
func (a *ArrayNode) Apply(name string, args ...any) *ArrayNode {
	c := a.clone()
	c.meta.Apply(ArrayRules, name, args)
	return c
}

// WrapScalar coerces a non-array input into a one-element array.
func (a *ArrayNode) WrapScalar() *ArrayNode {
	c := a.clone()
	c.wrap = anzen.True
	return c
}

// ItemNode exposes the item node for input-tree rendering.
func (a *ArrayNode) ItemNode() anzen.Node { return a.item }

// ---- anzen.Node ----

func (a *ArrayNode) Kind() anzen.Kind  { return anzen.KindArray }
func (a *ArrayNode) Meta() *anzen.Meta { return a.meta }
func (a *ArrayNode) DefaultValue() any { return []any{} }

func (a *ArrayNode) Resolve(pc *anzen.Context, raw any) anzen.Node { return a }

func (a *ArrayNode) Check(pc *anzen.Context, raw any) *anzen.Issue {
	if _, ok := raw.([]any); ok {
		return nil
	}
	return &anzen.Issue{Code: anzen.CodeInvalidType, Message: i18n.T(anzen.CodeInvalidType, nil)}
}

func (a *ArrayNode) Coerce(pc *anzen.Context, raw any) (any, bool) {
	if resolveFlag(a.wrap, nil, false) {
		return []any{raw}, true
	}
	return nil, false
}

func (a *ArrayNode) Clean(pc *anzen.Context, v any) any {
	src, ok := v.([]any)
	if !ok {
		return v
	}
	return append([]any(nil), src...)
}

func (a *ArrayNode) ParseChildren(pc *anzen.Context, v any) any {
	src, ok := v.([]any)
	if !ok {
		return v
	}
	for i, el := range src {
		if el == nil {
			continue // sparse slot
		}
		_ = pc.Scoped(i, func() error {
			src[i] = pc.ParseNode(a.item, el, true)
			return nil
		})
	}
	return src
}

func (a *ArrayNode) RuleChildren(pc *anzen.Context, v any) error {
	src, _ := v.([]any)
	for i, el := range src {
		if el == nil {
			continue
		}
		if err := pc.Scoped(i, func() error { return pc.ApplyRules(a.item, el) }); err != nil {
			return err
		}
	}
	return nil
}

func (a *ArrayNode) RuleChildrenAsync(ctx context.Context, pc *anzen.Context, v any) error {
	src, _ := v.([]any)
	for i, el := range src {
		if el == nil {
			continue
		}
		if err := pc.Scoped(i, func() error { return pc.ApplyRulesAsync(ctx, a.item, el) }); err != nil {
			return err
		}
	}
	return nil
}

func (a *ArrayNode) HasAsyncRules() bool {
	return a.meta.HasOwnAsync() || a.item.HasAsyncRules()
}
