package dsl

import (
	"context"

	anzen "github.com/anzen-go/anzen"
	"github.com/anzen-go/anzen/i18n"
)

// BoolNode parses boolean values.
type BoolNode struct {
	meta   *anzen.Meta
	coerce *bool
}

// Bool returns a new bool node.
func Bool() *BoolNode { return &BoolNode{meta: anzen.NewMeta()} }

func (b *BoolNode) clone() *BoolNode {
	c := *b
	c.meta = b.meta.Clone()
	return &c
}

// Optional admits a missing value, yielding the default.
func (b *BoolNode) Optional() *BoolNode {
	c := b.clone()
	c.meta.Optional = true
	return c
}

// Nullable admits an explicit null, yielding the default.
func (b *BoolNode) Nullable() *BoolNode {
	c := b.clone()
	c.meta.Nullable = true
	return c
}

// Default overrides the fallback value (false by default).
func (b *BoolNode) Default(v any) *BoolNode {
	c := b.clone()
	c.meta.Default = v
	c.meta.HasDefault = true
	return c
}

// OnIssue overrides the message for a core issue code.
func (b *BoolNode) OnIssue(code string, t anzen.IssueText) *BoolNode {
	c := b.clone()
	c.meta.SetOverride(code, t)
	return c
}

// Refine appends a synchronous refinement.
func (b *BoolNode) Refine(name string, fn anzen.RefineFunc, msg ...anzen.IssueText) *BoolNode {
	c := b.clone()
	c.meta.AddRule(refineRule(name, fn, msg))
	return c
}

// RefineAsync appends an asynchronous refinement.
func (b *BoolNode) RefineAsync(name string, fn anzen.RefineAsyncFunc, msg ...anzen.IssueText) *BoolNode {
	c := b.clone()
	c.meta.AddAsyncRule(asyncRule(name, fn, msg))
	return c
}

// Apply attaches a named extension from BoolRules.
func (b *BoolNode) Apply(name string, args ...any) *BoolNode {
	c := b.clone()
	c.meta.Apply(BoolRules, name, args)
	return c
}

// CoerceFromString accepts "true"/"false"/"1"/"0" and numeric 0/1.
func (b *BoolNode) CoerceFromString() *BoolNode {
	c := b.clone()
	c.coerce = anzen.True
	return c
}

// ---- anzen.Node ----

func (b *BoolNode) Kind() anzen.Kind  { return anzen.KindBool }
func (b *BoolNode) Meta() *anzen.Meta { return b.meta }
func (b *BoolNode) DefaultValue() any { return false }

func (b *BoolNode) Resolve(pc *anzen.Context, raw any) anzen.Node { return b }

func (b *BoolNode) Check(pc *anzen.Context, raw any) *anzen.Issue {
	if _, ok := raw.(bool); ok {
		return nil
	}
	return &anzen.Issue{Code: anzen.CodeInvalidType, Message: i18n.T(anzen.CodeInvalidType, nil)}
}

func (b *BoolNode) Coerce(pc *anzen.Context, raw any) (any, bool) {
	if !resolveFlag(b.coerce, pc.Opt().Bool.Coerce, false) {
		return nil, false
	}
	switch t := raw.(type) {
	case string:
		switch t {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	case float64:
		if t == 1 {
			return true, true
		}
		if t == 0 {
			return false, true
		}
	case int:
		if t == 1 {
			return true, true
		}
		if t == 0 {
			return false, true
		}
	}
	return nil, false
}

func (b *BoolNode) Clean(pc *anzen.Context, v any) any { return v }

func (b *BoolNode) ParseChildren(pc *anzen.Context, v any) any { return v }

func (b *BoolNode) RuleChildren(pc *anzen.Context, v any) error { return nil }

func (b *BoolNode) RuleChildrenAsync(ctx context.Context, pc *anzen.Context, v any) error {
	return nil
}

func (b *BoolNode) HasAsyncRules() bool { return b.meta.HasOwnAsync() }
