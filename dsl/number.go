package dsl

import (
	"context"
	"encoding/json"
	"strconv"

	anzen "github.com/anzen-go/anzen"
	"github.com/anzen-go/anzen/i18n"
)

// NumberNode parses numeric values. Decoded inputs may arrive as float64,
// int, int64, uint64, or json.Number; Clean normalizes them all to float64.
type NumberNode struct {
	meta   *anzen.Meta
	coerce *bool
}

// Number returns a new number node.
func Number() *NumberNode { return &NumberNode{meta: anzen.NewMeta()} }

func (n *NumberNode) clone() *NumberNode {
	c := *n
	c.meta = n.meta.Clone()
	return &c
}

// Optional admits a missing value, yielding the default.
func (n *NumberNode) Optional() *NumberNode {
	c := n.clone()
	c.meta.Optional = true
	return c
}

// Nullable admits an explicit null, yielding the default.
func (n *NumberNode) Nullable() *NumberNode {
	c := n.clone()
	c.meta.Nullable = true
	return c
}

// Default overrides the fallback value (0 by default).
func (n *NumberNode) Default(v any) *NumberNode {
	c := n.clone()
	c.meta.Default = v
	c.meta.HasDefault = true
	return c
}

// OnIssue overrides the message for a core issue code.
func (n *NumberNode) OnIssue(code string, t anzen.IssueText) *NumberNode {
	c := n.clone()
	c.meta.SetOverride(code, t)
	return c
}

// Refine appends a synchronous refinement.
func (n *NumberNode) Refine(name string, fn anzen.RefineFunc, msg ...anzen.IssueText) *NumberNode {
	c := n.clone()
	c.meta.AddRule(refineRule(name, fn, msg))
	return c
}

// RefineAsync appends an asynchronous refinement.
func (n *NumberNode) RefineAsync(name string, fn anzen.RefineAsyncFunc, msg ...anzen.IssueText) *NumberNode {
	c := n.clone()
	c.meta.AddAsyncRule(asyncRule(name, fn, msg))
	return c
}

// Apply attaches a named extension from NumberRules.
func (n *NumberNode) Apply(name string, args ...any) *NumberNode {
	c := n.clone()
	c.meta.Apply(NumberRules, name, args)
	return c
}

// CoerceFromString parses numeric strings instead of rejecting them.
func (n *NumberNode) CoerceFromString() *NumberNode {
	c := n.clone()
	c.coerce = anzen.True
	return c
}

// ---- anzen.Node ----

func (n *NumberNode) Kind() anzen.Kind  { return anzen.KindNumber }
func (n *NumberNode) Meta() *anzen.Meta { return n.meta }
func (n *NumberNode) DefaultValue() any { return float64(0) }

func (n *NumberNode) Resolve(pc *anzen.Context, raw any) anzen.Node { return n }

func (n *NumberNode) Check(pc *anzen.Context, raw any) *anzen.Issue {
	switch t := raw.(type) {
	case float64, int, int64, uint64:
		return nil
	case json.Number:
		if _, err := t.Float64(); err == nil {
			return nil
		}
	}
	return &anzen.Issue{Code: anzen.CodeInvalidType, Message: i18n.T(anzen.CodeInvalidType, nil)}
}

func (n *NumberNode) Coerce(pc *anzen.Context, raw any) (any, bool) {
	if !resolveFlag(n.coerce, pc.Opt().Number.Coerce, false) {
		return nil, false
	}
	if s, ok := raw.(string); ok {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return nil, false
}

func (n *NumberNode) Clean(pc *anzen.Context, v any) any {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil
		}
		return f
	}
	return v
}

func (n *NumberNode) ParseChildren(pc *anzen.Context, v any) any { return v }

func (n *NumberNode) RuleChildren(pc *anzen.Context, v any) error { return nil }

func (n *NumberNode) RuleChildrenAsync(ctx context.Context, pc *anzen.Context, v any) error {
	return nil
}

func (n *NumberNode) HasAsyncRules() bool { return n.meta.HasOwnAsync() }
