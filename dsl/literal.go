package dsl

import (
	"context"
	"fmt"

	anzen "github.com/anzen-go/anzen"
	"github.com/anzen-go/anzen/i18n"
)

// LiteralNode accepts exactly one fixed value. Objects track literal
// children as discriminants for union matching.
type LiteralNode struct {
	meta  *anzen.Meta
	value any
}

// Literal returns a node matching exactly v.
func Literal(v any) *LiteralNode { return &LiteralNode{meta: anzen.NewMeta(), value: v} }

// Value returns the fixed value this node accepts.
func (l *LiteralNode) Value() any { return l.value }

func (l *LiteralNode) clone() *LiteralNode {
	c := *l
	c.meta = l.meta.Clone()
	return &c
}

// Optional admits a missing value, yielding the literal itself.
func (l *LiteralNode) Optional() *LiteralNode {
	c := l.clone()
	c.meta.Optional = true
	return c
}

// Nullable admits an explicit null, yielding the literal itself.
func (l *LiteralNode) Nullable() *LiteralNode {
	c := l.clone()
	c.meta.Nullable = true
	return c
}

// OnIssue overrides the message for a core issue code.
func (l *LiteralNode) OnIssue(code string, t anzen.IssueText) *LiteralNode {
	c := l.clone()
	c.meta.SetOverride(code, t)
	return c
}

// Refine appends a synchronous refinement.
func (l *LiteralNode) Refine(name string, fn anzen.RefineFunc, msg ...anzen.IssueText) *LiteralNode {
	c := l.clone()
	c.meta.AddRule(refineRule(name, fn, msg))
	return c
}

// Apply attaches a named extension from LiteralRules.
func (l *LiteralNode) Apply(name string, args ...any) *LiteralNode {
	c := l.clone()
	c.meta.Apply(LiteralRules, name, args)
	return c
}

// ---- anzen.Node ----

func (l *LiteralNode) Kind() anzen.Kind  { return anzen.KindLiteral }
func (l *LiteralNode) Meta() *anzen.Meta { return l.meta }
func (l *LiteralNode) DefaultValue() any { return l.value }

func (l *LiteralNode) Resolve(pc *anzen.Context, raw any) anzen.Node { return l }

func (l *LiteralNode) Check(pc *anzen.Context, raw any) *anzen.Issue {
	if literalEqual(l.value, raw) {
		return nil
	}
	return &anzen.Issue{
		Code:    anzen.CodeInvalidType,
		Message: fmt.Sprintf("%s: expected %v", i18n.T(anzen.CodeInvalidType, nil), l.value),
	}
}

func (l *LiteralNode) Coerce(pc *anzen.Context, raw any) (any, bool) { return nil, false }

func (l *LiteralNode) Clean(pc *anzen.Context, v any) any { return v }

func (l *LiteralNode) ParseChildren(pc *anzen.Context, v any) any { return v }

func (l *LiteralNode) RuleChildren(pc *anzen.Context, v any) error { return nil }

func (l *LiteralNode) RuleChildrenAsync(ctx context.Context, pc *anzen.Context, v any) error {
	return nil
}

func (l *LiteralNode) HasAsyncRules() bool { return l.meta.HasOwnAsync() }
