package dsl

import (
	"context"

	anzen "github.com/anzen-go/anzen"
	"github.com/anzen-go/anzen/i18n"
)

// UnionNode resolves to exactly one of its members before parsing. Member
// selection is deterministic: discriminant match first, then a trial parse
// of each member in declaration order, then the first member as fallback.
type UnionNode struct {
	meta    *anzen.Meta
	members []anzen.Node
}

// Union returns a union node over the given members.
func Union(members ...anzen.Node) *UnionNode {
	return &UnionNode{meta: anzen.NewMeta(), members: members}
}

func (u *UnionNode) clone() *UnionNode {
	c := *u
	c.meta = u.meta.Clone()
	return &c
}

// Optional admits a missing value, yielding the first member's default.
func (u *UnionNode) Optional() *UnionNode {
	c := u.clone()
	c.meta.Optional = true
	return c
}

// Nullable admits an explicit null, yielding the first member's default.
func (u *UnionNode) Nullable() *UnionNode {
	c := u.clone()
	c.meta.Nullable = true
	return c
}

// Default overrides the fallback value.
func (u *UnionNode) Default(v any) *UnionNode {
	c := u.clone()
	c.meta.Default = v
	c.meta.HasDefault = true
	return c
}

// OnIssue overrides the message for a core issue code.
func (u *UnionNode) OnIssue(code string, t anzen.IssueText) *UnionNode {
	c := u.clone()
	c.meta.SetOverride(code, t)
	return c
}

// Refine appends a synchronous refinement over the resolved value.
func (u *UnionNode) Refine(name string, fn anzen.RefineFunc, msg ...anzen.IssueText) *UnionNode {
	c := u.clone()
	c.meta.AddRule(refineRule(name, fn, msg))
	return c
}

// RefineAsync appends an asynchronous refinement.
func (u *UnionNode) RefineAsync(name string, fn anzen.RefineAsyncFunc, msg ...anzen.IssueText) *UnionNode {
	c := u.clone()
	c.meta.AddAsyncRule(asyncRule(name, fn, msg))
	return c
}

// Apply attaches a named extension from UnionRules.
func (u *UnionNode) Apply(name string, args ...any) *UnionNode {
	c := u.clone()
	c.meta.Apply(UnionRules, name, args)
	return c
}

// Members returns the member nodes in declaration order.
func (u *UnionNode) Members() []anzen.Node { return u.members }

// ---- anzen.Node ----

func (u *UnionNode) Kind() anzen.Kind  { return anzen.KindUnion }
func (u *UnionNode) Meta() *anzen.Meta { return u.meta }

func (u *UnionNode) DefaultValue() any {
	if len(u.members) == 0 {
		return nil
	}
	return anzen.DefaultOf(u.members[0])
}

// Resolve picks the member that parses the input. Object members with
// literal children act as discriminated variants: if the input carries all
// of a member's literal values, that member wins without a trial parse.
// When every member is discriminated and none matched, the first member is
// charged with reporting the mismatch. Otherwise each member gets a trial
// parse on a forked context, and the first that parses without issues wins.
func (u *UnionNode) Resolve(pc *anzen.Context, raw any) anzen.Node {
	if len(u.members) == 0 || raw == nil {
		// null handling consults the union's own optional/nullable flags
		return u
	}

	m, isMap := raw.(map[string]any)
	allDiscriminated := true
	for _, mem := range u.members {
		obj, ok := mem.(*ObjectNode)
		if !ok {
			allDiscriminated = false
			continue
		}
		lits := obj.literalFields()
		if len(lits) == 0 {
			allDiscriminated = false
			continue
		}
		if isMap && discriminantsMatch(lits, m) {
			return mem.Resolve(pc, raw)
		}
	}
	if allDiscriminated {
		return u.members[0].Resolve(pc, raw)
	}

	for _, mem := range u.members {
		fork := pc.Fork()
		before := fork.IssueCount()
		fork.ParseNode(mem, raw, true)
		if fork.IssueCount() == before {
			return mem.Resolve(pc, raw)
		}
	}
	return u.members[0].Resolve(pc, raw)
}

func discriminantsMatch(lits map[string]*LiteralNode, m map[string]any) bool {
	for k, lit := range lits {
		v, ok := m[k]
		if !ok || !literalEqual(lit.Value(), v) {
			return false
		}
	}
	return true
}

// Check only runs when resolution had no member to delegate to.
func (u *UnionNode) Check(pc *anzen.Context, raw any) *anzen.Issue {
	return &anzen.Issue{Code: anzen.CodeInvalidType, Message: i18n.T(anzen.CodeInvalidType, nil)}
}

func (u *UnionNode) Coerce(pc *anzen.Context, raw any) (any, bool) { return nil, false }

func (u *UnionNode) Clean(pc *anzen.Context, v any) any { return v }

func (u *UnionNode) ParseChildren(pc *anzen.Context, v any) any { return v }

func (u *UnionNode) RuleChildren(pc *anzen.Context, v any) error { return nil }

func (u *UnionNode) RuleChildrenAsync(ctx context.Context, pc *anzen.Context, v any) error {
	return nil
}

func (u *UnionNode) HasAsyncRules() bool {
	if u.meta.HasOwnAsync() {
		return true
	}
	for _, m := range u.members {
		if m.HasAsyncRules() {
			return true
		}
	}
	return false
}
