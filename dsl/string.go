package dsl

import (
	"context"
	"strconv"
	"strings"

	anzen "github.com/anzen-go/anzen"
	"github.com/anzen-go/anzen/i18n"
)

// StringNode parses string values. Trim is on by default; scalar coercion
// and the empty-string policy follow the node's own configuration first,
// then the "string" namespace of the options bag.
type StringNode struct {
	meta   *anzen.Meta
	coerce *bool
	trim   *bool
	empty  *bool
}

// String returns a new string node.
func String() *StringNode { return &StringNode{meta: anzen.NewMeta()} }

func (s *StringNode) clone() *StringNode {
	c := *s
	c.meta = s.meta.Clone()
	return &c
}

// Optional admits a missing value, yielding the default.
func (s *StringNode) Optional() *StringNode {
	c := s.clone()
	c.meta.Optional = true
	return c
}

// Nullable admits an explicit null, yielding the default.
func (s *StringNode) Nullable() *StringNode {
	c := s.clone()
	c.meta.Nullable = true
	return c
}

// Default overrides the fallback value ("" by default).
func (s *StringNode) Default(v any) *StringNode {
	c := s.clone()
	c.meta.Default = v
	c.meta.HasDefault = true
	return c
}

// OnIssue overrides the message for a core issue code (invalid_type or
// required).
func (s *StringNode) OnIssue(code string, t anzen.IssueText) *StringNode {
	c := s.clone()
	c.meta.SetOverride(code, t)
	return c
}

// Refine appends a synchronous refinement. Re-adding the same name replaces
// the prior entry in place.
func (s *StringNode) Refine(name string, fn anzen.RefineFunc, msg ...anzen.IssueText) *StringNode {
	c := s.clone()
	c.meta.AddRule(refineRule(name, fn, msg))
	return c
}

// RefineAsync appends an asynchronous refinement.
func (s *StringNode) RefineAsync(name string, fn anzen.RefineAsyncFunc, msg ...anzen.IssueText) *StringNode {
	c := s.clone()
	c.meta.AddAsyncRule(asyncRule(name, fn, msg))
	return c
}

// Apply attaches a named extension from StringRules with its call arguments.
func (s *StringNode) Apply(name string, args ...any) *StringNode {
	c := s.clone()
	c.meta.Apply(StringRules, name, args)
	return c
}

// CoerceFromScalar converts numbers and booleans into their string form
// instead of rejecting them.
func (s *StringNode) CoerceFromScalar() *StringNode {
	c := s.clone()
	c.coerce = anzen.True
	return c
}

// Trim controls whitespace trimming (on by default).
func (s *StringNode) Trim(on bool) *StringNode {
	c := s.clone()
	c.trim = &on
	return c
}

// Empty controls whether an empty (post-trim) string is accepted; when
// false it is treated as missing and re-enters null handling.
func (s *StringNode) Empty(allow bool) *StringNode {
	c := s.clone()
	c.empty = &allow
	return c
}

// ---- anzen.Node ----

func (s *StringNode) Kind() anzen.Kind  { return anzen.KindString }
func (s *StringNode) Meta() *anzen.Meta { return s.meta }
func (s *StringNode) DefaultValue() any { return "" }

func (s *StringNode) Resolve(pc *anzen.Context, raw any) anzen.Node { return s }

func (s *StringNode) Check(pc *anzen.Context, raw any) *anzen.Issue {
	if _, ok := raw.(string); ok {
		return nil
	}
	return &anzen.Issue{Code: anzen.CodeInvalidType, Message: i18n.T(anzen.CodeInvalidType, nil)}
}

func (s *StringNode) Coerce(pc *anzen.Context, raw any) (any, bool) {
	if !resolveFlag(s.coerce, pc.Opt().String.Coerce, false) {
		return nil, false
	}
	switch t := raw.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return nil, false
}

func (s *StringNode) Clean(pc *anzen.Context, v any) any {
	str, ok := v.(string)
	if !ok {
		return v
	}
	opt := pc.Opt().String
	if resolveFlag(s.trim, opt.Trim, true) {
		str = strings.TrimSpace(str)
	}
	if str == "" && !resolveFlag(s.empty, opt.Empty, true) {
		return nil
	}
	return str
}

func (s *StringNode) ParseChildren(pc *anzen.Context, v any) any { return v }

func (s *StringNode) RuleChildren(pc *anzen.Context, v any) error { return nil }

func (s *StringNode) RuleChildrenAsync(ctx context.Context, pc *anzen.Context, v any) error {
	return nil
}

func (s *StringNode) HasAsyncRules() bool { return s.meta.HasOwnAsync() }
