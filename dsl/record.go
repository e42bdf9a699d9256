package dsl

import (
	"context"
	"sort"

	anzen "github.com/anzen-go/anzen"
	"github.com/anzen-go/anzen/i18n"
)

// RecordNode parses maps with arbitrary string keys, applying a single item
// node to every value.
type RecordNode struct {
	meta *anzen.Meta
	item anzen.Node
}

// Record returns a record node over the given item node.
func Record(item anzen.Node) *RecordNode {
	return &RecordNode{meta: anzen.NewMeta(), item: item}
}

func (r *RecordNode) clone() *RecordNode {
	c := *r
	c.meta = r.meta.Clone()
	return &c
}

// Optional admits a missing value, yielding the default (empty map).
func (r *RecordNode) Optional() *RecordNode {
	c := r.clone()
	c.meta.Optional = true
	return c
}

// Nullable admits an explicit null, yielding the default (empty map).
func (r *RecordNode) Nullable() *RecordNode {
	c := r.clone()
	c.meta.Nullable = true
	return c
}

// Default overrides the fallback value.
func (r *RecordNode) Default(v any) *RecordNode {
	c := r.clone()
	c.meta.Default = v
	c.meta.HasDefault = true
	return c
}

// OnIssue overrides the message for a core issue code.
func (r *RecordNode) OnIssue(code string, t anzen.IssueText) *RecordNode {
	c := r.clone()
	c.meta.SetOverride(code, t)
	return c
}

// Refine appends a synchronous refinement over the parsed map.
func (r *RecordNode) Refine(name string, fn anzen.RefineFunc, msg ...anzen.IssueText) *RecordNode {
	c := r.clone()
	c.meta.AddRule(refineRule(name, fn, msg))
	return c
}

// RefineAsync appends an asynchronous refinement.
func (r *RecordNode) RefineAsync(name string, fn anzen.RefineAsyncFunc, msg ...anzen.IssueText) *RecordNode {
	c := r.clone()
	c.meta.AddAsyncRule(asyncRule(name, fn, msg))
	return c
}

// Apply attaches a named extension from RecordRules.
func (r *RecordNode) Apply(name string, args ...any) *RecordNode {
	c := r.clone()
	c.meta.Apply(RecordRules, name, args)
	return c
}

// ItemNode exposes the item node for input-tree rendering.
func (r *RecordNode) ItemNode() anzen.Node { return r.item }

// ---- anzen.Node ----

func (r *RecordNode) Kind() anzen.Kind  { return anzen.KindRecord }
func (r *RecordNode) Meta() *anzen.Meta { return r.meta }
func (r *RecordNode) DefaultValue() any { return map[string]any{} }

func (r *RecordNode) Resolve(pc *anzen.Context, raw any) anzen.Node { return r }

func (r *RecordNode) Check(pc *anzen.Context, raw any) *anzen.Issue {
	if _, ok := raw.(map[string]any); ok {
		return nil
	}
	return &anzen.Issue{Code: anzen.CodeInvalidType, Message: i18n.T(anzen.CodeInvalidType, nil)}
}

func (r *RecordNode) Coerce(pc *anzen.Context, raw any) (any, bool) { return nil, false }

func (r *RecordNode) Clean(pc *anzen.Context, v any) any {
	src, ok := v.(map[string]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(src))
	for k, val := range src {
		out[k] = val
	}
	return out
}

func (r *RecordNode) ParseChildren(pc *anzen.Context, v any) any {
	src, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for _, k := range recordKeys(src) {
		val := src[k]
		_ = pc.Scoped(k, func() error {
			src[k] = pc.ParseNode(r.item, val, true)
			return nil
		})
	}
	return src
}

func (r *RecordNode) RuleChildren(pc *anzen.Context, v any) error {
	src, _ := v.(map[string]any)
	for _, k := range recordKeys(src) {
		if err := pc.Scoped(k, func() error { return pc.ApplyRules(r.item, src[k]) }); err != nil {
			return err
		}
	}
	return nil
}

func (r *RecordNode) RuleChildrenAsync(ctx context.Context, pc *anzen.Context, v any) error {
	src, _ := v.(map[string]any)
	for _, k := range recordKeys(src) {
		if err := pc.Scoped(k, func() error { return pc.ApplyRulesAsync(ctx, r.item, src[k]) }); err != nil {
			return err
		}
	}
	return nil
}

func (r *RecordNode) HasAsyncRules() bool {
	return r.meta.HasOwnAsync() || r.item.HasAsyncRules()
}

// recordKeys returns map keys in sorted order for deterministic traversal.
func recordKeys(m map[string]any) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
