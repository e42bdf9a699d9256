// Package dsl provides the concrete type-node kinds and the builder surface
// for constructing schemas. Every chainable configuration call clones the
// node, so previously built schema values are never mutated.
package dsl

import (
	anzen "github.com/anzen-go/anzen"
)

// baseReserved are the chainable names shared by every node kind; extensions
// may not register under any of them.
var baseReserved = []string{
	"optional", "nullable", "default", "refine", "refineAsync", "onIssue", "apply",
}

// Per-kind extension registries. Apply on a node instance looks names up in
// its kind's registry.
var (
	StringRules  = anzen.NewRegistry(append([]string{"coerceFromScalar", "trim", "empty"}, baseReserved...)...)
	NumberRules  = anzen.NewRegistry(append([]string{"coerceFromString"}, baseReserved...)...)
	BoolRules    = anzen.NewRegistry(append([]string{"coerceFromString"}, baseReserved...)...)
	LiteralRules = anzen.NewRegistry(baseReserved...)
	ObjectRules  = anzen.NewRegistry(append([]string{"field"}, baseReserved...)...)
	ArrayRules   = anzen.NewRegistry(append([]string{"wrapScalar"}, baseReserved...)...)
	RecordRules  = anzen.NewRegistry(baseReserved...)
	UnionRules   = anzen.NewRegistry(baseReserved...)
)

// refineRule builds a named-or-anonymous sync refinement entry; a trailing
// message override collapses everything the entry raises into one issue.
func refineRule(name string, fn anzen.RefineFunc, msg []anzen.IssueText) anzen.Rule {
	r := anzen.Rule{Name: name, Fn: fn}
	if len(msg) > 0 {
		m := msg[len(msg)-1]
		r.Msg = &m
	}
	return r
}

func asyncRule(name string, fn anzen.RefineAsyncFunc, msg []anzen.IssueText) anzen.Rule {
	r := anzen.Rule{Name: name, AsyncFn: fn}
	if len(msg) > 0 {
		m := msg[len(msg)-1]
		r.Msg = &m
	}
	return r
}

// resolveFlag picks the node's own policy over the options-bag fallback.
func resolveFlag(own, opt *bool, def bool) bool {
	if own != nil {
		return *own
	}
	if opt != nil {
		return *opt
	}
	return def
}

// literalEqual compares a literal's declared value against input, folding
// the numeric representations the decoders produce into float64 first.
func literalEqual(want, got any) bool {
	if wf, ok := toFloat(want); ok {
		gf, ok2 := toFloat(got)
		return ok2 && wf == gf
	}
	return want == got
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	}
	return 0, false
}
