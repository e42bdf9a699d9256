package dsl_test

import (
	"testing"

	anzen "github.com/anzen-go/anzen"
	"github.com/anzen-go/anzen/dsl"
)

func shapeUnion() anzen.Node {
	circle := dsl.Object(map[string]anzen.Node{
		"kind":   dsl.Literal("circle"),
		"radius": dsl.Number(),
	})
	square := dsl.Object(map[string]anzen.Node{
		"kind": dsl.Literal("square"),
		"side": dsl.Number(),
	})
	return dsl.Union(circle, square)
}

func TestUnionDiscriminantMatch(t *testing.T) {
	v, err := anzen.Parse(shapeUnion(), map[string]any{"kind": "square", "side": 4.0})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := v.(map[string]any)
	if m["kind"] != "square" || m["side"] != 4.0 {
		t.Fatalf("unexpected member result: %v", m)
	}
}

func TestUnionUnmatchedDiscriminantFallsToFirstMember(t *testing.T) {
	res, err := anzen.SafeParse(shapeUnion(), map[string]any{"kind": "triangle"})
	if err != nil {
		t.Fatalf("SafeParse: %v", err)
	}
	if res.OK {
		t.Fatal("expected failure")
	}
	// first member (circle) reports: its literal rejects "triangle" and its
	// radius is missing
	if len(res.Issues.At(anzen.Path{"kind"})) != 1 {
		t.Fatalf("want invalid_type at /kind, got %v", res.Issues)
	}
	if len(res.Issues.At(anzen.Path{"radius"})) != 1 {
		t.Fatalf("fallback must be the first member, got %v", res.Issues)
	}
}

func TestUnionTrialParsingIsIsolated(t *testing.T) {
	// no discriminants: the string member fails its trial, the number member
	// wins, and the failed trial must leave no trace
	u := dsl.Union(dsl.String(), dsl.Number())
	res, err := anzen.SafeParse(u, 5.0)
	if err != nil {
		t.Fatalf("SafeParse: %v", err)
	}
	if !res.OK {
		t.Fatalf("trial issues leaked into the real context: %v", res.Issues)
	}
	if res.Data != 5.0 {
		t.Fatalf("want 5, got %v", res.Data)
	}
}

func TestUnionAllTrialsFailFallsToFirstMember(t *testing.T) {
	u := dsl.Union(dsl.String(), dsl.Number())
	res, err := anzen.SafeParse(u, true)
	if err != nil {
		t.Fatalf("SafeParse: %v", err)
	}
	if res.OK {
		t.Fatal("expected failure")
	}
	if len(res.Issues) != 1 || res.Issues[0].Code != anzen.CodeInvalidType {
		t.Fatalf("want one invalid_type from the first member, got %v", res.Issues)
	}
	if res.Input.Value != true {
		t.Fatalf("input tree must keep the raw value, got %v", res.Input.Value)
	}
}

func TestUnionNullHandlingUsesUnionFlags(t *testing.T) {
	u := dsl.Union(dsl.String(), dsl.Number()).Nullable()
	v, err := anzen.Parse(u, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v != "" {
		t.Fatalf("want first member's default, got %v", v)
	}

	res, err := anzen.SafeParse(dsl.Union(dsl.String(), dsl.Number()), nil)
	if err != nil {
		t.Fatalf("SafeParse: %v", err)
	}
	if res.OK || res.Issues[0].Code != anzen.CodeRequired {
		t.Fatalf("want required, got %v", res.Issues)
	}
}

func TestUnionRefinementRunsOnResolvedValue(t *testing.T) {
	ran := false
	u := dsl.Union(dsl.String(), dsl.Number()).
		Refine("seen", func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
			ran = true
			if v.Num() != 5 {
				rc.Issue("unexpected value")
			}
			return nil, nil
		})
	res, err := anzen.SafeParse(u, 5.0)
	if err != nil {
		t.Fatalf("SafeParse: %v", err)
	}
	if !res.OK {
		t.Fatalf("unexpected issues: %v", res.Issues)
	}
	if !ran {
		t.Fatal("union-level refinement did not run")
	}
}
