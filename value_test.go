package anzen_test

import (
	"testing"

	anzen "github.com/anzen-go/anzen"
	"github.com/anzen-go/anzen/dsl"
)

func TestPathAttributionFollowsAccess(t *testing.T) {
	schema := dsl.Object(map[string]anzen.Node{
		"a": dsl.Object(map[string]anzen.Node{
			"b": dsl.Array(dsl.Number()),
		}),
	}).Refine("deep", func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
		v.Get("a").Get("b").Index(2)
		rc.Issue("boom")
		return nil, nil
	})

	raw := map[string]any{"a": map[string]any{"b": []any{1.0, 2.0, 3.0}}}
	res, err := anzen.SafeParse(schema, raw)
	if err != nil {
		t.Fatalf("SafeParse: %v", err)
	}
	if len(res.Issues) != 1 {
		t.Fatalf("want 1 issue, got %v", res.Issues)
	}
	if want := (anzen.Path{"a", "b", 2}); !res.Issues[0].Path.Equal(want) {
		t.Fatalf("want path %v, got %v", want, res.Issues[0].Path)
	}
}

func TestValueViewsAreStable(t *testing.T) {
	schema := dsl.Object(map[string]anzen.Node{
		"a": dsl.String(),
	}).Refine("stable", func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
		first := v.Get("a")
		second := v.Get("a")
		if first != second {
			rc.Issue("views not cached")
		}
		if !anzen.PathOf(first).Equal(anzen.Path{"a"}) {
			rc.Issue("PathOf mismatch")
		}
		return nil, nil
	})
	res, err := anzen.SafeParse(schema, map[string]any{"a": "x"})
	if err != nil {
		t.Fatalf("SafeParse: %v", err)
	}
	if !res.OK {
		t.Fatalf("unexpected issues: %v", res.Issues)
	}
}

func TestDefinedConsultsRawInput(t *testing.T) {
	schema := dsl.Object(map[string]anzen.Node{
		"nick": dsl.String().Optional(),
	}).Refine("check", func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
		// the parsed value holds the default "", but the raw input had no key
		if rc.Defined(v.Get("nick")) {
			rc.Issue("missing field reported as defined")
		}
		return nil, nil
	})
	res, err := anzen.SafeParse(schema, map[string]any{})
	if err != nil {
		t.Fatalf("SafeParse: %v", err)
	}
	if !res.OK {
		t.Fatalf("unexpected issues: %v", res.Issues)
	}
}
