package anzen_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	anzen "github.com/anzen-go/anzen"
	"github.com/anzen-go/anzen/dsl"
)

func signupSchema() anzen.Node {
	return dsl.Object(map[string]anzen.Node{
		"email":           dsl.String(),
		"password":        dsl.String().Optional(),
		"passwordConfirm": dsl.String().Optional(),
		"interests": dsl.Array(dsl.String().Optional()).
			Refine("noDuplicates", func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
				seen := map[string]bool{}
				for _, el := range v.Items() {
					if el.IsNil() {
						continue
					}
					s := el.Str()
					if seen[s] {
						rc.Issue(fmt.Sprintf("duplicate interest %q", s))
						continue
					}
					seen[s] = true
				}
				return nil, nil
			}),
	}).Refine("passwordsMatch", func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
		if v.Get("password").Str() != v.Get("passwordConfirm").Str() {
			rc.Issue("passwords don't match")
		}
		return nil, nil
	})
}

func TestSignupScenario(t *testing.T) {
	raw := map[string]any{
		"passwordConfirm": "  abc",
		"interests":       []any{"coding", nil, "coding", "movies"},
	}

	res, err := anzen.SafeParse(signupSchema(), raw)
	if err != nil {
		t.Fatalf("SafeParse: %v", err)
	}
	if res.OK {
		t.Fatalf("expected failure, got %#v", res.Data)
	}
	if len(res.Issues) != 3 {
		t.Fatalf("want 3 issues, got %d: %v", len(res.Issues), res.Issues)
	}

	email := res.Issues.At(anzen.Path{"email"})
	if len(email) != 1 || email[0].Code != anzen.CodeRequired {
		t.Fatalf("missing email should raise required, got %v", email)
	}

	match := res.Issues.At(anzen.Path{"passwordConfirm"})
	if len(match) != 1 || match[0].Message != "passwords don't match" {
		t.Fatalf("mismatch issue should attach to passwordConfirm, got %v", match)
	}

	dup := res.Issues.At(anzen.Path{"interests", 2})
	if len(dup) != 1 || dup[0].Message != `duplicate interest "coding"` {
		t.Fatalf("duplicate issue should attach to index 2, got %v", dup)
	}

	pw := res.Input.Fields["passwordConfirm"]
	if pw == nil {
		t.Fatal("input tree missing passwordConfirm")
	}
	if pw.Value != "  abc" {
		t.Fatalf("input value: want raw %q, got %v", "  abc", pw.Value)
	}
	if pw.Parsed != "abc" {
		t.Fatalf("input parsed: want trimmed %q, got %v", "abc", pw.Parsed)
	}
}

func TestParseDropsUnknownKeys(t *testing.T) {
	schema := dsl.Object(map[string]anzen.Node{
		"name": dsl.String(),
		"age":  dsl.Number(),
	})
	v, err := anzen.Parse(schema, map[string]any{"name": "a", "age": 1, "extra": "x"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("want map, got %T", v)
	}
	if m["name"] != "a" || m["age"] != float64(1) {
		t.Fatalf("unexpected parse result: %v", m)
	}
	if _, leaked := m["extra"]; leaked {
		t.Fatal("unknown key should be dropped")
	}
}

func TestParseRejectsAsyncTrees(t *testing.T) {
	schema := dsl.Object(map[string]anzen.Node{
		"name": dsl.String().RefineAsync("check", func(ctx context.Context, rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
			return nil, nil
		}),
	})
	if _, err := anzen.Parse(schema, map[string]any{"name": "x"}); !errors.Is(err, anzen.ErrAsyncRules) {
		t.Fatalf("Parse: want ErrAsyncRules, got %v", err)
	}
	if _, err := anzen.SafeParse(schema, map[string]any{"name": "x"}); !errors.Is(err, anzen.ErrAsyncRules) {
		t.Fatalf("SafeParse: want ErrAsyncRules, got %v", err)
	}
	if _, err := anzen.ParseContext(context.Background(), schema, map[string]any{"name": "x"}); err != nil {
		t.Fatalf("ParseContext should accept async trees: %v", err)
	}
}

func TestMissingKeyPropagates(t *testing.T) {
	schema := dsl.String().Refine("needsDB", func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
		_ = rc.MustGet("db")
		return nil, nil
	})
	_, err := anzen.SafeParse(schema, "x")
	var mk *anzen.MissingKeyError
	if !errors.As(err, &mk) {
		t.Fatalf("want *MissingKeyError, got %v", err)
	}
	if mk.Key != "db" {
		t.Fatalf("want key db, got %q", mk.Key)
	}

	// Returned (not panicked) it must propagate the same way.
	schema2 := dsl.String().Refine("needsDB", func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
		_, err := rc.Get("db")
		return nil, err
	})
	if _, err := anzen.SafeParse(schema2, "x"); !errors.As(err, &mk) {
		t.Fatalf("returned MissingKeyError swallowed: %v", err)
	}

	// Supplying the value clears the failure.
	if _, err := anzen.Parse(schema, "x", anzen.ParseOpt{Values: map[string]any{"db": struct{}{}}}); err != nil {
		t.Fatalf("Parse with value supplied: %v", err)
	}
}

func TestRefinementPanicBecomesException(t *testing.T) {
	schema := dsl.String().Refine("boom", func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
		panic("kaboom")
	})
	res, err := anzen.SafeParse(schema, "x")
	if err != nil {
		t.Fatalf("SafeParse: %v", err)
	}
	if res.OK || len(res.Issues) != 1 {
		t.Fatalf("want one exception issue, got %v", res.Issues)
	}
	if res.Issues[0].Code != anzen.CodeException || res.Issues[0].Message != "kaboom" {
		t.Fatalf("unexpected issue: %+v", res.Issues[0])
	}
}

func TestMessageOverrideCollapses(t *testing.T) {
	schema := dsl.String().Refine("pair", func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
		rc.Issue("first")
		rc.Issue("second")
		return nil, nil
	}, anzen.Msg("overridden"))

	res, err := anzen.SafeParse(schema, "x")
	if err != nil {
		t.Fatalf("SafeParse: %v", err)
	}
	if len(res.Issues) != 1 {
		t.Fatalf("override must collapse to one issue, got %d: %v", len(res.Issues), res.Issues)
	}
	is := res.Issues[0]
	if is.Message != "overridden" {
		t.Fatalf("want overridden message, got %q", is.Message)
	}
	if !is.Path.Equal(anzen.Path{}) {
		t.Fatalf("override must land on the node's own path, got %v", is.Path)
	}
}

func TestCoreIssueOverride(t *testing.T) {
	schema := dsl.String().OnIssue(anzen.CodeRequired, anzen.Msg("give me a value"))
	_, err := anzen.Parse(schema, nil)
	var pe *anzen.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want *ParseError, got %v", err)
	}
	if len(pe.Issues) != 1 || pe.Issues[0].Code != anzen.CodeRequired {
		t.Fatalf("unexpected issues: %v", pe.Issues)
	}
	if pe.Issues[0].Message != "give me a value" {
		t.Fatalf("override not applied: %q", pe.Issues[0].Message)
	}
	if pe.Input() == nil {
		t.Fatal("ParseError must expose the input tree")
	}
}

func TestSuppressionOnStructuralFailure(t *testing.T) {
	ran := false
	schema := dsl.Object(map[string]anzen.Node{
		"age": dsl.Number().Refine("positive", func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
			ran = true
			return nil, nil
		}),
	})
	res, err := anzen.SafeParse(schema, map[string]any{"age": "not a number"})
	if err != nil {
		t.Fatalf("SafeParse: %v", err)
	}
	if res.OK {
		t.Fatal("expected invalid_type failure")
	}
	if ran {
		t.Fatal("refinement must be suppressed when its own path already has an issue")
	}
}

func TestSyncBeforeAsyncOrdering(t *testing.T) {
	var order []string
	schema := dsl.Object(map[string]anzen.Node{
		"name": dsl.String().
			Refine("syncChild", func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
				order = append(order, "sync:name")
				return nil, nil
			}).
			RefineAsync("asyncChild", func(ctx context.Context, rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
				order = append(order, "async:name")
				return nil, nil
			}),
	}).Refine("syncRoot", func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
		order = append(order, "sync:root")
		return nil, nil
	}).RefineAsync("asyncRoot", func(ctx context.Context, rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
		order = append(order, "async:root")
		return nil, nil
	})

	if _, err := anzen.ParseContext(context.Background(), schema, map[string]any{"name": "x"}); err != nil {
		t.Fatalf("ParseContext: %v", err)
	}
	want := []string{"sync:name", "sync:root", "async:name", "async:root"}
	if len(order) != len(want) {
		t.Fatalf("want %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("want %v, got %v", want, order)
		}
	}
}

func TestAsyncRefinementRaisesIssue(t *testing.T) {
	schema := dsl.Object(map[string]anzen.Node{
		"email": dsl.String().RefineAsync("available", func(ctx context.Context, rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
			if v.Str() == "taken@example.com" {
				rc.Issue("email already registered")
			}
			return nil, nil
		}),
	})

	res, err := anzen.SafeParseContext(context.Background(), schema, map[string]any{"email": "taken@example.com"})
	if err != nil {
		t.Fatalf("SafeParseContext: %v", err)
	}
	if res.OK {
		t.Fatal("expected async refinement to fail the parse")
	}
	got := res.Issues.At(anzen.Path{"email"})
	if len(got) != 1 || got[0].Message != "email already registered" {
		t.Fatalf("want one custom issue at /email, got %v", res.Issues)
	}

	res, err = anzen.SafeParseContext(context.Background(), schema, map[string]any{"email": "free@example.com"})
	if err != nil {
		t.Fatalf("SafeParseContext: %v", err)
	}
	if !res.OK {
		t.Fatalf("unexpected issues: %v", res.Issues)
	}
}

func TestAsyncSuppressionOnStructuralFailure(t *testing.T) {
	ranAge, ranName := false, false
	schema := dsl.Object(map[string]anzen.Node{
		"age": dsl.Number().RefineAsync("positive", func(ctx context.Context, rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
			ranAge = true
			return nil, nil
		}),
		"name": dsl.String().RefineAsync("allowed", func(ctx context.Context, rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
			ranName = true
			return nil, nil
		}),
	})

	res, err := anzen.SafeParseContext(context.Background(), schema, map[string]any{"age": "not a number", "name": "ok"})
	if err != nil {
		t.Fatalf("SafeParseContext: %v", err)
	}
	if res.OK {
		t.Fatal("expected invalid_type failure")
	}
	if ranAge {
		t.Fatal("async refinement must be suppressed when its own path already has an issue")
	}
	if !ranName {
		t.Fatal("siblings must still run their async refinements")
	}
}

func TestAsyncSuppressionBySyncIssueAtSamePath(t *testing.T) {
	ranAsync := false
	schema := dsl.String().
		Refine("syncFail", func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
			rc.Issue("sync says no")
			return nil, nil
		}).
		RefineAsync("asyncCheck", func(ctx context.Context, rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
			ranAsync = true
			return nil, nil
		})

	res, err := anzen.SafeParseContext(context.Background(), schema, "x")
	if err != nil {
		t.Fatalf("SafeParseContext: %v", err)
	}
	if res.OK || len(res.Issues) != 1 {
		t.Fatalf("want only the sync issue, got %v", res.Issues)
	}
	if ranAsync {
		t.Fatal("a sync-phase issue at the node's own path must suppress its async rules")
	}
}

func TestReturnedIssuesCollected(t *testing.T) {
	schema := dsl.String().Refine("ret", func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
		return []any{
			anzen.Issue{Code: "custom", Message: "one"},
			"not an issue, ignored",
			anzen.Issue{Code: "custom", Message: "two"},
		}, nil
	})
	res, err := anzen.SafeParse(schema, "x")
	if err != nil {
		t.Fatalf("SafeParse: %v", err)
	}
	if len(res.Issues) != 2 {
		t.Fatalf("want 2 issues, got %v", res.Issues)
	}
}

func TestReturnedContextIssueNotDoubled(t *testing.T) {
	schema := dsl.String().Refine("dup", func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
		// raising and returning the same issue counts once
		return rc.Issue("raised"), nil
	})
	res, err := anzen.SafeParse(schema, "x")
	if err != nil {
		t.Fatalf("SafeParse: %v", err)
	}
	if len(res.Issues) != 1 {
		t.Fatalf("identity dedup failed: %v", res.Issues)
	}
}
