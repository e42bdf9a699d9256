package anzen_test

import (
	"testing"

	anzen "github.com/anzen-go/anzen"
)

func noop(args ...any) anzen.RefineFunc {
	return func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) { return nil, nil }
}

func TestRegisterRejectsReservedNames(t *testing.T) {
	reg := anzen.NewRegistry("optional", "nullable")
	err := reg.Register(anzen.Extension{Name: "optional", Build: noop})
	if err == nil {
		t.Fatal("registering a built-in name must fail")
	}
	if err := reg.Register(anzen.Extension{Name: "shiny", Build: noop}); err != nil {
		t.Fatalf("non-reserved name rejected: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	reg := anzen.NewRegistry()
	if err := reg.Register(anzen.Extension{Build: noop}); err == nil {
		t.Fatal("empty name must fail")
	}
	if err := reg.Register(anzen.Extension{Name: "x"}); err == nil {
		t.Fatal("sync extension without Build must fail")
	}
	if err := reg.Register(anzen.Extension{Name: "y", Async: true}); err == nil {
		t.Fatal("async extension without BuildAsync must fail")
	}
}

func TestReRegisterReplaces(t *testing.T) {
	reg := anzen.NewRegistry()
	if err := reg.Register(anzen.Extension{Name: "x", Build: noop}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := reg.Register(anzen.Extension{Name: "x", Build: noop}); err != nil {
		t.Fatalf("re-register must replace, got %v", err)
	}
	if _, ok := reg.Lookup("x"); !ok {
		t.Fatal("lookup after re-register failed")
	}
}
