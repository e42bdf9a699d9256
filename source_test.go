package anzen_test

import (
	"testing"

	anzen "github.com/anzen-go/anzen"
	"github.com/anzen-go/anzen/dsl"
)

func TestDecodeJSON(t *testing.T) {
	v, err := anzen.DecodeJSON([]byte(`{"name":"a","age":30,"tags":["x","y"]}`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("want map, got %T", v)
	}
	if m["age"] != float64(30) {
		t.Fatalf("numbers must decode as float64, got %T", m["age"])
	}
	if _, err := anzen.DecodeJSON([]byte(`{`)); err == nil {
		t.Fatal("malformed JSON must fail")
	}
}

func TestDecodeYAML(t *testing.T) {
	v, err := anzen.DecodeYAML([]byte("name: a\nage: 30\ntags:\n  - x\n  - y\n"))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("want map[string]any, got %T", v)
	}
	if m["name"] != "a" {
		t.Fatalf("unexpected name: %v", m["name"])
	}

	schema := dsl.Object(map[string]anzen.Node{
		"name": dsl.String(),
		"age":  dsl.Number(),
		"tags": dsl.Array(dsl.String()),
	})
	if _, err := anzen.Parse(schema, v); err != nil {
		t.Fatalf("Parse over decoded YAML: %v", err)
	}
}

type account struct {
	Name string  `json:"name"`
	Age  float64 `json:"age"`
}

func TestBind(t *testing.T) {
	got, err := anzen.Bind[account](map[string]any{"name": "a", "age": float64(30)})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if got.Name != "a" || got.Age != 30 {
		t.Fatalf("unexpected bind result: %+v", got)
	}
}

func TestParseInto(t *testing.T) {
	schema := dsl.Object(map[string]anzen.Node{
		"name": dsl.String(),
		"age":  dsl.Number(),
	})
	got, err := anzen.ParseInto[account](schema, map[string]any{"name": "a", "age": 30, "extra": true})
	if err != nil {
		t.Fatalf("ParseInto: %v", err)
	}
	if got.Name != "a" || got.Age != 30 {
		t.Fatalf("unexpected result: %+v", got)
	}

	if _, err := anzen.ParseInto[account](schema, map[string]any{"age": 30}); err == nil {
		t.Fatal("missing required field must fail")
	}
}
