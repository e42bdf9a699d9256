package anzen

import "github.com/mitchellh/mapstructure"

// Bind projects a parsed map onto a caller struct, honoring `json` field
// tags. It complements Parse for callers that want typed access to validated
// data.
func Bind[T any](v any) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: "json",
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(v); err != nil {
		return out, err
	}
	return out, nil
}

// ParseInto composes Parse and Bind.
func ParseInto[T any](n Node, raw any, opts ...ParseOpt) (T, error) {
	v, err := Parse(n, raw, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return Bind[T](v)
}
