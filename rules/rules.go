// Package rules ships the stock extensions: length, range, pattern, enum
// and uniqueness checks, plus an expression-language rule. Install registers
// them into the dsl registries; individual constructors are exported for
// custom registries.
package rules

import (
	"fmt"
	"regexp"

	anzen "github.com/anzen-go/anzen"
	"github.com/anzen-go/anzen/dsl"
	"github.com/anzen-go/anzen/i18n"
)

// Issue codes raised by the stock extensions.
const (
	CodeTooShort    = "too_short"
	CodeTooLong     = "too_long"
	CodeTooSmall    = "too_small"
	CodeTooBig      = "too_big"
	CodePattern     = "pattern"
	CodeInvalidEnum = "invalid_enum"
	CodeUniqueness  = "uniqueness"
	CodeExpression  = "expression"
)

// Install registers the stock extensions into the dsl registries. Safe to
// call more than once; re-registration replaces the prior entry.
func Install() {
	dsl.StringRules.MustRegister(MinLen())
	dsl.StringRules.MustRegister(MaxLen())
	dsl.StringRules.MustRegister(Pattern())
	dsl.StringRules.MustRegister(NonEmpty())
	dsl.StringRules.MustRegister(OneOf())
	dsl.StringRules.MustRegister(Expr())

	dsl.NumberRules.MustRegister(Min())
	dsl.NumberRules.MustRegister(Max())
	dsl.NumberRules.MustRegister(OneOf())
	dsl.NumberRules.MustRegister(Expr())

	dsl.ArrayRules.MustRegister(MinLen())
	dsl.ArrayRules.MustRegister(MaxLen())
	dsl.ArrayRules.MustRegister(NonEmpty())
	dsl.ArrayRules.MustRegister(Unique())
	dsl.ArrayRules.MustRegister(Expr())

	dsl.ObjectRules.MustRegister(Expr())
	dsl.RecordRules.MustRegister(Expr())
	dsl.UnionRules.MustRegister(Expr())
}

// MinLen enforces a minimum length on strings and arrays. Args: min int.
func MinLen() anzen.Extension {
	return anzen.Extension{
		Name: "minLen",
		Build: func(args ...any) anzen.RefineFunc {
			min, err := argInt(args, 0)
			return func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
				if err != nil {
					return nil, err
				}
				if v.IsNil() {
					return nil, nil
				}
				if v.Len() < min {
					rc.IssueCode(CodeTooShort, i18n.T(CodeTooShort, map[string]string{"min": fmt.Sprint(min)}))
				}
				return nil, nil
			}
		},
	}
}

// MaxLen enforces a maximum length on strings and arrays. Args: max int.
func MaxLen() anzen.Extension {
	return anzen.Extension{
		Name: "maxLen",
		Build: func(args ...any) anzen.RefineFunc {
			max, err := argInt(args, 0)
			return func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
				if err != nil {
					return nil, err
				}
				if v.IsNil() {
					return nil, nil
				}
				if v.Len() > max {
					rc.IssueCode(CodeTooLong, i18n.T(CodeTooLong, map[string]string{"max": fmt.Sprint(max)}))
				}
				return nil, nil
			}
		},
	}
}

// NonEmpty rejects empty strings and arrays. No args.
func NonEmpty() anzen.Extension {
	return anzen.Extension{
		Name: "nonEmpty",
		Build: func(args ...any) anzen.RefineFunc {
			return func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
				if v.IsNil() || v.Len() == 0 {
					rc.IssueCode(CodeTooShort, i18n.T(CodeTooShort, nil))
				}
				return nil, nil
			}
		},
	}
}

// Pattern matches strings against a regular expression. Args: pattern string.
// The pattern compiles at attach time; a bad pattern surfaces as an exception
// issue when the rule first runs.
func Pattern() anzen.Extension {
	return anzen.Extension{
		Name: "pattern",
		Build: func(args ...any) anzen.RefineFunc {
			src, err := argString(args, 0)
			var re *regexp.Regexp
			if err == nil {
				re, err = regexp.Compile(src)
			}
			return func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
				if err != nil {
					return nil, err
				}
				if v.IsNil() {
					return nil, nil
				}
				if !re.MatchString(v.Str()) {
					rc.IssueCode(CodePattern, i18n.T(CodePattern, map[string]string{"pattern": src}))
				}
				return nil, nil
			}
		},
	}
}

// Min enforces an inclusive numeric lower bound. Args: min number.
func Min() anzen.Extension {
	return anzen.Extension{
		Name: "min",
		Build: func(args ...any) anzen.RefineFunc {
			min, err := argFloat(args, 0)
			return func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
				if err != nil {
					return nil, err
				}
				if v.IsNil() {
					return nil, nil
				}
				if v.Num() < min {
					rc.IssueCode(CodeTooSmall, i18n.T(CodeTooSmall, map[string]string{"min": fmt.Sprint(min)}))
				}
				return nil, nil
			}
		},
	}
}

// Max enforces an inclusive numeric upper bound. Args: max number.
func Max() anzen.Extension {
	return anzen.Extension{
		Name: "max",
		Build: func(args ...any) anzen.RefineFunc {
			max, err := argFloat(args, 0)
			return func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
				if err != nil {
					return nil, err
				}
				if v.IsNil() {
					return nil, nil
				}
				if v.Num() > max {
					rc.IssueCode(CodeTooBig, i18n.T(CodeTooBig, map[string]string{"max": fmt.Sprint(max)}))
				}
				return nil, nil
			}
		},
	}
}

// OneOf restricts a scalar to an allowed set. Args: the allowed values.
func OneOf() anzen.Extension {
	return anzen.Extension{
		Name: "oneOf",
		Build: func(args ...any) anzen.RefineFunc {
			allowed := append([]any(nil), args...)
			return func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
				if v.IsNil() {
					return nil, nil
				}
				for _, w := range allowed {
					if scalarEqual(w, v.Raw()) {
						return nil, nil
					}
				}
				rc.IssueCode(CodeInvalidEnum, i18n.T(CodeInvalidEnum, nil))
				return nil, nil
			}
		},
	}
}

// Unique rejects duplicate array elements. Reports one issue per duplicate,
// naming the value. No args.
func Unique() anzen.Extension {
	return anzen.Extension{
		Name: "unique",
		Build: func(args ...any) anzen.RefineFunc {
			return func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
				seen := map[any]struct{}{}
				for _, el := range v.Items() {
					raw := el.Raw()
					if raw == nil {
						continue
					}
					key := uniqueKey(raw)
					if _, dup := seen[key]; dup {
						rc.IssueCode(CodeUniqueness, fmt.Sprintf("%s: %v", i18n.T(CodeUniqueness, nil), raw))
						continue
					}
					seen[key] = struct{}{}
				}
				return nil, nil
			}
		},
	}
}

// uniqueKey folds values into something map-hashable; composites fall back to
// their printed form.
func uniqueKey(v any) any {
	switch v.(type) {
	case string, float64, bool, int, int64:
		return v
	default:
		return fmt.Sprintf("%#v", v)
	}
}

func scalarEqual(want, got any) bool {
	wf, wok := toFloat(want)
	gf, gok := toFloat(got)
	if wok && gok {
		return wf == gf
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

func argInt(args []any, i int) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("rules: missing argument %d", i)
	}
	switch t := args[i].(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		return int(t), nil
	}
	return 0, fmt.Errorf("rules: argument %d: want int, got %T", i, args[i])
}

func argFloat(args []any, i int) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("rules: missing argument %d", i)
	}
	if f, ok := toFloat(args[i]); ok {
		return f, nil
	}
	return 0, fmt.Errorf("rules: argument %d: want number, got %T", i, args[i])
}

func argString(args []any, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("rules: missing argument %d", i)
	}
	if s, ok := args[i].(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("rules: argument %d: want string, got %T", i, args[i])
}
