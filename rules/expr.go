package rules

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	anzen "github.com/anzen-go/anzen"
	"github.com/anzen-go/anzen/i18n"
)

// Expr evaluates an expr-lang boolean expression against the parsed value.
// Args: source string, e.g. `value >= 0 && value <= 100` or
// `len(value.tags) > 0` on composites. The expression compiles at attach
// time; compile and runtime errors surface as exception issues.
func Expr() anzen.Extension {
	return anzen.Extension{
		Name: "expr",
		Build: func(args ...any) anzen.RefineFunc {
			src, err := argString(args, 0)
			var prg *vm.Program
			if err == nil {
				prg, err = expr.Compile(src,
					expr.Env(map[string]any{}),
					expr.AllowUndefinedVariables(),
					expr.AsBool(),
				)
			}
			return func(rc *anzen.RefineCtx, v *anzen.Value) (any, error) {
				if err != nil {
					return nil, err
				}
				res, rerr := expr.Run(prg, map[string]any{"value": v.Raw()})
				if rerr != nil {
					return nil, rerr
				}
				if ok, _ := res.(bool); !ok {
					rc.IssueCode(CodeExpression, i18n.T(CodeExpression, map[string]string{"expr": src}))
				}
				return nil, nil
			}
		},
	}
}
