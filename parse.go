package anzen

import "context"

// Result is the tagged outcome of SafeParse/SafeParseContext: either clean
// parsed data, or the flat issue list plus the parsed-input tree.
type Result struct {
	OK     bool
	Data   any
	Issues Issues
	Input  *Field
}

// Parse runs the synchronous pipeline and returns the parsed value, or a
// *ParseError carrying the issues and input tree. It rejects schemas that
// contain async refinements anywhere in the tree with ErrAsyncRules rather
// than silently dropping them.
func Parse(n Node, raw any, opts ...ParseOpt) (any, error) {
	if n.HasAsyncRules() {
		return nil, ErrAsyncRules
	}
	pc, v, err := runSync(n, raw, opts)
	if err != nil {
		return nil, err
	}
	if pc.IssueCount() > 0 {
		return nil, &ParseError{Issues: pc.Issues(), root: n, pc: pc}
	}
	return v, nil
}

// SafeParse never fails for data-shaped problems: it returns a tagged
// Result. The returned error is reserved for caller configuration bugs
// (async refinements in a sync entry point, missing runtime dependencies).
func SafeParse(n Node, raw any, opts ...ParseOpt) (Result, error) {
	if n.HasAsyncRules() {
		return Result{}, ErrAsyncRules
	}
	pc, v, err := runSync(n, raw, opts)
	if err != nil {
		return Result{}, err
	}
	return makeResult(pc, n, v), nil
}

// ParseContext is the awaitable entry point: after the whole tree's
// synchronous phase it runs the async refinement pass, one validator at a
// time. The engine performs no I/O itself and imposes no timeout; a hung
// async validator hangs the call, so callers bound ctx externally if needed.
func ParseContext(ctx context.Context, n Node, raw any, opts ...ParseOpt) (any, error) {
	pc, v, err := runSync(n, raw, opts)
	if err != nil {
		return nil, err
	}
	if err := pc.ApplyRulesAsync(ctx, n, v); err != nil {
		return nil, err
	}
	if pc.IssueCount() > 0 {
		return nil, &ParseError{Issues: pc.Issues(), root: n, pc: pc}
	}
	return v, nil
}

// SafeParseContext is the awaitable SafeParse; it is always allowed,
// regardless of async refinements.
func SafeParseContext(ctx context.Context, n Node, raw any, opts ...ParseOpt) (Result, error) {
	pc, v, err := runSync(n, raw, opts)
	if err != nil {
		return Result{}, err
	}
	if err := pc.ApplyRulesAsync(ctx, n, v); err != nil {
		return Result{}, err
	}
	return makeResult(pc, n, v), nil
}

// runSync allocates the per-call context, performs the structural phase for
// the whole tree, then the synchronous refinement phase. All synchronous
// refinements complete, depth-first child-before-parent, before any async
// refinement is considered.
func runSync(n Node, raw any, opts []ParseOpt) (*Context, any, error) {
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	pc := NewContext(raw, opt)
	// a nil root is an explicit null, not a missing key
	v := pc.ParseNode(n, raw, true)
	pc.SetPath(nil)
	if err := pc.ApplyRules(n, v); err != nil {
		return pc, nil, err
	}
	return pc, v, nil
}

func makeResult(pc *Context, n Node, v any) Result {
	if pc.IssueCount() == 0 {
		return Result{OK: true, Data: v}
	}
	return Result{Issues: pc.Issues(), Input: buildField(pc, n, nil)}
}
