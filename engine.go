package anzen

import (
	"context"
	"errors"
	"fmt"

	"github.com/anzen-go/anzen/i18n"
)

// defaultMessage fetches the dictionary text for a structural issue code.
func defaultMessage(code string) string { return i18n.T(code, nil) }

// ParseNode runs the structural phase for one node under the current path.
// present distinguishes an explicit null (true) from a missing key (false);
// the optional flag admits missing values, the nullable flag admits nulls,
// and either admission yields the node's declared default.
//
// Structural failures never abort the parse: they are recorded as issues and
// the node's default value stands in so parsing can continue elsewhere.
func (pc *Context) ParseNode(n Node, raw any, present bool) any {
	n = n.Resolve(pc, raw)
	if raw == nil {
		return pc.nullFallback(n, nil, present)
	}

	checked := raw
	if is := n.Check(pc, raw); is != nil {
		cv, ok := n.Coerce(pc, raw)
		if !ok {
			pc.addCoreIssue(n, is)
			def := DefaultOf(n)
			pc.RecordInput(raw, def, false, n)
			return def
		}
		checked = cv
	}

	v := n.Clean(pc, checked)
	if v == nil {
		// normalized to missing (e.g. empty string under Empty:false), so the
		// optional flag is what admits it, not nullable
		return pc.nullFallback(n, raw, false)
	}

	rec := pc.RecordInput(raw, v, true, n)
	v = n.ParseChildren(pc, v)
	rec.Parsed = v
	return v
}

// nullFallback applies null handling: succeed with the declared default when
// the node admits this null variant, otherwise raise a required issue and
// still fall back to the default.
func (pc *Context) nullFallback(n Node, raw any, present bool) any {
	m := n.Meta()
	admitted := (present && m.Nullable) || (!present && m.Optional)
	def := DefaultOf(n)
	if !admitted {
		pc.addCoreIssue(n, &Issue{Code: CodeRequired})
	}
	pc.RecordInput(raw, def, admitted, n)
	return def
}

// addCoreIssue records a structural issue, substituting the node's override
// for invalid_type/required when one is declared.
func (pc *Context) addCoreIssue(n Node, is *Issue) *Issue {
	if is.Path == nil {
		is.Path = pc.Path()
	}
	if is.Message == "" {
		is.Message = defaultMessage(is.Code)
	}
	if t, ok := n.Meta().Overrides[is.Code]; ok {
		rep := t.Render(is.Path, *is)
		rep.Code = is.Code
		return pc.AddIssue(&rep)
	}
	return pc.AddIssue(is)
}

// ApplyRules runs the synchronous refinement phase for the subtree rooted at
// the current path: children first, then this node's own entries. A node's
// own entries are skipped when an issue already exists exactly at its path;
// children still validate independently. The only propagating error is
// *MissingKeyError.
func (pc *Context) ApplyRules(n Node, v any) error {
	own := pc.Path()
	static := n
	if rec := pc.InputAt(own); rec != nil && rec.Node != nil {
		n = rec.Node // resolved member for unions
	}
	skip := pc.HasIssueAt(own)
	if err := n.RuleChildren(pc, v); err != nil {
		return err
	}
	pc.SetPath(own)
	if skip {
		return nil
	}
	rules := n.Meta().Rules
	if static != n {
		// refinements attached to the union itself still run
		rules = append(append([]Rule(nil), rules...), static.Meta().Rules...)
	}
	for _, r := range rules {
		// reset so attribution from one refinement can't leak into the next
		pc.SetPath(own)
		if err := pc.runRule(context.Background(), r, v, own); err != nil {
			return err
		}
	}
	pc.SetPath(own)
	return nil
}

// ApplyRulesAsync is the second, awaitable pass. It mirrors ApplyRules but
// executes strictly sequentially within a node and only starts after the
// entire tree's synchronous phase has completed. Suppression is re-evaluated
// against the issue set as it stands when the async pass reaches the node.
func (pc *Context) ApplyRulesAsync(ctx context.Context, n Node, v any) error {
	own := pc.Path()
	static := n
	if rec := pc.InputAt(own); rec != nil && rec.Node != nil {
		n = rec.Node
	}
	skip := pc.HasIssueAt(own)
	if err := n.RuleChildrenAsync(ctx, pc, v); err != nil {
		return err
	}
	pc.SetPath(own)
	if skip {
		return nil
	}
	rules := n.Meta().AsyncRules
	if static != n {
		rules = append(append([]Rule(nil), rules...), static.Meta().AsyncRules...)
	}
	for _, r := range rules {
		pc.SetPath(own)
		if err := pc.runRule(ctx, r, v, own); err != nil {
			return err
		}
	}
	pc.SetPath(own)
	return nil
}

// runRule executes a single refinement entry: issues raised through the
// context or returned by the callback are collected; a message override
// collapses everything the entry raised into one replacement issue at the
// node's own path; panics and returned errors become exception issues unless
// they carry *MissingKeyError, which unwinds unchanged.
func (pc *Context) runRule(ctx context.Context, r Rule, v any, own Path) (err error) {
	mark := pc.mark()
	view := pc.view(own, v)
	rc := &RefineCtx{pc: pc, rule: r.Name}

	var ret any
	func() {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if e, ok := rec.(error); ok {
				var mk *MissingKeyError
				if errors.As(e, &mk) {
					err = e
					return
				}
			}
			pc.AddIssue(&Issue{Path: own, Code: CodeException, Message: fmt.Sprint(rec), Rule: r.Name})
		}()
		var ferr error
		if r.AsyncFn != nil {
			ret, ferr = r.AsyncFn(ctx, rc, view)
		} else if r.Fn != nil {
			ret, ferr = r.Fn(rc, view)
		}
		if ferr != nil {
			var mk *MissingKeyError
			if errors.As(ferr, &mk) {
				err = ferr
				return
			}
			pc.AddIssue(&Issue{Path: own, Code: CodeException, Message: ferr.Error(), Rule: r.Name})
		}
	}()
	if err != nil {
		return err
	}

	pc.collectReturned(ret, r.Name)

	if r.Msg != nil {
		raised := pc.issuesSince(mark)
		if len(raised) > 0 {
			orig := *raised[0]
			for _, is := range raised {
				pc.RemoveIssue(is)
			}
			rep := r.Msg.Render(own, orig)
			rep.Rule = r.Name
			pc.AddIssue(&rep)
		}
	}
	pc.SetPath(own)
	return nil
}

// collectReturned folds a refinement's return value into the issue set:
// nothing, a single issue, or a sequence possibly containing issues
// (non-issue entries are ignored). Issues already added through the context
// deduplicate by identity.
func (pc *Context) collectReturned(ret any, rule string) {
	switch r := ret.(type) {
	case nil:
	case *Issue:
		pc.AddIssue(r)
	case Issue:
		is := r
		if is.Rule == "" {
			is.Rule = rule
		}
		pc.AddIssue(&is)
	case Issues:
		for _, it := range r {
			pc.collectReturned(it, rule)
		}
	case []Issue:
		for _, it := range r {
			pc.collectReturned(it, rule)
		}
	case []*Issue:
		for _, it := range r {
			pc.AddIssue(it)
		}
	case []any:
		for _, it := range r {
			pc.collectReturned(it, rule)
		}
	}
}
