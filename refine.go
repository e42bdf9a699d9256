package anzen

// RefineCtx is the context-like object handed to refinement callbacks. It
// exposes issue raising, the caller-supplied runtime dependencies, and
// raw-input presence checks, but no other parse-state side effects.
type RefineCtx struct {
	pc   *Context
	rule string
}

// Issue raises a custom issue at the current path (the most recently
// accessed field) and returns it so return-style callbacks can pass it
// along; identity-based dedup makes that harmless.
func (rc *RefineCtx) Issue(msg string) *Issue {
	return rc.IssueCode(CodeCustom, msg)
}

// IssueCode raises an issue with an explicit code at the current path.
func (rc *RefineCtx) IssueCode(code, msg string) *Issue {
	return rc.pc.AddIssue(&Issue{Code: code, Message: msg, Rule: rc.rule})
}

// IssueAt raises an issue at an explicit path.
func (rc *RefineCtx) IssueAt(p Path, code, msg string) *Issue {
	return rc.pc.AddIssue(&Issue{Path: append(Path{}, p...), Code: code, Message: msg, Rule: rc.rule})
}

// Get retrieves a caller-supplied runtime dependency from the options bag.
// The *MissingKeyError it returns for absent keys propagates through the
// whole parse unchanged; never wrap it into a validation outcome.
func (rc *RefineCtx) Get(key string) (any, error) {
	return rc.pc.Get(key)
}

// MustGet is Get for callbacks without an error path; it panics with
// *MissingKeyError, which the engine recognizes and propagates rather than
// converting into an exception issue.
func (rc *RefineCtx) MustGet(key string) any {
	v, err := rc.pc.Get(key)
	if err != nil {
		panic(err)
	}
	return v
}

// Defined reports whether the original raw input at the view's path was
// non-null, independent of what the structural phase coerced it to.
func (rc *RefineCtx) Defined(v *Value) bool {
	return rc.pc.Defined(PathOf(v))
}

// DefinedAt is Defined for an explicit path.
func (rc *RefineCtx) DefinedAt(p Path) bool { return rc.pc.Defined(p) }

// Path returns the current attribution path.
func (rc *RefineCtx) Path() Path { return rc.pc.Path() }
