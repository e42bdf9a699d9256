package anzen

// Context is the per-call parse state: the mutable current-path stack, the
// path-indexed input records, and the identity-deduplicated issue set. A
// Context is created by one Parse/SafeParse invocation and discarded with
// its result; it is never shared across concurrent parses.
type Context struct {
	opt     ParseOpt
	rootRaw any

	path   Path
	issues []*Issue
	seen   map[*Issue]struct{}
	inputs map[string]*InputRecord
	views  map[string]*Value
}

// InputRecord is the per-path bookkeeping entry written during the
// structural phase: the raw input, the parsed value, whether parsing at this
// path succeeded, and the resolved node that owned it. The resolved node is
// what makes partial re-validation and input-tree rendering possible.
type InputRecord struct {
	Path   Path
	Raw    any
	Parsed any
	OK     bool
	Node   Node
}

// NewContext allocates the state for one parse call.
func NewContext(root any, opt ParseOpt) *Context {
	return &Context{
		opt:     opt,
		rootRaw: root,
		seen:    map[*Issue]struct{}{},
		inputs:  map[string]*InputRecord{},
		views:   map[string]*Value{},
	}
}

// Opt returns the options bag for this call.
func (pc *Context) Opt() ParseOpt { return pc.opt }

// Path returns a copy of the current path.
func (pc *Context) Path() Path { return append(Path{}, pc.path...) }

// SetPath replaces the current path.
func (pc *Context) SetPath(p Path) { pc.path = append(Path{}, p...) }

// Scoped runs fn with the current path extended by seg, restoring the
// previous path on all exit paths, including panics.
func (pc *Context) Scoped(seg any, fn func() error) error {
	saved := pc.path
	pc.path = append(append(Path{}, saved...), seg)
	defer func() { pc.path = saved }()
	return fn()
}

// AddIssue records an issue, deduplicating by identity: the same *Issue
// added twice counts once, while two issues with identical content but
// different identity count twice. An empty path is filled in with the
// current path; an empty message falls back to the message dictionary.
func (pc *Context) AddIssue(is *Issue) *Issue {
	if is == nil {
		return nil
	}
	if _, dup := pc.seen[is]; dup {
		return is
	}
	if is.Path == nil {
		is.Path = pc.Path()
	}
	if is.Code == "" {
		is.Code = CodeCustom
	}
	if is.Message == "" {
		is.Message = defaultMessage(is.Code)
	}
	pc.seen[is] = struct{}{}
	pc.issues = append(pc.issues, is)
	return is
}

// RemoveIssue drops a previously added issue by identity.
func (pc *Context) RemoveIssue(is *Issue) {
	if _, ok := pc.seen[is]; !ok {
		return
	}
	delete(pc.seen, is)
	for i, it := range pc.issues {
		if it == is {
			pc.issues = append(pc.issues[:i], pc.issues[i+1:]...)
			return
		}
	}
}

// HasIssueAt reports whether any issue exists exactly at the given path
// (descendant issues do not count).
func (pc *Context) HasIssueAt(p Path) bool {
	for _, is := range pc.issues {
		if is.Path.Equal(p) {
			return true
		}
	}
	return false
}

// IssuesAt returns the issues located exactly at the given path.
func (pc *Context) IssuesAt(p Path) Issues {
	var out Issues
	for _, is := range pc.issues {
		if is.Path.Equal(p) {
			out = append(out, *is)
		}
	}
	return out
}

// Issues returns the flat issue list in insertion order.
func (pc *Context) Issues() Issues {
	out := make(Issues, 0, len(pc.issues))
	for _, is := range pc.issues {
		out = append(out, *is)
	}
	return out
}

// IssueCount returns the number of recorded issues.
func (pc *Context) IssueCount() int { return len(pc.issues) }

// mark/issuesSince delimit the issues raised during one refinement run so
// that a message override can collect and replace them.
func (pc *Context) mark() int { return len(pc.issues) }

func (pc *Context) issuesSince(mark int) []*Issue {
	return append([]*Issue(nil), pc.issues[mark:]...)
}

// Get retrieves a caller-supplied runtime dependency from the options bag.
// A missing key yields *MissingKeyError, which the refinement exception
// handler must never swallow.
func (pc *Context) Get(key string) (any, error) {
	if v, ok := pc.opt.Values[key]; ok {
		return v, nil
	}
	return nil, &MissingKeyError{Key: key}
}

// RecordInput writes the path-indexed bookkeeping entry for the current
// path.
func (pc *Context) RecordInput(raw, parsed any, ok bool, n Node) *InputRecord {
	rec := &InputRecord{Path: pc.Path(), Raw: raw, Parsed: parsed, OK: ok, Node: n}
	pc.inputs[rec.Path.Pointer()] = rec
	return rec
}

// InputAt returns the bookkeeping entry recorded at the given path, or nil.
func (pc *Context) InputAt(p Path) *InputRecord {
	return pc.inputs[p.Pointer()]
}

// Defined reports whether the original raw input at the given path was
// non-null. It walks the raw tree rather than the parsed output, because the
// structural phase normalizes admitted-missing fields to their defaults and
// naive null checks on parsed data always appear "defined".
func (pc *Context) Defined(p Path) bool {
	cur := pc.rootRaw
	for _, seg := range p {
		switch s := seg.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return false
			}
			cur = m[s]
		case int:
			a, ok := cur.([]any)
			if !ok || s < 0 || s >= len(a) {
				return false
			}
			cur = a[s]
		default:
			return false
		}
		if cur == nil {
			return false
		}
	}
	return cur != nil
}

// Fork produces an isolated clone for union trial parsing: issues, input
// records, and path mutations made on the fork never leak into the real
// context.
func (pc *Context) Fork() *Context {
	c := &Context{
		opt:     pc.opt,
		rootRaw: pc.rootRaw,
		path:    append(Path{}, pc.path...),
		issues:  append([]*Issue(nil), pc.issues...),
		seen:    make(map[*Issue]struct{}, len(pc.seen)),
		inputs:  make(map[string]*InputRecord, len(pc.inputs)),
		views:   map[string]*Value{},
	}
	for k := range pc.seen {
		c.seen[k] = struct{}{}
	}
	for k, v := range pc.inputs {
		c.inputs[k] = v
	}
	return c
}
