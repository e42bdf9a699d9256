package anzen

import (
	"fmt"
	"strconv"
	"strings"
)

// Issue codes produced by the engine. User refinements may use any code;
// CodeCustom is the default when none is given.
const (
	CodeInvalidType = "invalid_type"
	CodeRequired    = "required"
	CodeException   = "exception"
	CodeCustom      = "custom"
)

// Path is an ordered list of object keys (string) and array indices (int),
// root-first. The zero value addresses the root.
type Path []any

// Field returns a new Path extended with an object key.
func (p Path) Field(name string) Path {
	return append(append(Path{}, p...), name)
}

// Index returns a new Path extended with an array index.
func (p Path) Index(i int) Path {
	return append(append(Path{}, p...), i)
}

// Pointer renders the path as a JSON Pointer (for example: /items/2/price).
// The root path renders as "/".
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range p {
		b.WriteByte('/')
		switch s := seg.(type) {
		case string:
			// escape '~' -> '~0', '/' -> '~1' per RFC6901
			b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1"))
		case int:
			b.WriteString(strconv.Itoa(s))
		default:
			fmt.Fprint(b, seg)
		}
	}
	return b.String()
}

// Equal reports whether two paths address the same location.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Issue represents a single validation entry.
type Issue struct {
	Path    Path   // Location in the input, root-first keys/indices.
	Code    string // One of the codes above, or a user-chosen code.
	Message string
	Rule    string // Optional: name of the refinement that produced this issue.
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path.Pointer())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// At returns the issues located exactly at the given path.
func (iss Issues) At(p Path) Issues {
	var out Issues
	for _, it := range iss {
		if it.Path.Equal(p) {
			out = append(out, it)
		}
	}
	return out
}

// IssueText supplies override text for an issue: either a fixed string or a
// callback receiving the original issue and returning a string or a full
// Issue. Construct values with Msg or MsgFunc.
type IssueText struct {
	text string
	fn   func(orig Issue) any
}

// Msg builds a fixed-string IssueText.
func Msg(text string) IssueText { return IssueText{text: text} }

// MsgFunc builds a callback IssueText. The callback may return a string
// (replacing the message) or an Issue (replacing the whole issue; its path
// is still forced to the overriding node's own path).
func MsgFunc(fn func(orig Issue) any) IssueText { return IssueText{fn: fn} }

// Render produces the replacement issue for orig at the given path.
func (t IssueText) Render(path Path, orig Issue) Issue {
	out := Issue{Path: path, Code: orig.Code, Message: t.text, Rule: orig.Rule}
	if t.fn != nil {
		switch r := t.fn(orig).(type) {
		case string:
			out.Message = r
		case Issue:
			out = r
			out.Path = path
		}
	}
	if out.Code == "" {
		out.Code = CodeCustom
	}
	return out
}

// isIssueText reports whether the trailing argument of an extension call is
// a message override.
func isIssueText(v any) (IssueText, bool) {
	t, ok := v.(IssueText)
	return t, ok
}
