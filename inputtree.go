package anzen

// Field is one node of the parsed-input tree: a reconstruction mirroring the
// schema shape where every entry carries the raw input at that path, the
// successfully parsed value (nil when parsing failed there), and the issues
// raised at that exact path (a branch's Issues never include its
// descendants'). The tree is what form-style error rendering consumes.
type Field struct {
	Value  any
	Parsed any
	Issues Issues
	Fields map[string]*Field // object/record children
	Items  []*Field          // array elements
}

// ObjectLike is implemented by object nodes so the input tree can mirror
// their declared children.
type ObjectLike interface {
	FieldNodes() map[string]Node
}

// ItemLike is implemented by array and record nodes that apply one item node
// per element or value.
type ItemLike interface {
	ItemNode() Node
}

// buildField renders the parsed-input tree from the context's path-indexed
// records. Paths the structural phase never reached (children of a failed
// branch) still appear, with a nil value and any issues at their exact path.
func buildField(pc *Context, n Node, path Path) *Field {
	if rec := pc.InputAt(path); rec != nil && rec.Node != nil {
		n = rec.Node // resolved member for unions
	}
	f := &Field{Issues: pc.IssuesAt(path)}
	rec := pc.InputAt(path)
	if rec != nil {
		f.Value = rec.Raw
		if rec.OK {
			f.Parsed = rec.Parsed
		}
	}
	switch n.Kind() {
	case KindObject:
		if o, ok := n.(ObjectLike); ok {
			children := o.FieldNodes()
			f.Fields = make(map[string]*Field, len(children))
			for k, child := range children {
				f.Fields[k] = buildField(pc, child, path.Field(k))
			}
		}
	case KindArray:
		if it, ok := n.(ItemLike); ok && rec != nil {
			if a, isArr := rec.Raw.([]any); isArr {
				f.Items = make([]*Field, len(a))
				for i := range a {
					f.Items[i] = buildField(pc, it.ItemNode(), path.Index(i))
				}
			}
		}
	case KindRecord:
		if it, ok := n.(ItemLike); ok && rec != nil {
			if m, isMap := rec.Raw.(map[string]any); isMap {
				f.Fields = make(map[string]*Field, len(m))
				for k := range m {
					f.Fields[k] = buildField(pc, it.ItemNode(), path.Field(k))
				}
			}
		}
	}
	return f
}
