package anzen

// StringOpt is the reserved "string" namespace of the options bag. A node's
// own per-instance configuration wins; these apply as the fallback.
type StringOpt struct {
	Coerce *bool // Convert non-string scalars via formatting.
	Trim   *bool // Trim surrounding whitespace (default true).
	Empty  *bool // Allow empty strings (default true); otherwise treated as missing.
}

// NumberOpt is the reserved "number" namespace of the options bag.
type NumberOpt struct {
	Coerce *bool // Parse numeric strings.
}

// BoolOpt is the reserved "bool" namespace of the options bag.
type BoolOpt struct {
	Coerce *bool // Accept "true"/"false"/"1"/"0" and 0/1.
}

// ParseOpt bundles per-call parsing options. The three scalar namespaces are
// consumed by the matching node kinds; Values is a free-form store that
// refinements read back through RefineCtx.Get.
type ParseOpt struct {
	String StringOpt
	Number NumberOpt
	Bool   BoolOpt
	Values map[string]any
}

// True and False are convenience pointers for the optional option flags.
var (
	True  = boolPtr(true)
	False = boolPtr(false)
)

func boolPtr(b bool) *bool { return &b }
