package anzen

// Package anzen provides:
//
// - Schema-driven parsing of untrusted input into typed data, collecting
//   structured per-field issues instead of failing on the first error
// - A stable error model via Issue/Issues (path, code, message) and a
//   parsed-input tree for form-style error rendering
// - A path-tracking view so refinement callbacks attribute issues to the
//   last accessed field without spelling out paths
// - A registry-based extension mechanism for attaching named, parameterized
//   validators to node kinds without subclassing boilerplate
//
// Design policy:
// - Keep only public APIs and the engine in the root package.
// - Place the node kinds and builder surface under dsl/, prebuilt rule
//   extensions under rules/, and message dictionaries under i18n/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := dsl.Object(map[string]anzen.Node{
//		"email": dsl.String(),
//		"age":   dsl.Number().Optional(),
//	})
//	v, err := anzen.Parse(s, input)
//	res, err := anzen.SafeParse(s, input)
