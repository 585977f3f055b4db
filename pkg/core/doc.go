// Package core provides a small, stable facade over keyhunt's detection
// pipeline for other programs. It re-exports a narrow API surface so callers
// can depend on a stable import path without reaching into internal packages.
//
// Example:
//
//	res, err := core.Check(ctx, text, core.OpenAIValidator(""), 0)
//	if err != nil { /* handle */ }
//	if res.Valid() { fmt.Println(core.Mask(res.Key)) }
package core
