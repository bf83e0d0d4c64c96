// Package rules provides the built-in rules for relinkcheck.
//
// # Rules
//
//   - missing-file (file-reference): a relative link, image or definition
//     points at a path that does not exist next to the document.
//
//   - missing-heading (heading-reference): a fragment names no heading of
//     the document itself or of the linked Markdown file.
//
// Both rules read one report per document, produced by pkg/relinks and
// shared through the rule context, so each document's links are checked
// once however many rules are enabled.
//
// # Registration
//
// Rules are registered with lint.DefaultRegistry during init. Use
// RegisterAll to populate another registry.
package rules
