// Package relinks checks the relative links of a Markdown document.
//
// For every link, image and link reference definition it decides whether
// the target can be verified locally and, if so, whether it resolves:
//
//   - "#frag" must name a heading of the document itself.
//   - "path" and "path#frag" must name an existing file next to the
//     document; a fragment must name an ATX heading of that file.
//   - Site-rooted ("/...") and absolute URLs ("https:", "mailto:", ...)
//     are ignored.
//
// Problems are reported to a Sink, one message per broken reference, in
// document order.
package relinks

import (
	"strings"

	"github.com/yaklabco/relinkcheck/pkg/mdast"
)

// Source identifies relinkcheck as the origin of a diagnostic.
const Source = "relinkcheck"

// Rule identifiers.
const (
	RuleMissingHeading = "missing-heading"
	RuleMissingFile    = "missing-file"
)

// Origin returns the namespaced origin string for rule.
func Origin(rule string) string {
	return Source + ":" + rule
}

// SplitOrigin splits an origin into its source and rule parts.
// An origin without a colon is a bare rule ID.
func SplitOrigin(origin string) (string, string) {
	source, rule, ok := strings.Cut(origin, ":")
	if !ok {
		return "", origin
	}
	return source, rule
}

// FS is the file-system view the checker resolves links against.
type FS interface {
	// Exists reports whether path names an existing file or directory.
	Exists(path string) bool

	// ReadFile returns the full content of path.
	ReadFile(path string) ([]byte, error)
}

// Sink receives one call per broken reference.
type Sink interface {
	Message(reason string, node *mdast.Node, origin string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(reason string, node *mdast.Node, origin string)

// Message calls f.
func (f SinkFunc) Message(reason string, node *mdast.Node, origin string) {
	f(reason, node, origin)
}

// Message is a recorded diagnostic.
type Message struct {
	Reason string
	Node   *mdast.Node
	Source string
	RuleID string
}

// Collector is a Sink that records every message it receives.
// It is not safe for concurrent use.
type Collector struct {
	Messages []Message
}

// Message implements Sink.
func (c *Collector) Message(reason string, node *mdast.Node, origin string) {
	source, rule := SplitOrigin(origin)
	c.Messages = append(c.Messages, Message{
		Reason: reason,
		Node:   node,
		Source: source,
		RuleID: rule,
	})
}

// ByRule returns the recorded messages for one rule, in order.
func (c *Collector) ByRule(rule string) []Message {
	var out []Message
	for _, m := range c.Messages {
		if m.RuleID == rule {
			out = append(out, m)
		}
	}
	return out
}
