package goldmark

import (
	"bytes"

	"github.com/yaklabco/relinkcheck/pkg/mdast"
)

// widenLink grows a link or image range from its text to the whole
// bracket syntax and records which reference style was written.
// goldmark resolves reference links during parsing, so the style can
// only be recovered from the source.
func (m *mapper) widenLink(node *mdast.Node) {
	r := node.Range
	if !r.IsKnown() || node.Inline == nil || node.Inline.Link == nil {
		return
	}

	open := bytes.LastIndexByte(m.content[:r.StartOffset], '[')
	if open < 0 {
		return
	}

	closeIdx := bytes.IndexByte(m.content[r.EndOffset:], ']')
	if closeIdx < 0 {
		return
	}
	closeIdx += r.EndOffset

	start := open
	if node.Kind == mdast.NodeImage && open > 0 && m.content[open-1] == '!' {
		start = open - 1
	}

	link := node.Inline.Link
	end := closeIdx + 1

	switch {
	case end < len(m.content) && m.content[end] == '(':
		end = matchParen(m.content, end)
		link.ReferenceStyle = mdast.RefStyleInline

	case end < len(m.content) && m.content[end] == '[':
		labelEnd := bytes.IndexByte(m.content[end+1:], ']')
		if labelEnd < 0 {
			link.ReferenceStyle = mdast.RefStyleShortcut
			link.ReferenceLabel = string(m.content[open+1 : closeIdx])
			break
		}
		labelEnd += end + 1
		if labelEnd == end+1 {
			link.ReferenceStyle = mdast.RefStyleCollapsed
			link.ReferenceLabel = string(m.content[open+1 : closeIdx])
		} else {
			link.ReferenceStyle = mdast.RefStyleFull
			link.ReferenceLabel = string(m.content[end+1 : labelEnd])
		}
		end = labelEnd + 1

	default:
		link.ReferenceStyle = mdast.RefStyleShortcut
		link.ReferenceLabel = string(m.content[open+1 : closeIdx])
	}

	mdast.SetRange(node, start, end)
}

// matchParen returns the offset just past the ')' that closes the '(' at
// open, honouring nesting and backslash escapes.
func matchParen(content []byte, open int) int {
	depth := 0
	for i := open; i < len(content); i++ {
		switch content[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(content)
}
