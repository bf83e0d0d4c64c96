package goldmark

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/relinkcheck/pkg/mdast"
)

// mapper converts a goldmark AST into an mdast.Node tree.
type mapper struct {
	content []byte
}

func newMapper(content []byte) *mapper {
	return &mapper{content: content}
}

func (m *mapper) mapDocument(gmDoc ast.Node) *mdast.Node {
	doc := mdast.NewDocument()
	m.mapChildren(gmDoc, doc)
	mdast.SetRange(doc, 0, len(m.content))
	return doc
}

// mapChildren maps the children of gmParent onto parent and widens the
// parent's range to cover them.
func (m *mapper) mapChildren(gmParent ast.Node, parent *mdast.Node) {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		if isEmptyParagraph(child) {
			continue
		}

		node := m.mapNode(child)
		mdast.AppendChild(parent, node)
		parent.Range = parent.Range.Union(node.Range)

		// goldmark marks a line break on the text before it.
		if t, ok := child.(*ast.Text); ok {
			switch {
			case t.HardLineBreak():
				mdast.AppendChild(parent, m.lineBreak(mdast.NodeHardBreak, t))
			case t.SoftLineBreak():
				mdast.AppendChild(parent, m.lineBreak(mdast.NodeSoftBreak, t))
			}
		}
	}
}

//nolint:cyclop // one case per goldmark node type
func (m *mapper) mapNode(gmNode ast.Node) *mdast.Node {
	var node *mdast.Node

	switch gmn := gmNode.(type) {
	case *ast.Heading:
		node = mdast.NewNode(mdast.NodeHeading)

	case *ast.Paragraph, *ast.TextBlock:
		node = mdast.NewNode(mdast.NodeParagraph)

	case *ast.List:
		node = mdast.NewNode(mdast.NodeList)

	case *ast.ListItem:
		node = mdast.NewNode(mdast.NodeListItem)

	case *ast.Blockquote:
		node = mdast.NewNode(mdast.NodeBlockquote)

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		node = mdast.NewNode(mdast.NodeCodeBlock)

	case *ast.ThematicBreak:
		node = mdast.NewNode(mdast.NodeThematicBreak)

	case *ast.HTMLBlock:
		node = mdast.NewNode(mdast.NodeHTMLBlock)

	case *ast.Text:
		node = mdast.NewNode(mdast.NodeText)
		text := gmn.Segment.Value(m.content)
		if !gmn.IsRaw() {
			text = decode(text)
		}
		node.Inline = mdast.NewInlineAttrs().WithText(text)
		mdast.SetRange(node, gmn.Segment.Start, gmn.Segment.Stop)

	case *ast.String:
		node = mdast.NewNode(mdast.NodeText)
		node.Inline = mdast.NewInlineAttrs().WithText(gmn.Value)

	case *ast.Emphasis:
		node = mdast.NewNode(mdast.NodeEmphasis)
		if gmn.Level == 2 {
			node = mdast.NewNode(mdast.NodeStrong)
		}

	case *ast.CodeSpan:
		return m.mapCodeSpan(gmn)

	case *ast.Link:
		node = m.mapLinkLike(mdast.NodeLink, gmn.Destination, gmn.Title)

	case *ast.Image:
		node = m.mapLinkLike(mdast.NodeImage, gmn.Destination, gmn.Title)

	case *ast.AutoLink:
		return m.mapAutoLink(gmn)

	case *ast.RawHTML:
		node = mdast.NewNode(mdast.NodeHTMLInline)
		for i := range gmn.Segments.Len() {
			seg := gmn.Segments.At(i)
			node.Range = node.Range.Union(mdast.SourceRange{StartOffset: seg.Start, EndOffset: seg.Stop})
		}
		return node

	case *east.Strikethrough:
		node = mdast.NewNode(mdast.NodeEmphasis)
		node.Ext = map[string]any{"strikethrough": true}

	case *east.TaskCheckBox:
		node = mdast.NewNode(mdast.NodeRaw)
		node.Ext = map[string]any{"taskCheckbox": true, "checked": gmn.IsChecked}

	case *east.Table:
		node = mdast.NewNode(mdast.NodeRaw)
		node.Ext = map[string]any{"table": true, "alignments": gmn.Alignments}

	case *east.TableHeader:
		node = mdast.NewNode(mdast.NodeRaw)
		node.Ext = map[string]any{"tableHeader": true}

	case *east.TableRow:
		node = mdast.NewNode(mdast.NodeRaw)
		node.Ext = map[string]any{"tableRow": true}

	case *east.TableCell:
		node = mdast.NewNode(mdast.NodeRaw)
		node.Ext = map[string]any{"tableCell": true, "alignment": gmn.Alignment}

	default:
		node = mdast.NewNode(mdast.NodeRaw)
	}

	if gmNode.Type() == ast.TypeBlock {
		node.Range = blockRange(gmNode)
	}

	m.mapChildren(gmNode, node)

	if node.Kind == mdast.NodeLink || node.Kind == mdast.NodeImage {
		m.widenLink(node)
	}

	return node
}

// blockRange covers the first to the last line segment of a leaf block.
// Container blocks have no lines and get their range from their children.
func blockRange(gmNode ast.Node) mdast.SourceRange {
	lines := gmNode.Lines()
	if lines == nil || lines.Len() == 0 {
		return mdast.NoRange()
	}
	return mdast.SourceRange{
		StartOffset: lines.At(0).Start,
		EndOffset:   lines.At(lines.Len() - 1).Stop,
	}
}

func (m *mapper) lineBreak(kind mdast.NodeKind, t *ast.Text) *mdast.Node {
	node := mdast.NewNode(kind)
	end := t.Segment.Stop
	if end < len(m.content) {
		mdast.SetRange(node, end, end+1)
	}
	return node
}

// isEmptyParagraph reports whether n is a paragraph left behind after
// goldmark consumed all of its lines as link reference definitions.
func isEmptyParagraph(n ast.Node) bool {
	p, ok := n.(*ast.Paragraph)
	return ok && p.Lines().Len() == 0 && !p.HasChildren()
}

// decode resolves backslash escapes and character references the way
// goldmark does when rendering text and destinations.
func decode(b []byte) []byte {
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	return util.ResolveEntityNames(b)
}

// mapCodeSpan flattens the code span's text into the node itself.
// The range includes the backtick fences.
func (m *mapper) mapCodeSpan(codeSpan *ast.CodeSpan) *mdast.Node {
	node := mdast.NewNode(mdast.NodeCodeSpan)

	var code []byte
	for child := codeSpan.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			code = append(code, c.Segment.Value(m.content)...)
			node.Range = node.Range.Union(mdast.SourceRange{StartOffset: c.Segment.Start, EndOffset: c.Segment.Stop})
		case *ast.String:
			code = append(code, c.Value...)
		}
	}

	node.Inline = mdast.NewInlineAttrs().WithText(code)

	if node.Range.IsKnown() {
		start, end := node.Range.StartOffset, node.Range.EndOffset
		for start > 0 && m.content[start-1] != '`' {
			start--
		}
		for start > 0 && m.content[start-1] == '`' {
			start--
		}
		for end < len(m.content) && m.content[end] != '`' {
			end++
		}
		for end < len(m.content) && m.content[end] == '`' {
			end++
		}
		mdast.SetRange(node, start, end)
	}

	return node
}

func (m *mapper) mapLinkLike(kind mdast.NodeKind, destination, title []byte) *mdast.Node {
	node := mdast.NewNode(kind)
	node.Inline = mdast.NewInlineAttrs().WithLink(&mdast.LinkAttrs{
		Destination:    string(decode(destination)),
		Title:          string(decode(title)),
		ReferenceStyle: mdast.RefStyleInline,
	})
	return node
}

// mapAutoLink maps <scheme:...>, <address> and GFM bare URLs and
// addresses. Autolinks keep no position in goldmark, so they inherit the
// range of their parent.
func (m *mapper) mapAutoLink(al *ast.AutoLink) *mdast.Node {
	url := string(al.URL(m.content))
	if al.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
		url = "mailto:" + url
	}

	node := mdast.NewNode(mdast.NodeLink)
	node.Inline = mdast.NewInlineAttrs().WithLink(&mdast.LinkAttrs{
		Destination:    url,
		ReferenceStyle: mdast.RefStyleAutolink,
	})

	label := mdast.NewNode(mdast.NodeText)
	label.Inline = mdast.NewInlineAttrs().WithText(al.Label(m.content))
	mdast.AppendChild(node, label)

	return node
}
