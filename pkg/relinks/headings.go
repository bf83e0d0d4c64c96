package relinks

import (
	"strings"

	"github.com/yaklabco/relinkcheck/pkg/mdast"
	"github.com/yaklabco/relinkcheck/pkg/slug"
)

// CollectHeadings returns the slugs of every heading under root.
// Headings without text contribute nothing.
func CollectHeadings(root *mdast.Node) *slug.Set {
	set := slug.NewSet()
	slugger := slug.New()

	for _, heading := range mdast.FindByKind(root, mdast.NodeHeading) {
		if text := HeadingText(heading); text != "" {
			set.Add(slugger.Slug(text))
		}
	}

	return set
}

// HeadingText concatenates the text and code span descendants of heading
// in document order. Images contribute nothing, their alt text is not
// part of the heading.
func HeadingText(heading *mdast.Node) string {
	var buf strings.Builder
	appendText(&buf, heading)
	return buf.String()
}

func appendText(buf *strings.Builder, n *mdast.Node) {
	for child := n.FirstChild; child != nil; child = child.Next {
		switch child.Kind {
		case mdast.NodeText, mdast.NodeCodeSpan:
			buf.WriteString(child.Literal())
		case mdast.NodeImage:
		default:
			appendText(buf, child)
		}
	}
}
