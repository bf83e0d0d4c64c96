package mdast

// BlockAttrs holds attributes for block-level nodes.
type BlockAttrs struct {
	// Definition holds the label and destination of a NodeDefinition.
	Definition *LinkAttrs
}

// InlineAttrs holds attributes for inline-level nodes.
type InlineAttrs struct {
	// Text holds the decoded text of NodeText and the code of NodeCodeSpan.
	Text []byte

	// Link holds link attributes for NodeLink and NodeImage.
	Link *LinkAttrs
}

// ReferenceStyle indicates the syntax style of a link or image reference.
type ReferenceStyle uint8

const (
	// RefStyleInline represents inline links: [text](url) or ![alt](url).
	RefStyleInline ReferenceStyle = iota

	// RefStyleFull represents full reference links: [text][label] or ![alt][label].
	RefStyleFull

	// RefStyleCollapsed represents collapsed reference links: [label][] or ![label][].
	RefStyleCollapsed

	// RefStyleShortcut represents shortcut reference links: [label] or ![label].
	RefStyleShortcut

	// RefStyleAutolink represents autolinks: <https://example.com>.
	RefStyleAutolink
)

// String returns a human-readable name for the reference style.
func (s ReferenceStyle) String() string {
	switch s {
	case RefStyleInline:
		return "inline"
	case RefStyleFull:
		return "full"
	case RefStyleCollapsed:
		return "collapsed"
	case RefStyleShortcut:
		return "shortcut"
	case RefStyleAutolink:
		return "autolink"
	default:
		return "unknown"
	}
}

// LinkAttrs holds attributes for link, image and definition nodes.
type LinkAttrs struct {
	// Destination is the link URL with backslash escapes and character
	// references resolved. Percent-encoding is kept.
	Destination string

	// Title is the optional link title.
	Title string

	// ReferenceLabel is the label for reference-style links and definitions.
	// Empty for inline links and autolinks.
	ReferenceLabel string

	// ReferenceStyle indicates the syntax style used.
	ReferenceStyle ReferenceStyle
}

// IsReference reports whether the link was written against a reference
// definition ([text][label], [label][] or [label]).
func (a *LinkAttrs) IsReference() bool {
	switch a.ReferenceStyle {
	case RefStyleFull, RefStyleCollapsed, RefStyleShortcut:
		return true
	default:
		return false
	}
}

// NewBlockAttrs creates a new BlockAttrs with default values.
func NewBlockAttrs() *BlockAttrs {
	return &BlockAttrs{}
}

// NewInlineAttrs creates a new InlineAttrs with default values.
func NewInlineAttrs() *InlineAttrs {
	return &InlineAttrs{}
}

// WithDefinition sets definition attributes and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithDefinition(attrs *LinkAttrs) *BlockAttrs {
	a.Definition = attrs
	return a
}

// WithText sets the text content and returns the InlineAttrs for chaining.
func (a *InlineAttrs) WithText(text []byte) *InlineAttrs {
	a.Text = text
	return a
}

// WithLink sets link attributes and returns the InlineAttrs for chaining.
func (a *InlineAttrs) WithLink(attrs *LinkAttrs) *InlineAttrs {
	a.Link = attrs
	return a
}
