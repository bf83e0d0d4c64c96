package mdast

// SourceRange represents a byte range in the source content.
type SourceRange struct {
	// StartOffset is the byte index where the range begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the range ends (exclusive).
	EndOffset int
}

// Len returns the length of the range in bytes.
func (r SourceRange) Len() int {
	return r.EndOffset - r.StartOffset
}

// IsEmpty returns true if the range has zero length.
func (r SourceRange) IsEmpty() bool {
	return r.StartOffset == r.EndOffset
}

// Contains returns true if the given offset is within this range.
func (r SourceRange) Contains(offset int) bool {
	return offset >= r.StartOffset && offset < r.EndOffset
}

// Position represents a 1-based line and column in a file.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// SourcePosition represents a range in terms of line/column positions.
type SourcePosition struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Start returns the start position.
func (sp SourcePosition) Start() Position {
	return Position{Line: sp.StartLine, Column: sp.StartColumn}
}

// End returns the end position.
func (sp SourcePosition) End() Position {
	return Position{Line: sp.EndLine, Column: sp.EndColumn}
}

// IsValid returns true if both start and end positions are valid.
func (sp SourcePosition) IsValid() bool {
	return sp.StartLine > 0 && sp.StartColumn > 0 &&
		sp.EndLine > 0 && sp.EndColumn > 0
}

// IsSingleLine returns true if start and end are on the same line.
func (sp SourcePosition) IsSingleLine() bool {
	return sp.StartLine == sp.EndLine
}

// NoRange returns the range used for nodes without a source location.
func NoRange() SourceRange {
	return SourceRange{StartOffset: -1, EndOffset: -1}
}

// IsKnown returns true if the range points into the source.
func (r SourceRange) IsKnown() bool {
	return r.StartOffset >= 0 && r.EndOffset >= r.StartOffset
}

// Union returns the smallest range covering both r and other.
// Unknown ranges are ignored.
func (r SourceRange) Union(other SourceRange) SourceRange {
	switch {
	case !other.IsKnown():
		return r
	case !r.IsKnown():
		return other
	}
	return SourceRange{
		StartOffset: min(r.StartOffset, other.StartOffset),
		EndOffset:   max(r.EndOffset, other.EndOffset),
	}
}

// SourceRange returns the byte range for this node.
// Nodes without a location of their own report the range of the nearest
// ancestor that has one. Returns NoRange() if none does.
func (n *Node) SourceRange() SourceRange {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Range.IsKnown() {
			return cur.Range
		}
	}
	return NoRange()
}

// SourcePosition returns the line/column range for this node.
// Returns an invalid position if the node has no associated file or range.
func (n *Node) SourcePosition() SourcePosition {
	if n.File == nil {
		return SourcePosition{}
	}

	sourceRange := n.SourceRange()
	if !sourceRange.IsKnown() {
		return SourcePosition{}
	}

	startLine, startCol := n.File.LineAt(sourceRange.StartOffset)
	endLine, endCol := n.File.LineAt(sourceRange.EndOffset)

	return SourcePosition{
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
	}
}

// Text returns the source text for this node.
// Returns nil if the node has no associated file.
func (n *Node) Text() []byte {
	if n.File == nil {
		return nil
	}

	r := n.SourceRange()
	if !r.IsKnown() || r.EndOffset > len(n.File.Content) {
		return nil
	}

	return n.File.Content[r.StartOffset:r.EndOffset]
}
