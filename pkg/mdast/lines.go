package mdast

import "sort"

// BuildLines indexes the lines of content.
// LF and CRLF endings are both recognized; the last line may lack one.
func BuildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	start := 0

	for i, c := range content {
		if c != '\n' {
			continue
		}

		nl := i
		if i > 0 && content[i-1] == '\r' {
			nl = i - 1
		}

		lines = append(lines, LineInfo{StartOffset: start, NewlineStart: nl, EndOffset: i + 1})
		start = i + 1
	}

	return append(lines, LineInfo{
		StartOffset:  start,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})
}

// LineCount returns the number of lines in the file.
func (f *FileSnapshot) LineCount() int {
	return len(f.Lines)
}

// LineAt converts a byte offset to a 1-based line and byte column.
// Offsets at or past the end map onto the last line.
// Returns (0, 0) for negative offsets or an empty line index.
func (f *FileSnapshot) LineAt(offset int) (int, int) {
	if offset < 0 || len(f.Lines) == 0 {
		return 0, 0
	}

	if offset >= len(f.Content) {
		last := f.Lines[len(f.Lines)-1]
		return len(f.Lines), offset - last.StartOffset + 1
	}

	idx := sort.Search(len(f.Lines), func(i int) bool {
		return f.Lines[i].EndOffset > offset
	})
	if idx >= len(f.Lines) {
		idx = len(f.Lines) - 1
	}

	return idx + 1, offset - f.Lines[idx].StartOffset + 1
}

// LineContent returns a 1-based line without its line ending.
// Returns nil if the line number is out of range.
func (f *FileSnapshot) LineContent(line int) []byte {
	if line < 1 || line > len(f.Lines) {
		return nil
	}

	info := f.Lines[line-1]
	return f.Content[info.StartOffset:info.NewlineStart]
}
