package mdtoken

import "sort"

// LineIndex maps byte offsets of a source document to 1-based line numbers.
type LineIndex struct {
	starts []int
	size   int
}

// NewLineIndex builds a line index for content.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func NewLineIndex(content []byte) *LineIndex {
	idx := &LineIndex{
		starts: []int{0},
		size:   len(content),
	}
	for i, char := range content {
		if char == '\n' {
			idx.starts = append(idx.starts, i+1)
		}
	}
	return idx
}

// LineCount returns the number of lines in the content.
func (l *LineIndex) LineCount() int {
	return len(l.starts)
}

// LineAt converts a byte offset to a 1-based line number.
// Returns 0 if the offset is out of range.
func (l *LineIndex) LineAt(offset int) int {
	if offset < 0 || offset > l.size {
		return 0
	}

	// Binary search for the last line start <= offset.
	line := sort.Search(len(l.starts), func(i int) bool {
		return l.starts[i] > offset
	})

	return line
}
