package token

import "fmt"

// Span is a half-open byte range [Offset, Offset+Len) into a source buffer.
// It is the position type threaded through every Token and AST node. The
// zero value is the empty span at offset 0.
type Span struct {
	Offset int
	Len    int
}

// End returns the offset just past the span.
func (s Span) End() int { return s.Offset + s.Len }

// After returns the empty span starting right where s ends, the starting
// point for scanning the next token.
func (s Span) After() Span { return Span{Offset: s.End()} }

// Grow returns a copy of s extended by n bytes.
func (s Span) Grow(n int) Span { return Span{Offset: s.Offset, Len: s.Len + n} }

// Slice returns the substring of src covered by s.
func (s Span) Slice(src []byte) string { return string(src[s.Offset:s.End()]) }

// Position is a human-facing location: a 1-based line number, a 0-based
// column, and the full text of the line the span starts on.
type Position struct {
	Filename string
	Line     int
	Col      int
	LineText string
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Col)
}

// SourceMap indexes the line starts of a source buffer so that a byte Span
// can be mapped back to a (line, column, line-text) Position.
type SourceMap struct {
	Filename   string
	src        []byte
	lineStarts []int // byte offset of the first byte of each line; lineStarts[0] == 0
}

// NewSourceMap builds a SourceMap over src, indexing every line start.
func NewSourceMap(filename string, src []byte) *SourceMap {
	sm := &SourceMap{Filename: filename, src: src, lineStarts: []int{0}}
	for i, b := range src {
		if b == '\n' && i+1 < len(src) {
			sm.lineStarts = append(sm.lineStarts, i+1)
		}
	}
	return sm
}

// Map resolves span to a Position: the 1-based line, the 0-based column, and
// the verbatim text of the line span starts on (without the trailing
// newline).
func (sm *SourceMap) Map(span Span) Position {
	line := sm.lineAt(span.Offset)
	lineStart := sm.lineStarts[line-1]
	col := span.Offset - lineStart
	return Position{
		Filename: sm.Filename,
		Line:     line,
		Col:      col,
		LineText: sm.lineText(line),
	}
}

// lineAt returns the 1-based line number containing byte offset off, found
// by binary search over the indexed line starts.
func (sm *SourceMap) lineAt(off int) int {
	lo, hi := 0, len(sm.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if sm.lineStarts[mid] <= off {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}

// lineText returns the text of the given 1-based line, without its trailing
// newline.
func (sm *SourceMap) lineText(line int) string {
	start := sm.lineStarts[line-1]
	end := len(sm.src)
	if line < len(sm.lineStarts) {
		end = sm.lineStarts[line] - 1 // exclude the newline itself
	} else if i := indexByte(sm.src[start:], '\n'); i >= 0 {
		end = start + i
	}
	if end < start {
		end = start
	}
	return string(sm.src[start:end])
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}
