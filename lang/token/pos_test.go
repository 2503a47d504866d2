package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSourceMapMap(t *testing.T) {
	src := []byte("var x = 1;\nprint x;\n")
	sm := NewSourceMap("test.lox", src)

	pos := sm.Map(Span{Offset: 0, Len: 3})
	require.Equal(t, 1, pos.Line)
	require.Equal(t, 0, pos.Col)
	require.Equal(t, "var x = 1;", pos.LineText)

	pos = sm.Map(Span{Offset: 4, Len: 1})
	require.Equal(t, 1, pos.Line)
	require.Equal(t, 4, pos.Col)

	pos = sm.Map(Span{Offset: 11, Len: 5})
	require.Equal(t, 2, pos.Line)
	require.Equal(t, 0, pos.Col)
	require.Equal(t, "print x;", pos.LineText)
}

func TestSourceMapSingleLine(t *testing.T) {
	src := []byte("print 1;")
	sm := NewSourceMap("", src)
	pos := sm.Map(Span{Offset: 6, Len: 1})
	require.Equal(t, 1, pos.Line)
	require.Equal(t, 6, pos.Col)
	require.Equal(t, "print 1;", pos.LineText)
	require.Equal(t, "1:6", pos.String())
}

func TestSpanAfterAndGrow(t *testing.T) {
	s := Span{Offset: 3, Len: 2}
	after := s.After()
	require.Equal(t, Span{Offset: 5}, after)

	grown := after.Grow(4)
	require.Equal(t, Span{Offset: 5, Len: 4}, grown)
	require.Equal(t, 9, grown.End())
}

func TestSpanSlice(t *testing.T) {
	src := []byte("hello world")
	s := Span{Offset: 6, Len: 5}
	require.Equal(t, "world", s.Slice(src))
}
