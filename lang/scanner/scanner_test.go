package scanner_test

import (
	"testing"

	"github.com/mna/loxide/lang/diag"
	"github.com/mna/loxide/lang/scanner"
	"github.com/mna/loxide/lang/token"
	"github.com/stretchr/testify/require"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestScanAllPunctAndOperators(t *testing.T) {
	var errs diag.ErrorList
	toks := scanner.ScanAll([]byte("(){},.-+;*/!!====<<=>>="), &errs)
	require.Nil(t, errs.Err())
	require.Equal(t, []token.Kind{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.COMMA,
		token.DOT, token.MINUS, token.PLUS, token.SEMI, token.STAR, token.SLASH,
		token.BANG, token.BANGEQ, token.EQEQ, token.EQ, token.LT, token.LTEQ,
		token.GT, token.GTEQ, token.EOF,
	}, kinds(toks))
}

func TestScanAllKeywordsAndIdents(t *testing.T) {
	var errs diag.ErrorList
	toks := scanner.ScanAll([]byte("var x = foo and bar or nil"), &errs)
	require.Nil(t, errs.Err())
	require.Equal(t, []token.Kind{
		token.VAR, token.IDENT, token.EQ, token.IDENT, token.AND, token.IDENT,
		token.OR, token.NIL, token.EOF,
	}, kinds(toks))
}

func TestScanNumber(t *testing.T) {
	var errs diag.ErrorList
	toks := scanner.ScanAll([]byte("123 4.56"), &errs)
	require.Nil(t, errs.Err())
	require.Equal(t, 123.0, toks[0].Value.Num)
	require.Equal(t, 4.56, toks[1].Value.Num)
}

func TestScanString(t *testing.T) {
	var errs diag.ErrorList
	toks := scanner.ScanAll([]byte(`"hello world"`), &errs)
	require.Nil(t, errs.Err())
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, "hello world", toks[0].Value.Str)
}

func TestScanUnterminatedString(t *testing.T) {
	var errs diag.ErrorList
	toks := scanner.ScanAll([]byte(`"hello`), &errs)
	require.NotNil(t, errs.Err())
	require.Equal(t, token.ILLEGAL, toks[0].Kind)
	require.Contains(t, errs.Items()[0].Message, "unterminated string")
}

func TestScanIllegalCharacterContinues(t *testing.T) {
	var errs diag.ErrorList
	toks := scanner.ScanAll([]byte("1 @ 2"), &errs)
	require.NotNil(t, errs.Err())
	require.Equal(t, 1, errs.Len())
	require.Equal(t, []token.Kind{token.NUMBER, token.ILLEGAL, token.NUMBER, token.EOF}, kinds(toks))
}

func TestScanSkipsLineComments(t *testing.T) {
	var errs diag.ErrorList
	toks := scanner.ScanAll([]byte("1 // a comment\n2"), &errs)
	require.Nil(t, errs.Err())
	require.Equal(t, []token.Kind{token.NUMBER, token.NUMBER, token.EOF}, kinds(toks))
}

func TestScanSpansAreContiguous(t *testing.T) {
	var errs diag.ErrorList
	src := []byte("foo bar")
	toks := scanner.ScanAll(src, &errs)
	require.Equal(t, "foo", toks[0].Span.Slice(src))
	require.Equal(t, "bar", toks[1].Span.Slice(src))
}
