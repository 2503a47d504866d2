package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	for k := Kind(0); k < maxKind; k++ {
		require.NotEmpty(t, k.String(), "kind %d missing a String representation", k)
	}
}

func TestKindGoString(t *testing.T) {
	require.Equal(t, "';'", SEMI.GoString())
	require.Equal(t, "'=='", EQEQ.GoString())
	require.Equal(t, "identifier", IDENT.GoString())
	require.Equal(t, "and", AND.GoString())
}

func TestLookupIdent(t *testing.T) {
	require.Equal(t, CLASS, LookupIdent("class"))
	require.Equal(t, WHILE, LookupIdent("while"))
	require.Equal(t, IDENT, LookupIdent("class_"))
	require.Equal(t, IDENT, LookupIdent("foo"))
}
