package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenNames(t *testing.T) {
	for tok := ILLEGAL; tok < maxToken; tok++ {
		require.NotEmpty(t, tok.String(), "token %d has no name", tok)
	}
}

func TestLookupKw(t *testing.T) {
	cases := []struct {
		in   string
		want Token
	}{
		{"and", AND},
		{"class", CLASS},
		{"else", ELSE},
		{"false", FALSE},
		{"for", FOR},
		{"fun", FUN},
		{"if", IF},
		{"in", IN},
		{"null", NULL},
		{"or", OR},
		{"print", PRINT},
		{"return", RETURN},
		{"super", SUPER},
		{"this", THIS},
		{"to", TO},
		{"true", TRUE},
		{"var", VAR},
		{"while", WHILE},
		{"ToUpper", IDENT},
		{"x", IDENT},
		{"classy", IDENT},
		{"", IDENT},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			assert.Equal(t, c.want, LookupKw(c.in))
		})
	}
}

func TestGoString(t *testing.T) {
	assert.Equal(t, "'+'", PLUS.GoString())
	assert.Equal(t, "'=='", EQEQ.GoString())
	assert.Equal(t, "identifier", IDENT.GoString())
	assert.Equal(t, "while", WHILE.GoString())
}
