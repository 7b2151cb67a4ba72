package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	require.Equal(t, Hash("hello"), Hash("hello"))
	require.NotEqual(t, Hash("hello"), Hash("hello "))
	require.Len(t, Hash(""), 64)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", Truncate("short", 10))
	require.Equal(t, "lon...", Truncate("longer text", 3))
}

func TestQuoteSingle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "userName", `'userName'`},
		{"hyphenated", "hello-user", `'hello-user'`},
		{"locale", "pt-BR", `'pt-BR'`},
		{"quote", "it's", `'it\'s'`},
		{"backslash", `a\b`, `'a\\b'`},
		{"empty", "", `''`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, QuoteSingle(tt.in))
		})
	}
}

func TestEscapeTemplate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello = Hello, world!", "hello = Hello, world!"},
		{"backtick", "a `code` span", "a \\`code\\` span"},
		{"interpolation", "cost = ${price}", `cost = \${price}`},
		{"backslash", `esc = {"\\"}`, `esc = {"\\\\"}`},
		{"dollar without brace", "price = $5", "price = $5"},
		{"newlines pass through", "a\nb\n", "a\nb\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, EscapeTemplate(tt.in))
		})
	}
}
