package compose

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const schemaStub = `export type LocalizedMessage = {
  'hello': [],
}

type Vars<T extends string> = Record<T, string | number>`

func TestCompose_BlockOrder(t *testing.T) {
	c := New(2)
	doc := c.Compose(context.Background(), schemaStub, map[string]string{
		"en": "hello = Hello\n",
	})

	preambleAt := strings.Index(doc, "import { FluentBundle, FluentResource } from '@fluent/bundle'")
	schemaAt := strings.Index(doc, "export type LocalizedMessage")
	tableAt := strings.Index(doc, "export const langs")

	require.Equal(t, 0, preambleAt)
	require.Greater(t, schemaAt, preambleAt)
	require.Greater(t, tableAt, schemaAt)
	require.True(t, strings.HasSuffix(doc, "\n"))
	require.Contains(t, doc, "export function createLang(locale: keyof typeof langs): Lang")
	require.Contains(t, doc, "<K extends keyof LocalizedMessage>")
}

func TestCompose_EveryLocaleEmbedded(t *testing.T) {
	langs := map[string]string{
		"en": "hello = Hello\n",
		"fr": "hello = Bonjour\n",
		"de": "hello = Hallo\n",
	}

	doc := New(4).Compose(context.Background(), schemaStub, langs)

	want := "export const langs = {\n" +
		"  'de': `hello = Hallo\n`,\n" +
		"  'en': `hello = Hello\n`,\n" +
		"  'fr': `hello = Bonjour\n`\n" +
		"} as const\n"
	require.Contains(t, doc, want)
}

func TestCompose_Deterministic(t *testing.T) {
	langs := map[string]string{
		"en": "a = A\n", "fr": "a = B\n", "de": "a = C\n", "es": "a = D\n",
		"it": "a = E\n", "nl": "a = F\n", "pl": "a = G\n", "pt": "a = H\n",
	}

	c := New(8)
	first := c.Compose(context.Background(), schemaStub, langs)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, c.Compose(context.Background(), schemaStub, langs))
	}
}

func TestCompose_EscapesTemplateSyntax(t *testing.T) {
	doc := New(1).Compose(context.Background(), schemaStub, map[string]string{
		"en": "tricky = a `tick` and ${literal} and \\slash\n",
	})

	require.Contains(t, doc, "a \\`tick\\` and \\${literal} and \\\\slash")
}

func TestCompose_SingleLocale(t *testing.T) {
	doc := New(1).Compose(context.Background(), schemaStub, map[string]string{
		"pt-BR": "oi = Oi\n",
	})
	require.Contains(t, doc, "export const langs = {\n  'pt-BR': `oi = Oi\n`\n} as const\n")
}
