// Package compose assembles the generated TypeScript artifact: the runtime
// binding preamble, the rendered schema, and the embedded raw resource of
// every locale.
package compose

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"turnslate/internal/textutil"
	"turnslate/internal/worker"
)

// Names the preamble and the locale table agree on. The schema renderer
// emits the type under the same name, so the three blocks compose under
// plain concatenation.
const (
	typeName  = "LocalizedMessage"
	tableName = "langs"
)

// preambleTemplate is the fixed runtime binding block. It is not derived
// from the bundle: it wires @fluent/bundle to the generated table and falls
// back to the raw message id when a message is absent or has no value.
const preambleTemplate = `import { FluentBundle, FluentResource } from '@fluent/bundle'

export interface Lang {
    <K extends keyof {{.TypeName}}>(
    id: K,
    ...params: {{.TypeName}}[K]
    ): string
}

export function createLang(locale: keyof typeof {{.TableName}}): Lang {
    const bundle = new FluentBundle(locale)
    const resource = new FluentResource({{.TableName}}[locale])
    bundle.addResource(resource)
    return (id, ...[params]) => {
    const message = bundle.getMessage(id)
    if (!message || !message.value) {
        return id
    }
    return bundle.formatPattern(message.value, params)
    }
}`

var preamble = renderPreamble()

func renderPreamble() string {
	tmpl := template.Must(template.New("preamble").Parse(preambleTemplate))

	var b strings.Builder
	err := tmpl.Execute(&b, struct{ TypeName, TableName string }{typeName, tableName})
	if err != nil {
		panic(fmt.Sprintf("render runtime preamble: %v", err))
	}
	return b.String()
}

// Composer assembles output documents. Locale entries are rendered through
// a worker pool; they are independent of each other, and indexed results
// keep the output deterministic regardless of scheduling.
type Composer struct {
	workers int
}

// New creates a composer rendering locale entries with the given
// concurrency.
func New(workers int) *Composer {
	return &Composer{workers: workers}
}

// Compose produces the output document: preamble, schema and locale table
// joined by blank lines. The table carries every locale in langs, keyed by
// locale id in lexicographic order, with the raw source embedded verbatim.
func (c *Composer) Compose(ctx context.Context, schemaText string, langs map[string]string) string {
	locales := make([]string, 0, len(langs))
	for locale := range langs {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	pool := worker.NewPool[string, string](c.workers, func(_ context.Context, locale string) (string, error) {
		return localeEntry(locale, langs[locale]), nil
	})
	rendered := pool.Execute(ctx, locales)

	entries := make([]string, len(rendered))
	for i, r := range rendered {
		entries[i] = r.Value
	}

	return strings.Join([]string{preamble, schemaText, localeTable(entries)}, "\n\n") + "\n"
}

// localeEntry renders one table entry. The source goes inside a template
// literal, escaped so the runtime string value stays byte-identical to the
// raw resource.
func localeEntry(locale, source string) string {
	return fmt.Sprintf("%s: `%s`", textutil.QuoteSingle(locale), textutil.EscapeTemplate(source))
}

func localeTable(entries []string) string {
	if len(entries) == 0 {
		return fmt.Sprintf("export const %s = {} as const", tableName)
	}
	return fmt.Sprintf("export const %s = {\n  %s\n} as const", tableName, strings.Join(entries, ",\n  "))
}
