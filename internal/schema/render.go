package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"turnslate/internal/textutil"
)

// Render turns extraction records into the LocalizedMessage TypeScript
// type. Each message id maps to its parameter tuple: empty for messages
// with no variables, a single Vars record otherwise. Entries keep the
// record order, which is the declaration order of the main resource.
func Render(records []Record) string {
	if len(records) == 0 {
		return "export type LocalizedMessage = {}\n\n" + varsHelper
	}

	entries := make([]string, len(records))
	for i, r := range records {
		entries[i] = fmt.Sprintf("%s: [%s],", textutil.QuoteSingle(r.Name), renderVars(r.Vars))
	}

	return fmt.Sprintf("export type LocalizedMessage = {\n  %s\n}\n\n%s",
		strings.Join(entries, "\n  "), varsHelper)
}

// varsHelper is the fixed auxiliary definition the rendered entries refer
// to: a record of required variable names, each accepting the two value
// kinds the Fluent runtime can interpolate.
const varsHelper = "type Vars<T extends string> = Record<T, string | number>"

func renderVars(vars []string) string {
	if len(vars) == 0 {
		return ""
	}
	quoted := make([]string, len(vars))
	for i, v := range vars {
		quoted[i] = textutil.QuoteSingle(v)
	}
	return fmt.Sprintf("Vars<%s>", strings.Join(quoted, " | "))
}

// RenderJSON renders records as a JSON array, one object per message in
// declaration order. Used by the schema inspection command.
func RenderJSON(records []Record) (string, error) {
	type jsonRecord struct {
		Name string   `json:"name"`
		Vars []string `json:"vars"`
	}

	out := make([]jsonRecord, len(records))
	for i, r := range records {
		out[i] = jsonRecord{Name: r.Name, Vars: append([]string{}, r.Vars...)}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}
	return string(data), nil
}
