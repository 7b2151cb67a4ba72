// Package schema derives the per-message parameter schema from a parsed
// Fluent resource and renders it as a TypeScript type.
package schema

import "turnslate/internal/ftl"

// Record is the extracted schema of one message: its id and the variable
// names its value pattern references, deduplicated, in the order they first
// appear. Records carry the declaration order of the resource.
type Record struct {
	Name string
	Vars []string
}

// Extract walks a parsed resource and produces one record per message.
// Terms, comments and junk are skipped. A message without a value yields an
// empty variable list. Extract is pure and never fails.
func Extract(res *ftl.Resource) []Record {
	records := make([]Record, 0, len(res.Entries))
	for _, entry := range res.Entries {
		msg, ok := entry.(*ftl.Message)
		if !ok {
			continue
		}
		records = append(records, Record{
			Name: msg.ID,
			Vars: collectVars(msg.Value),
		})
	}
	return records
}

// collectVars gathers every variable name a pattern references, in first
// appearance order. Selects contribute their selector when it is a variable
// reference, and every variant value is walked regardless of the selector
// kind: variables are not scoped to branches, so the result is the union
// across all of them.
func collectVars(pattern *ftl.Pattern) []string {
	var vars []string
	seen := make(map[string]struct{})

	add := func(name string) {
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		vars = append(vars, name)
	}

	var walk func(p *ftl.Pattern)
	walk = func(p *ftl.Pattern) {
		if p == nil {
			return
		}
		for _, elem := range p.Elements {
			pl, ok := elem.(*ftl.Placeable)
			if !ok {
				continue
			}
			switch expr := pl.Expression.(type) {
			case *ftl.VariableReference:
				add(expr.Name)
			case *ftl.Select:
				if ref, ok := expr.Selector.(*ftl.VariableReference); ok {
					add(ref.Name)
				}
				for _, v := range expr.Variants {
					walk(&v.Value)
				}
			}
		}
	}

	walk(pattern)
	return vars
}
