package plan

import (
	"sort"
	"strings"
)

// Format renders a call expression that Parse accepts. Arguments are emitted
// in sorted key order so the output is deterministic.
func Format(name string, args map[string]string) string {
	keys := make([]string, 0, len(args))
	for key := range args {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, key := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(quoteValue(args[key]))
	}
	b.WriteByte(')')
	return b.String()
}

// quoteValue picks the tightest delimiter that keeps the value intact: plain
// double quotes for simple values, triple quotes for values with newlines,
// backslashes or embedded double quotes.
func quoteValue(value string) string {
	if strings.ContainsAny(value, "\n\\") || strings.Contains(value, `"`) {
		if !strings.Contains(value, `"""`) && !strings.HasSuffix(value, `"`) {
			return `"""` + value + `"""`
		}
		if !strings.Contains(value, "'''") && !strings.HasSuffix(value, "'") {
			return "'''" + value + "'''"
		}
	}
	escaped := strings.ReplaceAll(value, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	return `"` + escaped + `"`
}
