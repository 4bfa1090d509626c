package kafkaclient

import (
	"encoding/json"
	"fmt"
	"strings"
)

// eventFields flattens v into its JSON field map.
func eventFields(v any) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return m
}

// renderTemplate replaces every {field} in tmpl with the matching JSON field
// of the event. Unknown fields render empty; text outside braces is kept.
func renderTemplate(tmpl string, fields map[string]any) string {
	var b strings.Builder
	rest := tmpl
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:open])
		name := strings.TrimSpace(rest[open+1 : open+end])
		if raw, ok := fields[name]; ok && raw != nil {
			b.WriteString(fmt.Sprint(raw))
		}
		rest = rest[open+end+1:]
	}
	return b.String()
}
