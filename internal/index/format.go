package index

import (
	"fmt"
	"strings"
)

// Markdown renders results in the format shared by the CLI and the MCP
// search tool. label names what was searched for.
func (r *Results) Markdown(label string) string {
	if r.Total == 0 {
		return fmt.Sprintf("No suggestions found for query: %s", label)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d suggestions for '%s':\n\n", r.Total, label))

	for i, hit := range r.Hits {
		sb.WriteString(fmt.Sprintf("### %d. %s:%d\n", i+1, hit.File, hit.Line))
		sb.WriteString(fmt.Sprintf("**Rank**: %d | **Type**: %s | **Severity**: %s | **Score**: %.4f\n\n",
			hit.Rank, hit.Category, hit.Severity, hit.Score))
		sb.WriteString(hit.Description)
		sb.WriteString("\n")

		if len(hit.Fragments) > 0 {
			sb.WriteString("```\n")
			for _, fragment := range hit.Fragments {
				sb.WriteString(fragment)
				sb.WriteString("\n")
			}
			sb.WriteString("```\n")
		}
		sb.WriteString("\n")
	}

	if r.Total > uint64(len(r.Hits)) {
		sb.WriteString(fmt.Sprintf("... and %d more results\n", r.Total-uint64(len(r.Hits))))
	}
	return sb.String()
}

// Label describes q for display.
func (q Query) Label() string {
	parts := make([]string, 0, 4)
	if t := strings.TrimSpace(q.Text); t != "" {
		parts = append(parts, t)
	}
	if q.Category != "" {
		parts = append(parts, "type:"+q.Category)
	}
	if q.Severity != "" {
		parts = append(parts, "severity:"+q.Severity)
	}
	if q.File != "" {
		parts = append(parts, "file:"+q.File)
	}
	return strings.Join(parts, " ")
}
