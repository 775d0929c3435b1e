package pagesmith

import (
	"fmt"
	"strings"
)

// FormatGroups formats rewrite groups for display, one group per line:
// id, number of occurrences, hint, and the original text.
// Groups without an ID are numbered by position.
func FormatGroups(groups []*RewriteGroup) string {
	if len(groups) == 0 {
		return ""
	}

	lines := make([]string, 0, len(groups))
	for i, g := range groups {
		id := g.ID
		if id == "" {
			id = fmt.Sprintf("#%d", i+1)
		}
		text := g.Original
		if text == "" {
			text = "(empty)"
		}
		lines = append(lines, fmt.Sprintf("%s\tx%d\t%s\t%s", id, len(g.Targets), g.Hint, text))
	}

	return strings.Join(lines, "\n")
}
