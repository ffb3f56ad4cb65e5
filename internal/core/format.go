package core

import (
	"strings"

	"github.com/yzgyyang/portcran/internal/types"
)

// formatSections writes each non-empty section as a blank line followed
// by its assignments. Within a section every value starts on the same
// tab stop; values wider than the page continue on the next line,
// indented to that tab stop. Tokens are escaped for bmake.
func formatSections(b *strings.Builder, sections [][]types.Variable, tabWidth int, pageWidth int) {
	if tabWidth <= 0 {
		tabWidth = types.DefaultTabWidth
	}
	if pageWidth <= 0 {
		pageWidth = types.DefaultPageWidth
	}
	for _, section := range sections {
		if len(section) == 0 {
			continue
		}
		longest := 0
		for _, v := range section {
			longest = max(longest, len(v.Name))
		}
		tabs := max(2, (longest+1)/tabWidth+1)
		indent := strings.Repeat("\t", tabs)

		b.WriteString("\n")
		for _, v := range section {
			b.WriteString(v.Name)
			b.WriteString("=")
			b.WriteString(strings.Repeat("\t", tabs-(len(v.Name)+1)/tabWidth))
			width := tabs * tabWidth
			for i, token := range v.Tokens {
				breakAfter := strings.HasSuffix(token, "\n")
				token = EscapeToken(strings.TrimRight(token, "\n"))
				if i > 0 {
					if width < 0 || width+len(token)+1 > pageWidth || strings.Contains(token, "\n") {
						b.WriteString(" \\\n")
						b.WriteString(indent)
						width = tabs * tabWidth
					} else {
						b.WriteString(" ")
						width++
					}
				}
				b.WriteString(token)
				if breakAfter {
					width = -1
				} else {
					width += len(token)
				}
			}
			b.WriteString("\n")
		}
	}
}
