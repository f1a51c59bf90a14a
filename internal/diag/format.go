package diag

import (
	"fmt"
	"strings"
)

// FormatShort renders diagnostics one per line:
//
//	ERROR CG5001 1:10-20 cannot generate code for physical type `time`
//
// Notes follow their diagnostic, indented. Order is preserved; call Bag.Sort
// first for a deterministic listing.
func FormatShort(diags []Diagnostic, includeNotes bool) string {
	var b strings.Builder
	for i := range diags {
		d := &diags[i]
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(d.String())
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "\n  note %s %s", n.Span, sanitizeMessage(n.Msg))
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", " ")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
