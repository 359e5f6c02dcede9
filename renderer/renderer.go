// Package renderer formats reports as markdown.
package renderer

import (
	"fmt"
	"io"

	"github.com/etnz/cryptofolio/date"
)

// table writes a markdown table header. align holds one of "<", ">" or "^"
// per column.
func table(w io.Writer, align string, headers ...string) {
	fmt.Fprint(w, "|")
	for _, h := range headers {
		fmt.Fprintf(w, " %s |", h)
	}
	fmt.Fprint(w, "\n|")
	for _, a := range align {
		switch a {
		case '>':
			fmt.Fprint(w, "---:|")
		case '^':
			fmt.Fprint(w, ":---:|")
		default:
			fmt.Fprint(w, ":---|")
		}
	}
	fmt.Fprintln(w)
}

// row writes a markdown table row.
func row(w io.Writer, cells ...any) {
	fmt.Fprint(w, "|")
	for _, c := range cells {
		fmt.Fprintf(w, " %v |", c)
	}
	fmt.Fprintln(w)
}

// day formats a date, "-" when zero.
func day(d date.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.DayString()
}
