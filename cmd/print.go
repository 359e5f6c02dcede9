package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// printMarkdown prints a report in the selected output format.
func printMarkdown(md string) {
	if err := writeMarkdown(stdout, *outputFormat, md); err != nil {
		logrus.WithError(err).Warn("cannot format report, printing markdown")
		fmt.Fprint(stdout, md)
	}
}

// writeMarkdown writes md to w, rendered for the terminal ("term"), converted
// to HTML ("html") or as is ("md").
func writeMarkdown(w io.Writer, format, md string) error {
	switch format {
	case "md":
		_, err := io.WriteString(w, md)
		return err
	case "html":
		return goldmark.New(goldmark.WithExtensions(extension.GFM)).Convert([]byte(md), w)
	case "term", "":
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
		if err != nil {
			return err
		}
		out, err := r.Render(md)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	}
	return fmt.Errorf("unknown output format %q", format)
}
