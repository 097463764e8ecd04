// Package export serializes the flat display mapping: a one-row XLSX
// spreadsheet and a fixed-layout plain-text "card" report. Both consume
// the presentation fields only and never re-derive data from the code.
package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/rafaelsouza280292/consulta-cnpj/internal/log"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/presentation"
)

const (
	cardWidth = 78
	// valueWidth leaves room for the padded label column and separator.
	labelWidth = 24
)

// Card renders the display sections as a plain-text report. Labels are
// padded by display width (runewidth) so accented Portuguese labels line
// up, and long values wrap under the value column.
func Card(sections []presentation.Section, queriedAt time.Time) string {
	var b strings.Builder

	rule := strings.Repeat("=", cardWidth)
	title := "CARTÃO CNPJ - CONSULTA"
	pad := (cardWidth - runewidth.StringWidth(title)) / 2

	b.WriteString(rule + "\n")
	b.WriteString(strings.Repeat(" ", pad) + title + "\n")
	b.WriteString(rule + "\n")

	for _, section := range sections {
		b.WriteString("\n--- " + section.Title + " ---\n")
		for _, field := range section.Fields {
			b.WriteString(formatLine(field))
		}
	}

	b.WriteString("\n" + strings.Repeat("-", cardWidth) + "\n")
	b.WriteString(fmt.Sprintf("Consulta realizada em %s\n", queriedAt.Format("02/01/2006 15:04:05")))

	return b.String()
}

// formatLine renders "Label........: value", wrapping the value and
// indenting continuation lines under the value column.
func formatLine(field presentation.Field) string {
	label := field.Label
	dots := labelWidth - runewidth.StringWidth(label)
	if dots < 0 {
		dots = 0
	}
	prefix := label + strings.Repeat(".", dots) + ": "

	wrapped := wordwrap.String(field.Value, cardWidth-labelWidth-2)
	lines := strings.Split(wrapped, "\n")

	var b strings.Builder
	indent := strings.Repeat(" ", labelWidth+2)
	for i, line := range lines {
		if i == 0 {
			b.WriteString(prefix + line + "\n")
			continue
		}
		b.WriteString(indent + line + "\n")
	}
	return b.String()
}

// WriteCard writes the card report to path.
func WriteCard(path string, sections []presentation.Section, queriedAt time.Time) error {
	content := Card(sections, queriedAt)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		log.ErrorErr(log.CatExport, "Failed to write card", err, "path", path)
		return fmt.Errorf("writing card: %w", err)
	}
	log.Info(log.CatExport, "Card written", "path", path)
	return nil
}
