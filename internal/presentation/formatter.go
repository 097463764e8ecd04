package presentation

import (
	"encoding/json"
	"io"
)

// Formatter handles output formatting for the headless CLI.
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter.
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatSections writes the display sections as indented JSON.
func (f *Formatter) FormatSections(sections []Section) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sections)
}
