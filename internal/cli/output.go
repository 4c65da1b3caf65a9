package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormatter handles JSON vs text output / Gère la sortie JSON ou texte
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Response is the JSON envelope of every command
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// Success writes data as a JSON envelope, or calls text in text mode
func (f *OutputFormatter) Success(data any, text func(w io.Writer) error) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(Response{Status: "ok", Data: data})
	}
	return text(f.Writer)
}

// printf ignores write errors, the text renderers check nothing else
func printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
