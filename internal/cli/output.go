package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mitranim/sqli"
)

// StatementResult is the JSON form of a compiled statement.
type StatementResult struct {
	Text   string        `json:"text"`
	Params []ParamResult `json:"params"`
}

// ParamResult is one named parameter, in statement order.
type ParamResult struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	NoColor bool
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		NoColor: opts.NoColor,
	}
}

// NewStatementResult collects the parameters in insertion order.
func NewStatementResult(text string, params sqli.Params) StatementResult {
	out := StatementResult{Text: text, Params: []ParamResult{}}
	params.Range(func(name string, val any) {
		out.Params = append(out.Params, ParamResult{Name: name, Value: val})
	})
	return out
}

// Statement outputs the statement text followed by its parameters.
func (f *OutputFormatter) Statement(text string, params sqli.Params) error {
	result := NewStatementResult(text, params)

	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if _, err := fmt.Fprintln(f.Writer, result.Text); err != nil {
		return err
	}
	if len(result.Params) == 0 {
		return nil
	}

	name := color.New(color.FgCyan, color.Bold)
	if f.NoColor {
		name.DisableColor()
	}

	fmt.Fprintln(f.Writer)
	for _, param := range result.Params {
		if _, err := fmt.Fprintf(f.Writer, "%s = %s\n", name.Sprint(param.Name), formatValue(param.Value)); err != nil {
			return err
		}
	}
	return nil
}

// formatValue renders a parameter value as an SQL-like literal for display.
func formatValue(val any) string {
	switch val := val.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	default:
		return fmt.Sprint(val)
	}
}
