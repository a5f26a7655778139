package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mitranim/sqli"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <template> [args...]",
		Short: "Compile one template into a statement with named parameters",
		Long: `Compile a template such as "select * from users where id = {0}" into a
statement with generated parameter names.

Arguments are decoded as YAML scalars: 10 is an integer, true is a boolean,
null is NULL, anything else is a string. Quote to force a string: "'10'".`,
		Example: `  sqli compile "select * from users where name = '{0}' and age > {1}" Alice 30
  sqli compile --format json "select * from {0:raw} where id = {1}" users 10`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(rootOpts, cmd, args[0], args[1:])
		},
	}

	return cmd
}

func runCompile(opts *RootOptions, cmd *cobra.Command, text string, rawArgs []string) error {
	log := opts.Logger()

	args, err := parseArgs(rawArgs)
	if err != nil {
		return err
	}
	log.Debug("compiling template", "template", text, "args", len(args))

	var stmt sqli.Stmt
	err = sqli.Catch(func() {
		stmt = sqli.Compiler{Prefix: opts.Prefix}.Compile(sqli.F(text, args...))
	})
	if err != nil {
		return fmt.Errorf("compiling template: %w", err)
	}

	log.Debug("template compiled", "params", stmt.Params.Len())
	return newFormatter(opts, cmd).Statement(stmt.Text, stmt.Params)
}

// parseArgs decodes each command-line argument as a YAML scalar.
func parseArgs(vals []string) ([]any, error) {
	out := make([]any, 0, len(vals))
	for i, val := range vals {
		var node any
		if err := yaml.Unmarshal([]byte(val), &node); err != nil {
			return nil, fmt.Errorf("parsing argument %d %q: %w", i, val, err)
		}
		out = append(out, node)
	}
	return out, nil
}
