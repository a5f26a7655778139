package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time.
var Version = "dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format  string // "json" | "text"
	Prefix  string // parameter prefix, empty means sqli.ParamPrefix
	Verbose bool
	NoColor bool
	Config  string // explicit config file path

	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Logger returns the command logger. Commands executed without the root
// command's pre-run get a logger that discards everything.
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.logger
}

// NewRootCommand creates the root command for the sqli CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	conf := viper.New()

	cmd := &cobra.Command{
		Use:   "sqli",
		Short: "sqli - injection-safe SQL from templates",
		Long: `Compile SQL templates with indexed placeholders into statements with
named parameters, and compose queries from filter trees.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(conf, opts); err != nil {
				return err
			}
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			opts.logger.Debug("configuration loaded",
				"format", opts.Format,
				"prefix", opts.Prefix,
				"config", conf.ConfigFileUsed(),
			)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.Prefix, "prefix", "", "parameter name prefix (default \"@p\")")
	flags.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	flags.StringVar(&opts.Config, "config", "", "config file (default is ./.sqli.yaml)")

	for _, name := range []string{"verbose", "format", "prefix", "no-color"} {
		_ = conf.BindPFlag(name, flags.Lookup(name))
	}

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))

	return cmd
}

// loadConfig merges flags, SQLI_* environment variables and the optional
// config file into opts. Explicitly set flags take precedence.
func loadConfig(conf *viper.Viper, opts *RootOptions) error {
	if opts.Config != "" {
		conf.SetConfigFile(opts.Config)
	} else {
		conf.SetConfigName(".sqli")
		conf.SetConfigType("yaml")
		conf.AddConfigPath(".")
	}

	conf.SetEnvPrefix("SQLI")
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()

	conf.SetDefault("format", "text")
	conf.SetDefault("prefix", "")

	if err := conf.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	opts.Format = conf.GetString("format")
	opts.Prefix = conf.GetString("prefix")
	opts.Verbose = conf.GetBool("verbose")
	opts.NoColor = conf.GetBool("no-color")
	return nil
}

func newLogger(out io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
