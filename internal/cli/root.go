// Package cli implements the gql command tree.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vegasq/gql/internal/config"
	"github.com/vegasq/gql/internal/logging"
	"github.com/vegasq/gql/output"
	"github.com/vegasq/gql/query"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string
	LogLevel   string
	Timezone   string

	// Config is the file configuration with flag overrides applied. It is
	// set before any subcommand runs.
	Config *config.Config
}

// NewRootCommand creates the root command for the gql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "gql",
		Short: "Compile and run GQL datastore queries",
		Long: `gql parses GQL queries, binds their parameters and compiles them to
query plans. Plans can be printed, translated to SQL, or run against
entities loaded from parquet files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML configuration file")
	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", defaults.Format, "output format (json|jsonl|csv|table)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", defaults.LogLevel, "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Timezone, "timezone", defaults.Timezone, "time zone for date() and datetime()")

	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewSQLCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewDescribeCommand(opts))

	return cmd
}

// load reads the config file, applies explicitly set flags over it and
// installs the global logger.
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = o.Format
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.LogLevel
	}
	if flags.Changed("timezone") {
		cfg.Timezone = o.Timezone
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, "console")
	if err != nil {
		return err
	}
	logging.SetGlobalLogger(logger)

	o.Config = cfg
	logging.Debug().Str("config", o.ConfigPath).Str("format", cfg.Format).Msg("configuration loaded")
	return nil
}

func (o *RootOptions) location() (*time.Location, error) {
	return o.Config.Location()
}

func (o *RootOptions) queryOptions() ([]query.Option, error) {
	loc, err := o.location()
	if err != nil {
		return nil, err
	}
	return []query.Option{query.WithLocation(loc)}, nil
}

func (o *RootOptions) write(cmd *cobra.Command, rows []map[string]any) error {
	formatter, err := output.New(o.Config.Format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := formatter.Format(rows); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
