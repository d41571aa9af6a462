package cli

import (
	"github.com/spf13/cobra"

	"github.com/vegasq/gql/output"
	"github.com/vegasq/gql/sqlgen"
)

// SQLOptions holds flags for the sql command.
type SQLOptions struct {
	*RootOptions
	BindingOptions
	Placeholder string
}

// NewSQLCommand creates the sql command.
func NewSQLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SQLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sql <query>",
		Short: "Translate a query to SQL",
		Long: `Compile a GQL query and translate the plan to a SELECT over a table
named after the kind. The statement and its arguments are printed as one
row.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(opts, cmd, args[0])
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.Placeholder, "placeholder", "", "bind parameter style (question|dollar), overrides the config file")

	return cmd
}

func runSQL(opts *SQLOptions, cmd *cobra.Command, input string) error {
	plan, fetch, err := compileQuery(opts.RootOptions, &opts.BindingOptions, input)
	if err != nil {
		return err
	}

	name := opts.Config.Placeholder
	if opts.Placeholder != "" {
		name = opts.Placeholder
	}
	format, err := sqlgen.PlaceholderFormat(name)
	if err != nil {
		return err
	}

	stmt, sqlArgs, err := sqlgen.Translate(plan, fetch, sqlgen.WithPlaceholder(format))
	if err != nil {
		return err
	}

	display := make([]any, len(sqlArgs))
	for i, a := range sqlArgs {
		display[i] = output.DisplayValue(a)
	}
	return opts.write(cmd, []map[string]any{{"sql": stmt, "args": display}})
}
