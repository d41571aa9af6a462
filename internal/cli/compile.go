package cli

import (
	"github.com/spf13/cobra"

	"github.com/vegasq/gql/output"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	BindingOptions
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <query>",
		Short: "Compile a query to a plan and fetch options",
		Long: `Parse a GQL query, bind its parameters and print one row per clause
of the compiled plan: kind, projection, ancestor, filters, sorts, limit
and offset.`,
		Example: `  gql compile "SELECT * FROM Person WHERE age >= :1 LIMIT 10" --arg 21
  gql compile "SELECT * WHERE ANCESTOR IS KEY(:kind, :name)" --named "kind='Person'" --named "name='Amy'"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, fetch, err := compileQuery(opts.RootOptions, &opts.BindingOptions, args[0])
			if err != nil {
				return err
			}
			return opts.write(cmd, output.PlanRows(plan, fetch))
		},
	}
	opts.addFlags(cmd)

	return cmd
}
