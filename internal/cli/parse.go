package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vegasq/gql/query"
)

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <query>",
		Short: "Parse a query and print it in canonical form",
		Long: `Parse a GQL query without binding parameters and print the parsed
query back as normalized text. Parameters and function calls are kept
unevaluated.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			pr, err := query.Parse(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), pr.String())
			return err
		},
	}
}
