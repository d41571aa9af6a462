package cli

import (
	"github.com/spf13/cobra"

	"github.com/vegasq/gql/reader"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "describe <file.parquet>",
		Short:         "Print the properties stored in a parquet file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := reader.ExtractPropertyInfo(args[0])
			if err != nil {
				return err
			}

			rows := make([]map[string]any, len(infos))
			for i, info := range infos {
				rows[i] = map[string]any{
					"name":         info.Name,
					"type":         info.Type,
					"parquet_type": info.ParquetType,
					"optional":     info.Optional,
					"repeated":     info.Repeated,
				}
			}
			return rootOpts.write(cmd, rows)
		},
	}
}
