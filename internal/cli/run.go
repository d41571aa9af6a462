package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vegasq/gql/internal/logging"
	"github.com/vegasq/gql/memstore"
	"github.com/vegasq/gql/output"
	"github.com/vegasq/gql/query"
	"github.com/vegasq/gql/reader"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	BindingOptions
	DataDir   string
	KeyColumn string
	Count     bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <query>",
		Short: "Run a query against entities stored in parquet files",
		Long: `Compile a GQL query and run it against an in-memory store loaded from
<data-dir>/<Kind>.parquet. Kindless queries load every parquet file in
the directory, using each file name as the kind.`,
		Example: `  gql run "SELECT * FROM Person WHERE age > 30 ORDER BY name" --data ./data
  gql run "SELECT __key__ FROM Person" --data ./data --key-column ""`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.Context(), opts, cmd, args[0])
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.DataDir, "data", "", "directory holding <Kind>.parquet files, overrides the config file")
	cmd.Flags().StringVar(&opts.KeyColumn, "key-column", "", "column holding entity IDs or names; empty numbers rows in file order")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "print the number of matching entities instead of the entities")

	return cmd
}

func runQuery(ctx context.Context, opts *RunOptions, cmd *cobra.Command, input string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	plan, fetch, err := compileQuery(opts.RootOptions, &opts.BindingOptions, input)
	if err != nil {
		return err
	}

	dataDir := opts.Config.DataDir
	if cmd.Flags().Changed("data") {
		dataDir = opts.DataDir
	}
	keyColumn := opts.Config.KeyColumn
	if cmd.Flags().Changed("key-column") {
		keyColumn = opts.KeyColumn
	}

	store, err := memstore.New()
	if err != nil {
		return err
	}
	if err := loadKinds(ctx, store, dataDir, plan.Kind, keyColumn); err != nil {
		return err
	}

	if opts.Count {
		n, err := store.Count(ctx, plan)
		if err != nil {
			return err
		}
		return opts.write(cmd, []map[string]any{{"count": n}})
	}

	entities, err := store.Run(ctx, plan, fetch)
	if err != nil {
		return err
	}
	logging.Info().Str("kind", plan.Kind).Int("entities", len(entities)).Msg("query complete")
	return opts.write(cmd, output.EntityRows(entities))
}

// loadKinds fills store from dataDir. An empty kind loads every file.
func loadKinds(ctx context.Context, store *memstore.Store, dataDir, kind, keyColumn string) error {
	files := map[string]string{}
	if kind != "" {
		files[kind] = filepath.Join(dataDir, kind+".parquet")
	} else {
		matches, err := filepath.Glob(filepath.Join(dataDir, "*.parquet"))
		if err != nil {
			return fmt.Errorf("listing %s: %w", dataDir, err)
		}
		for _, m := range matches {
			files[strings.TrimSuffix(filepath.Base(m), ".parquet")] = m
		}
	}

	for k, path := range files {
		if err := validKind(k); err != nil {
			return err
		}
		entities, err := reader.LoadEntities(ctx, path, k, keyColumn)
		if err != nil {
			return fmt.Errorf("loading kind %s: %w", k, err)
		}
		if err := store.Put(ctx, entities...); err != nil {
			return err
		}
		logging.Debug().Str("kind", k).Str("file", path).Int("entities", len(entities)).Msg("kind loaded")
	}
	return nil
}

func validKind(kind string) error {
	if kind == "." || kind == ".." || strings.ContainsAny(kind, `/\`) {
		return fmt.Errorf("kind %q cannot name a data file", kind)
	}
	if err := query.ValidateKind(kind); err != nil {
		return fmt.Errorf("kind %q: %w", kind, err)
	}
	return nil
}
