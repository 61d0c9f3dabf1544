package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"catnorm/internal/infrastructure"
	"catnorm/internal/tabular"
	"catnorm/internal/validation"
)

func newLevelsCommand(global *globalOptions) *cobra.Command {
	var (
		input  string
		column string
		read   tabular.ReadOptions
	)
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "List the distinct values of a column in first-seen order",
		Long: `List the distinct non-empty values of a column, one per line, in the order
they first appear. The output is a starting point for a recipe's level list.

--input may be a glob such as "surveys/**/*.xlsx"; values are then gathered
across all matching files in path order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, logger, err := global.setup()
			if err != nil {
				return err
			}
			defer infrastructure.CloseLogFile()

			files, err := tabular.Discover(input)
			if err != nil {
				return err
			}
			values, err := distinctAcross(validation.NewFileValidator(logger), files, column, read)
			if err != nil {
				return err
			}
			for _, v := range values {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			logger.Debug("Distinct values listed",
				slog.String("column", column),
				slog.Int("files", len(files)),
				slog.Int("count", len(values)))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&input, "input", "", "input table (.csv, .xlsx, .xlsm) or glob pattern")
	f.StringVar(&column, "column", "", "column to inspect")
	f.StringVar(&read.Sheet, "sheet", "", "worksheet to read (default: first sheet)")
	f.IntVar(&read.Skip, "skip", 0, "rows to skip before the header row")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

// distinctAcross merges the distinct values of column over files, keeping
// first-seen order
func distinctAcross(v *validation.FileValidator, files []string, column string, read tabular.ReadOptions) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, path := range files {
		table, err := tabular.Open(v, path, read)
		if err != nil {
			return nil, err
		}
		values, err := table.Distinct(column)
		if err != nil {
			return nil, err
		}
		for _, val := range values {
			if _, ok := seen[val]; ok {
				continue
			}
			seen[val] = struct{}{}
			out = append(out, val)
		}
	}
	return out, nil
}
