package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"catnorm/internal/app"
	"catnorm/internal/config"
	"catnorm/internal/exporter"
	"catnorm/internal/infrastructure"
	"catnorm/internal/services"
	"catnorm/internal/tabular"
	"catnorm/internal/validation"
)

type applyOptions struct {
	input       string
	spreadsheet string
	readRange   string
	credentials string
	recipe      string
	out         string
	sheet       string
	skip        int
	rejections  string
	summary     string
}

func newApplyCommand(global *globalOptions) *cobra.Command {
	opts := &applyOptions{}
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Normalize the columns of a table as described by a recipe",
		Example: `  catnorm apply --input survey.xlsx --recipe recipe.yaml --out clean.xlsx
  catnorm apply --input survey.csv --recipe recipe.yaml --out clean.csv --rejections rejected.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := global.setup()
			if err != nil {
				return err
			}
			defer infrastructure.CloseLogFile()
			return runApply(cmd.Context(), cfg, logger, opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.input, "input", "", "input table (.csv, .xlsx, .xlsm)")
	f.StringVar(&opts.spreadsheet, "spreadsheet", "", "Google Sheets spreadsheet id to read instead of --input")
	f.StringVar(&opts.readRange, "range", "", "A1 range to read from --spreadsheet, e.g. Survey!A1:F200")
	f.StringVar(&opts.credentials, "credentials", "", "service account JSON for --spreadsheet")
	f.StringVar(&opts.recipe, "recipe", "", "recipe YAML describing the columns to normalize")
	f.StringVar(&opts.out, "out", "", "output file (.csv or .xlsx)")
	f.StringVar(&opts.sheet, "sheet", "", "worksheet to read (default: first sheet)")
	f.IntVar(&opts.skip, "skip", 0, "rows to skip before the header row")
	f.StringVar(&opts.rejections, "rejections", "", "write rejected values to this CSV file")
	f.StringVar(&opts.summary, "summary", "", "write per-level counts to this CSV file")
	cmd.MarkFlagsMutuallyExclusive("input", "spreadsheet")
	cmd.MarkFlagsOneRequired("input", "spreadsheet")
	cmd.MarkFlagsRequiredTogether("spreadsheet", "range")
	_ = cmd.MarkFlagRequired("recipe")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runApply(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts *applyOptions, stdout io.Writer) error {
	ctx = infrastructure.EnsureTraceID(ctx)

	recipe, err := config.LoadRecipe(opts.recipe)
	if err != nil {
		return err
	}

	validator := validation.NewFileValidator(logger)
	outKind, err := outputKind(opts.out)
	if err != nil {
		return err
	}
	if err := validator.ValidateOutputFile(opts.out); err != nil {
		return err
	}

	table, err := readSource(ctx, validator, logger, opts)
	if err != nil {
		return err
	}

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger, os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		if err := providers.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	svc, err := app.NewServices(cfg, logger, providers)
	if err != nil {
		return err
	}

	specs := services.SpecsFromRecipe(recipe, cfg.Normalize)
	results, err := svc.Normalization.NormalizeTable(ctx, table, specs)
	if err != nil {
		return err
	}

	missing := cfg.Normalize.MissingText
	csvWriter := exporter.NewCSVWriter(missing, logger)
	switch outKind {
	case validation.KindExcel:
		err = exporter.NewExcelWriter(missing, logger).Write(opts.out, table, results)
	default:
		err = csvWriter.WriteColumns(opts.out, table, results)
	}
	if err != nil {
		return err
	}

	if opts.rejections != "" {
		if err := csvWriter.WriteRejections(opts.rejections, results); err != nil {
			return err
		}
	}
	if opts.summary != "" {
		if err := csvWriter.WriteSummary(opts.summary, results); err != nil {
			return err
		}
	}

	printReport(stdout, table, results)
	logger.InfoContext(ctx, "Table normalized",
		slog.String("source", table.Source),
		slog.String("output", opts.out),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(results)))
	return nil
}

// outputKind maps the output extension to a writer
func outputKind(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return validation.KindExcel, nil
	case ".csv":
		return validation.KindCSV, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: use .csv or .xlsx", filepath.Ext(path))
	}
}

// readSource reads the input file, or the Sheets range when --spreadsheet is set
func readSource(ctx context.Context, v *validation.FileValidator, logger *slog.Logger, opts *applyOptions) (*tabular.Table, error) {
	read := tabular.ReadOptions{Sheet: opts.sheet, Skip: opts.skip}
	if opts.spreadsheet == "" {
		return tabular.Open(v, opts.input, read)
	}
	if opts.readRange == "" {
		return nil, errors.New("--range is required with --spreadsheet")
	}

	var clientOpts []option.ClientOption
	if opts.credentials != "" {
		if err := v.ValidateFile(opts.credentials); err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.credentials))
	}
	reader, err := tabular.NewSheetsReader(ctx, logger, clientOpts...)
	if err != nil {
		return nil, err
	}
	return reader.Read(ctx, opts.spreadsheet, opts.readRange, read)
}

// printReport writes one line per column with its data-quality counts
func printReport(w io.Writer, table *tabular.Table, results []services.ColumnResult) {
	fmt.Fprintf(w, "%s: %d rows\n", table.Source, table.Len())
	for _, r := range results {
		fmt.Fprintf(w, "  %-20s %d levels, %d absent, %d rejected\n",
			r.Output, r.Column.Levels.Len(), r.Input.Absent, r.Input.Rejected)
	}
}
