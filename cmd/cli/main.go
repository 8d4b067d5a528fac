package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"qreport/adapters/excel"
	"qreport/app"
	"qreport/internal/report"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "qreport",
		Short:         "Reshape long-format question reports into one row per school",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newTransformCmd(),
		newMeltCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTransformCmd() *cobra.Command {
	var output string
	var format string

	cmd := &cobra.Command{
		Use:   "transform [input]",
		Short: "Pivot a question report into one row per school",
		Long: `Pivot a long-format question report (CSV or XLSX) into a wide table.

The input must contain the columns School Name, question and
Question_response_label (any casing). Use -o - to write to stdout.

Example: qreport transform responses.csv -o report.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, args[0], output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: transformed_question_report.<format>)")
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv|xlsx")

	return cmd
}

func runTransform(cmd *cobra.Command, input, output, formatName string) error {
	format, err := app.ParseFormat(formatName)
	if err != nil {
		return err
	}

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	service := app.NewReportService(app.ReportServiceConfig{})
	rep, err := service.Process(cmd.Context(), app.Upload{Filename: filepath.Base(input), File: f})
	if err != nil {
		if missing, ok := app.MissingColumns(err); ok {
			for _, msg := range missing.Messages() {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			}
			return fmt.Errorf("%s: required columns missing", input)
		}
		return err
	}

	payload, err := service.Encode(rep.Table.Table(), format)
	if err != nil {
		return err
	}

	if output == "" {
		output = payload.FileName
	}
	if err := writeOutput(cmd.OutOrStdout(), output, payload.Data); err != nil {
		return err
	}

	if output != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s: %d schools x %d questions (%d duplicate rows dropped)\n",
			output, rep.Summary.Entities, rep.Summary.Questions, rep.Summary.Dropped)
	}
	return nil
}

func newMeltCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "melt [wide.csv]",
		Short: "Turn a transformed report back into long format",
		Long: `Unpivot a wide report (first column is the school) back into
school_name, question, question_response_label rows. Empty cells are skipped.

Example: qreport melt transformed_question_report.csv -o long.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMelt(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output path, - for stdout")

	return cmd
}

func runMelt(cmd *cobra.Command, input, output string) error {
	fileType, ok := excel.DetectFileType(input)
	if !ok {
		return fmt.Errorf("unsupported input %q: expected .csv or .xlsx", input)
	}

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	table, err := excel.NewDataReader(fileType, excel.DefaultReaderConfig()).ReadData(f)
	if err != nil {
		return err
	}

	wide := report.WideFromTable(table)
	if len(wide.Columns) == 0 {
		return fmt.Errorf("%s has no columns", input)
	}
	long := report.LongTable(wide.Columns[0], report.Melt(wide))

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, long); err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), output, buf.Bytes())
}

// writeOutput writes data to path, or to stdout when path is "-"
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
