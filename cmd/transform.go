package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/artx/internal/formatter"
	"github.com/desertthunder/artx/internal/shared"
	"github.com/desertthunder/artx/internal/transform"
	"github.com/desertthunder/artx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TransformAnalyze discovers and prints the field schema of a record array.
func (r *Runner) TransformAnalyze(ctx context.Context, cmd *cli.Command) error {
	records, err := shared.ReadRecords(cmd.String("input"))
	if err != nil {
		return err
	}

	schema := transform.Analyze(records)

	if cmd.Bool("json") {
		return r.writeJSON(schema, true)
	}

	r.writePlainHeader(fmt.Sprintf("Schema: %d records, ~%s", schema.RecordCount, schema.SizeEstimate))
	for _, field := range schema.Fields {
		line := fmt.Sprintf("%-40s %-8s %s", field.Path, field.Type, field.Sample)
		if field.Description != "" {
			line = fmt.Sprintf("%s (%s)", line, field.Description)
		}
		r.writePlain("%s\n", line)
	}
	return nil
}

// TransformSelect launches the interactive field picker over a dataset.
func (r *Runner) TransformSelect(ctx context.Context, cmd *cli.Command) error {
	return r.runFieldPicker(ctx, cmd.String("input"), cmd.String("output"))
}

// TransformDedupe removes structurally duplicate records and reports the pass.
func (r *Runner) TransformDedupe(ctx context.Context, cmd *cli.Command) error {
	records, err := shared.ReadRecords(cmd.String("input"))
	if err != nil {
		return err
	}

	result := transform.Dedupe(records)

	if output := cmd.String("output"); output != "" {
		if err := shared.WriteRecords(output, result.Records); err != nil {
			return err
		}
		r.logger.Info("deduplicated records written", "path", output, "count", result.KeptCount)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlain("Records: %d\nKept: %d\nRemoved: %d\n", result.OriginalCount, result.KeptCount, result.RemovedCount)
	if len(result.SuspectedKeys) > 0 {
		r.writePlain("Suspected identity keys: %v\n", result.SuspectedKeys)
	}
	return nil
}

// TransformMerge merges multiple record arrays into one.
func (r *Runner) TransformMerge(ctx context.Context, cmd *cli.Command) error {
	inputs := cmd.StringArgs("inputs")
	if len(inputs) == 0 {
		return fmt.Errorf("%w: at least one input file is required", shared.ErrInvalidArgument)
	}

	arrays := make([][]any, 0, len(inputs))
	for _, input := range inputs {
		records, err := shared.ReadRecords(input)
		if err != nil {
			return err
		}
		arrays = append(arrays, records)
	}

	merged, err := transform.Merge(arrays, transform.MergeConfig{
		Strategy:   transform.Strategy(cmd.String("strategy")),
		Resolution: transform.Resolution(cmd.String("resolution")),
	})
	if err != nil {
		return err
	}

	if output := cmd.String("output"); output != "" {
		if err := shared.WriteRecords(output, merged); err != nil {
			return err
		}
		r.logger.Info("merged records written", "path", output, "count", len(merged))
		return nil
	}

	return r.writeJSON(merged, true)
}

// TransformConvert converts a record array to CSV, SQL, Markdown, or compact JSON.
func (r *Runner) TransformConvert(ctx context.Context, cmd *cli.Command) error {
	records, err := shared.ReadRecords(cmd.String("input"))
	if err != nil {
		return err
	}

	format := cmd.String("format")

	var data []byte
	switch format {
	case "csv":
		data, err = formatter.ExportToCSV(records)
	case "sql":
		data, err = formatter.ExportToSQL(records, cmd.String("table"), transform.Dialect(cmd.String("dialect")), int(cmd.Int("batch-size")))
	case "markdown", "md":
		data = formatter.ExportToMarkdown(records, cmd.String("table"))
	case "json":
		data, err = formatter.ExportToJSON(records)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return err
	}

	if output := cmd.String("output"); output != "" {
		if err := writeFile(output, data); err != nil {
			return err
		}
		r.logger.Info("converted output written", "path", output, "format", format)
		return nil
	}

	return r.writePlain("%s", data)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// runFieldPicker loads a dataset and runs the TUI field selection workflow.
func (r *Runner) runFieldPicker(ctx context.Context, input, output string) error {
	records, err := shared.ReadRecords(input)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: no records in %s", shared.ErrInvalidInput, input)
	}

	if output == "" {
		output = input + ".selected.json"
	}

	model := ui.NewModel(ctx, records, input, output)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
