package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aleister1102/docdiff/internal/comparison"
	"github.com/aleister1102/docdiff/internal/extractor"
	"github.com/aleister1102/docdiff/internal/models"
	"github.com/aleister1102/docdiff/internal/reporter"
	"github.com/spf13/cobra"
)

func compareCMD(configPath *string) *cobra.Command {
	var (
		unit         string
		htmlOut      string
		schemaFile   string
		wantInsights bool
	)

	compare := &cobra.Command{
		Use:   "compare <left> <right>",
		Short: "Compare two local files and print the result as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			schema := ""
			if schemaFile != "" {
				raw, err := os.ReadFile(schemaFile)
				if err != nil {
					return fmt.Errorf("failed to read schema file: %w", err)
				}
				if !json.Valid(raw) {
					return fmt.Errorf("schema file '%s' is not valid JSON", schemaFile)
				}
				schema = string(raw)
			}

			left, err := loadDocument(args[0], schema)
			if err != nil {
				return err
			}
			right, err := loadDocument(args[1], schema)
			if err != nil {
				return err
			}

			result, err := app.service.Compare(cmd.Context(), comparison.Request{
				Left:     left,
				Right:    right,
				Unit:     models.DiffUnit(unit),
				Insights: wantInsights,
			})
			if err != nil {
				return err
			}

			if htmlOut != "" {
				htmlReporter, err := reporter.NewHtmlDiffReporter(app.logger)
				if err != nil {
					return err
				}
				return htmlReporter.WriteReport(result, left.Name, right.Name, htmlOut)
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		},
	}
	compare.Flags().StringVarP(&unit, "unit", "u", "", "comparison unit: words or lines (default from diff_config)")
	compare.Flags().StringVar(&htmlOut, "html", "", "write a standalone HTML report to this path instead of printing JSON")
	compare.Flags().StringVar(&schemaFile, "schema", "", "JSON schema file forwarded to the extraction provider")
	compare.Flags().BoolVar(&wantInsights, "insights", false, "ask the configured summarizer for insights")

	return compare
}

func loadDocument(path, schema string) (extractor.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return extractor.Document{}, fmt.Errorf("failed to read '%s': %w", path, err)
	}
	return extractor.Document{
		Name:   filepath.Base(path),
		Data:   data,
		Schema: schema,
	}, nil
}
