package reporter

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/aleister1102/docdiff/internal/models"
	"github.com/rs/zerolog"
)

// HtmlDiffReporter renders a comparison result as a self-contained HTML page
type HtmlDiffReporter struct {
	logger       zerolog.Logger
	template     *template.Template
	assetManager *AssetManager
	directoryMgr *DirectoryManager
	css          template.CSS
}

// NewHtmlDiffReporter parses the embedded template and stylesheet
func NewHtmlDiffReporter(logger zerolog.Logger) (*HtmlDiffReporter, error) {
	reporter := &HtmlDiffReporter{
		logger:       logger.With().Str("component", "HtmlDiffReporter").Logger(),
		assetManager: NewAssetManager(logger),
		directoryMgr: NewDirectoryManager(logger),
	}

	if err := reporter.initializeTemplate(); err != nil {
		return nil, err
	}

	css, err := reporter.assetManager.EmbedAssetContent(assetsFS, EmbeddedDiffCSSPath)
	if err != nil {
		reporter.logger.Warn().Err(err).Msg("Failed to embed CSS, report styling might be affected.")
	}
	reporter.css = template.CSS(css)

	return reporter, nil
}

func (r *HtmlDiffReporter) initializeTemplate() error {
	tmpl, err := template.New("").Funcs(GetDiffTemplateFunctions()).ParseFS(templatesFS, DiffReportTemplatePath)
	if err != nil {
		return fmt.Errorf("failed to parse HTML diff template: %w", err)
	}

	r.logger.Debug().Str("defined_templates", tmpl.DefinedTemplates()).Msg("HTML diff template parsed successfully")
	r.template = tmpl
	return nil
}

// BuildPageData converts a comparison result into template data. The render
// fields were escaped by the renderers and are trusted here.
func (r *HtmlDiffReporter) BuildPageData(result *models.ComparisonResult, leftName, rightName string) models.ReportPageData {
	return models.ReportPageData{
		Title:          DefaultDiffReportTitle,
		Timestamp:      time.Now().Format(time.RFC1123),
		LeftName:       leftName,
		RightName:      rightName,
		Summary:        result.Summary,
		InlineHTML:     template.HTML(result.InlineHTML),
		SideLeftHTML:   template.HTML(result.SideBySideHTML.Left),
		SideRightHTML:  template.HTML(result.SideBySideHTML.Right),
		StructuredDiff: result.StructuredDiff,
		Insights:       result.Insights,
		StaticCSS:      r.css,
	}
}

// GenerateReport renders the report page into memory
func (r *HtmlDiffReporter) GenerateReport(result *models.ComparisonResult, leftName, rightName string) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("comparison result is nil")
	}

	var buf bytes.Buffer
	if err := r.template.ExecuteTemplate(&buf, "diff_report.html.tmpl", r.BuildPageData(result, leftName, rightName)); err != nil {
		return nil, fmt.Errorf("failed to execute HTML diff template: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteReport renders the report page and writes it to outputPath
func (r *HtmlDiffReporter) WriteReport(result *models.ComparisonResult, leftName, rightName, outputPath string) error {
	page, err := r.GenerateReport(result, leftName, rightName)
	if err != nil {
		return err
	}
	if err := r.directoryMgr.EnsureParentDirectory(outputPath); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, page, FilePermissions); err != nil {
		return fmt.Errorf("failed to write report '%s': %w", outputPath, err)
	}

	r.logger.Info().Str("path", outputPath).Int("bytes", len(page)).Msg("HTML diff report written")
	return nil
}
