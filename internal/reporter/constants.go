package reporter

const (
	// CSS classes shared by the renderers and the report stylesheet
	ClassAdded       = "diff-added"
	ClassRemoved     = "diff-removed"
	ClassLine        = "diff-line"
	ClassPlaceholder = "diff-placeholder"

	// Embedded asset paths
	DiffReportTemplatePath = "templates/diff_report.html.tmpl"
	EmbeddedDiffCSSPath    = "assets/css/diff_report.css"

	DefaultDiffReportTitle = "Document Comparison Report"

	// File permissions
	DirPermissions  = 0755
	FilePermissions = 0644
)
