package config

const (
	// Server Defaults
	DefaultServerListen             = ":8080"
	DefaultServerReadTimeoutSecs    = 30
	DefaultServerWriteTimeoutSecs   = 180
	DefaultServerRequestTimeoutSecs = 170
	DefaultServerMaxUploadMB        = 25

	// Diff Defaults
	DefaultDiffUnit                 = "words"
	DefaultDiffTimeoutMs            = 5000
	DefaultDiffMaxTextSizeMB        = 20
	DefaultDiffMaxSnippets          = 12
	DefaultDiffMaxSnippetLength     = 240
	DefaultStructuredDiffSampleSize = 40

	// Extraction Defaults
	DefaultExtractionProvider           = "local"
	DefaultExtractionUploadPath         = "/v1/extract"
	DefaultExtractionStatusPath         = "/v1/jobs/{id}"
	DefaultExtractionResultPath         = "/v1/jobs/{id}/result"
	DefaultExtractionPollIntervalMs     = 1500
	DefaultExtractionPollDeadlineSecs   = 120
	DefaultExtractionRequestTimeoutSecs = 30
	DefaultExtractionMaxRetries         = 2

	// Insights Defaults
	DefaultInsightsProvider         = "openai"
	DefaultInsightsBaseURL          = "https://api.openai.com/v1"
	DefaultInsightsModel            = "gpt-4o-mini"
	DefaultInsightsTimeoutSecs      = 30
	DefaultInsightsMaxTokens        = 800
	DefaultInsightsTemperature      = 0.2
	DefaultInsightsMaxRetries       = 2
	DefaultInsightsMaxSnippets      = 8
	DefaultInsightsMaxSnippetLength = 200

	// Storage Defaults
	DefaultStorageSQLiteDBPath  = "database/extraction_cache.db"
	DefaultStorageCacheTTLHours = 168

	// Resource Limiter Defaults
	DefaultMaxMemoryMB               = 1024
	DefaultSystemMemThreshold        = 0.9
	DefaultResourceCheckIntervalSecs = 15

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Environment variable naming the config file
	ConfigPathEnvVar = "DOCDIFF_CONFIG_PATH"
)
