package config

// ServerConfig holds configuration for the HTTP API
type ServerConfig struct {
	Listen             string   `json:"listen,omitempty" yaml:"listen,omitempty"`
	ReadTimeoutSecs    int      `json:"read_timeout_secs,omitempty" yaml:"read_timeout_secs,omitempty" validate:"omitempty,min=1"`
	WriteTimeoutSecs   int      `json:"write_timeout_secs,omitempty" yaml:"write_timeout_secs,omitempty" validate:"omitempty,min=1"`
	RequestTimeoutSecs int      `json:"request_timeout_secs,omitempty" yaml:"request_timeout_secs,omitempty" validate:"omitempty,min=1"`
	MaxUploadMB        int      `json:"max_upload_mb,omitempty" yaml:"max_upload_mb,omitempty" validate:"omitempty,min=1"`
	AllowedOrigins     []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
	EnableMetrics      bool     `json:"enable_metrics" yaml:"enable_metrics"`
}

// NewDefaultServerConfig creates default server configuration
func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Listen:             DefaultServerListen,
		ReadTimeoutSecs:    DefaultServerReadTimeoutSecs,
		WriteTimeoutSecs:   DefaultServerWriteTimeoutSecs,
		RequestTimeoutSecs: DefaultServerRequestTimeoutSecs,
		MaxUploadMB:        DefaultServerMaxUploadMB,
		AllowedOrigins:     []string{"*"},
		EnableMetrics:      true,
	}
}
