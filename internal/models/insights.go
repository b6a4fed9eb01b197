package models

// Insights is the natural-language change summary produced by the summarizer.
// Enabled is false when no summarizer is configured; Error is set when it failed.
type Insights struct {
	Enabled   bool     `json:"enabled"`
	Headline  string   `json:"headline,omitempty"`
	Bullets   []string `json:"bullets,omitempty"`
	RiskFlags []string `json:"riskFlags,omitempty"`
	Model     string   `json:"model,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// DisabledInsights is returned when the summarizer is not configured.
func DisabledInsights() *Insights {
	return &Insights{Enabled: false}
}

// FailedInsights records a summarizer failure without failing the comparison.
func FailedInsights(err error) *Insights {
	return &Insights{Enabled: true, Error: err.Error()}
}
