package reporter

import (
	"encoding/json"
	"html/template"

	"github.com/aleister1102/docdiff/internal/models"
)

// GetDiffTemplateFunctions returns the helpers used by the diff report template
func GetDiffTemplateFunctions() template.FuncMap {
	funcMap := template.FuncMap{}

	funcMap["jsonValue"] = func(v any) string {
		data, err := json.Marshal(v)
		if err != nil {
			return "(unprintable)"
		}
		return string(data)
	}

	funcMap["changeSymbol"] = func(t models.ChangeType) string {
		switch t {
		case models.ChangeAdded:
			return "+"
		case models.ChangeRemoved:
			return "-"
		default:
			return "~"
		}
	}

	funcMap["displayPath"] = func(path string) string {
		if path == "" {
			return "(root)"
		}
		return path
	}

	return funcMap
}
