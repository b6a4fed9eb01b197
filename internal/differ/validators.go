package differ

import (
	"fmt"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
)

// ContentSizeValidator validates content size against limits
type ContentSizeValidator struct {
	maxSizeBytes int
}

// NewContentSizeValidator creates a new content size validator. A non-positive
// limit disables the check.
func NewContentSizeValidator(maxSizeBytes int) *ContentSizeValidator {
	return &ContentSizeValidator{
		maxSizeBytes: maxSizeBytes,
	}
}

// ValidateSize checks if content sizes are within limits
func (csv *ContentSizeValidator) ValidateSize(leftText, rightText string) error {
	if err := csv.validateSingleContent(leftText, "left_text"); err != nil {
		return err
	}

	return csv.validateSingleContent(rightText, "right_text")
}

// validateSingleContent validates a single content size
func (csv *ContentSizeValidator) validateSingleContent(content string, fieldName string) error {
	if csv.maxSizeBytes > 0 && len(content) > csv.maxSizeBytes {
		return errorwrapper.NewValidationError(fieldName, len(content),
			fmt.Sprintf("%s too large (%d bytes > %d bytes limit)",
				fieldName, len(content), csv.maxSizeBytes))
	}
	return nil
}
