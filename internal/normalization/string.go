package normalization

import (
	"strings"
)

// ParseInputString lowercases and trims user-supplied identifiers such
// as emails before they are compared or stored.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

func ParseInputStringPtr(input *string) *string {
	if input == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*input))
	return &normalized
}
