package utils

import (
	"strings"
)

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

// IsValidRatingValue checks the 0..10 rating scale.
func IsValidRatingValue(value float64) bool {
	return value >= 0 && value <= 10
}
