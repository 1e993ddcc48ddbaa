package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello \n"))
	assert.Equal(t, "", SanitizeString("   "))
}

func TestIsValidRatingValue(t *testing.T) {
	assert.True(t, IsValidRatingValue(0))
	assert.True(t, IsValidRatingValue(10))
	assert.True(t, IsValidRatingValue(7.3333))
	assert.False(t, IsValidRatingValue(-0.0001))
	assert.False(t, IsValidRatingValue(10.0001))
}
