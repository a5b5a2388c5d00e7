package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGravatarURLNormalizesEmail(t *testing.T) {
	assert.Equal(t, GravatarURL("user@example.com", 200), GravatarURL("  User@Example.COM ", 0))
}

func TestGravatarURLSize(t *testing.T) {
	assert.Contains(t, GravatarURL("user@example.com", 0), "?s=200&d=mp")
	assert.Contains(t, GravatarURL("user@example.com", 80), "?s=80&d=mp")
}
