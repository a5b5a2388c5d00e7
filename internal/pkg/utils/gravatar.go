package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

const defaultAvatarSize = 200

// GravatarURL returns the Gravatar avatar URL for an email address, falling
// back to the "mystery person" placeholder when the address has no Gravatar.
// A size of 0 or less uses the 200px default.
func GravatarURL(email string, size int) string {
	if size <= 0 {
		size = defaultAvatarSize
	}
	// Gravatar hashes the trimmed, lowercased address
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=mp", hash, size)
}
