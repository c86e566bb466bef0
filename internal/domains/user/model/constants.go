package model

import "regexp"

// usernamePattern matches letters, digits and the separators commonly
// allowed in handles.
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

const (
	// ConfirmationCodeLength is the number of digits in a code.
	ConfirmationCodeLength = 6

	// CodeCacheKeyPrefix prefixes the cache key holding a code hash.
	CodeCacheKeyPrefix = "auth:code:"
)

// CodeCacheKey is the cache key holding the bcrypt hash of the
// confirmation code issued to an email address.
func CodeCacheKey(email string) string {
	return CodeCacheKeyPrefix + email
}
