//go:build !txcfast

package domain

import (
	"strings"
	"unicode/utf8"
)

// sanitizeText converts buffer bytes to a string, replacing invalid UTF-8
// sequences. The txcfast build skips the validation.
func sanitizeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}
