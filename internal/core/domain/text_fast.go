//go:build txcfast

package domain

// sanitizeText trusts the connector to produce valid text.
func sanitizeText(b []byte) string {
	return string(b)
}
