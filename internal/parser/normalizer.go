// Package parser implements the raw-message parsing layer for feedback-loop
// report classification: line-ending normalization, header field parsing,
// multipart body splitting and bare address extraction.
package parser

import "strings"

// Normalize converts all line endings to CRLF and undoes the two literal
// quoted-printable escapes that survive transport (=3D and =09). Collapsing
// CRLF to LF before expanding back makes mixed line endings converge, so the
// function is idempotent. Empty input is returned as-is.
func Normalize(content string) string {
	if content == "" {
		return content
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\n", "\r\n")
	content = strings.ReplaceAll(content, "=3D", "=")
	content = strings.ReplaceAll(content, "=09", "  ")

	return content
}
