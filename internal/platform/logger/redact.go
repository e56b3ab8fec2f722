package logger

import "regexp"

// Batch and file identifiers returned by the generation service are opaque
// account-scoped tokens; they never belong in logs or error previews.

var (
	idTokenRe  = regexp.MustCompile(`\b(?:batch|resp|msg|rs|file|ft|run|job)[_-][A-Za-z0-9._-]+\b`)
	bearerRe   = regexp.MustCompile(`Bearer\s+[A-Za-z0-9._-]+`)
	idFieldRe  = regexp.MustCompile(`("(?:id|request_id|output_file_id|error_file_id|custom_id)"\s*:\s*")[^"]+(")`)
	longHexRe  = regexp.MustCompile(`(?i)\b[a-f0-9]{16,}\b`)
	collapseRe = regexp.MustCompile(`\s+`)
)

// Redact obfuscates service-issued identifiers and credentials in s.
func Redact(s string) string {
	s = idTokenRe.ReplaceAllString(s, "[redacted]")
	s = bearerRe.ReplaceAllString(s, "Bearer [redacted]")
	s = longHexRe.ReplaceAllString(s, "[hex]")
	return s
}

// RedactJSON additionally masks id-bearing JSON fields, for previews of
// request/response artifacts.
func RedactJSON(s string) string {
	s = idFieldRe.ReplaceAllString(s, `${1}[redacted]${2}`)
	return Redact(s)
}

// Preview returns a redacted, whitespace-collapsed prefix of s suitable for
// a single log attribute.
func Preview(s string, n int) string {
	s = collapseRe.ReplaceAllString(RedactJSON(s), " ")
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
