// Package redact scrubs sensitive fragments from strings before they
// are logged or returned in error responses. The service handles two
// kinds of URLs that embed credentials, Postgres DSNs and AMQP broker
// URLs, and both tend to surface verbatim in connection errors.
package redact

import "regexp"

// Redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
)

var (
	// Connection strings with inline credentials: postgres://u:p@host,
	// amqp://u:p@host and friends.
	connURLRegex = regexp.MustCompile(`(?i)(postgres|postgresql|amqp|amqps)://[^@\s]+@`)

	// Key/value shaped credentials in DSNs, config dumps, and errors.
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]['"]?)[^'"&\s]{3,}`)
	apiKeyRegex   = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|bearer)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)
)

// String returns the input with credential-bearing fragments replaced
// by placeholders. Safe for logging.
func String(input string) string {
	if input == "" {
		return input
	}

	out := connURLRegex.ReplaceAllString(input, "$1://"+RedactedCredentialPlaceholder+"@")
	out = passwordRegex.ReplaceAllString(out, "$1$2"+RedactionPlaceholder)
	out = apiKeyRegex.ReplaceAllString(out, "$1$2"+RedactedCredentialPlaceholder)
	return out
}

// Error returns the redacted message of err, or "" for nil.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
