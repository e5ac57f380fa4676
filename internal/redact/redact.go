// Package redact scrubs sensitive material from strings before they are
// logged. Error chains in this service routinely carry backend URLs, API
// keys, and bearer tokens from failed upstream calls; nothing from here
// should ever reach a client, but logs get the scrubbed form too.
package redact

import (
	"regexp"
)

// Redaction placeholders.
const (
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedURLPlaceholder        = "[REDACTED_URL]"
)

var (
	// JWTs: three dot-separated base64url segments starting with eyJ.
	jwtRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Bearer tokens in header dumps or error strings.
	bearerRegex = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/=]{8,}`)

	// API keys and secrets assigned in key=value or key: value form.
	apiKeyRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|apikey|service[_-]?key|anon[_-]?key|secret|token|key)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	// URLs with embedded userinfo credentials.
	credURLRegex = regexp.MustCompile(`(?i)[a-z][a-z0-9+.-]*://[^@/\s]+@[^\s]+`)

	// Backend project URLs. The project ref in the hostname is effectively
	// an identifier for the whole deployment.
	projectURLRegex = regexp.MustCompile(`https?://[A-Za-z0-9-]+\.supabase\.(?:co|in)[^\s"']*`)

	// Password fields in payload echoes.
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)(['"\s:=]+)[^'"&\s]{3,}`)

	// Email addresses.
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Bare host:port endpoints.
	hostPortRegex = regexp.MustCompile(
		`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}:\d{1,5}\b`,
	)
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Order matters: URL and token forms are matched before the generic
// key=value and email patterns that would otherwise mangle them.
var rules = []rule{
	{credURLRegex, RedactedCredentialPlaceholder},
	{projectURLRegex, RedactedURLPlaceholder},
	{jwtRegex, RedactedTokenPlaceholder},
	{bearerRegex, RedactedTokenPlaceholder},
	{apiKeyRegex, RedactedKeyPlaceholder},
	{passwordRegex, RedactedCredentialPlaceholder},
	{emailRegex, RedactedEmailPlaceholder},
	{hostPortRegex, "[REDACTED_HOST]"},
}

// String redacts sensitive material from the input.
func String(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts the Error() output of err, returning "" for nil.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
