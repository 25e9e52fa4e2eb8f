package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// emailPattern matches raw email addresses so user PII never reaches log
// output through free-form string fields.
var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// bearerPattern matches "Bearer <token>" strings that appear as raw values.
var bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`)

// newRedactAttr returns a masq-powered ReplaceAttr function for use in
// slog.HandlerOptions. It redacts by field name for known sensitive fields
// and by regex for values that escape call-site redaction.
func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	return masq.New(
		masq.WithFieldName("password"),
		masq.WithFieldName("secret"),
		masq.WithFieldName("token"),
		masq.WithFieldName("email"),
		masq.WithFieldName("authorization"),

		// Prefix-based redaction for variations like "secret_key".
		masq.WithFieldPrefix("secret_"),

		// Regex-based defense for raw values in free-form fields.
		masq.WithRegex(emailPattern),
		masq.WithRegex(bearerPattern),
	)
}
