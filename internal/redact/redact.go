// Package redact strips credentials, email addresses, file paths and stack
// traces from strings before they are logged or placed in error responses,
// and renders SQL parameters in a loggable form that hides user data.
package redact

import (
	"fmt"
	"reflect"
	"regexp"
	"time"
	"unicode/utf8"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedStackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// rules run in order; connection strings go first so their user@host part is
// not mistaken for an email address.
var rules = []rule{
	{regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|mysql|mongodb)://[^@\s/]+@`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`(?i)\b(?:password|passwd|pwd)\s*[=:]\s*['"]?[^'"&\s]+['"]?`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(?:\n\t.*)+`), RedactedStackPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},
	{regexp.MustCompile(`(?:/[\w.-]+){2,}`), RedactedPathPlaceholder},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\\s]+(?:\\[^\\\s]+)+`), RedactedPathPlaceholder},
}

// String redacts sensitive information from the input string.
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

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Args renders bound query parameters for logging. Numbers, booleans, times
// and NULLs are shown as-is; text and binary values are replaced by their
// length so names and email addresses never reach the logs.
func Args(args []any) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = arg(a)
	}
	return out
}

func arg(a any) string {
	if a == nil {
		return "NULL"
	}

	switch v := a.(type) {
	case string:
		return fmt.Sprintf("%s(len=%d)", RedactionPlaceholder, utf8.RuneCountInString(v))
	case []byte:
		return fmt.Sprintf("%s(bytes=%d)", RedactionPlaceholder, len(v))
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(v)
	}

	rv := reflect.ValueOf(a)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "NULL"
		}
		return arg(rv.Elem().Interface())
	}
	return RedactionPlaceholder
}
