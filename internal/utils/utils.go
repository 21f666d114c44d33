package utils

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const redacted = "[redacted]"

// ObfuscateHeader masks the credential of an Authorization header value.
// Basic credentials are decoded so the Jira user stays readable:
// "Basic me@example.com:se**et". Other schemes keep 2 leading and 2 trailing
// characters of the token: "Bearer ab******yz".
func ObfuscateHeader(auth string) string {
	if auth == "" {
		return ""
	}

	scheme, cred, ok := strings.Cut(auth, " ")
	if !ok {
		return "[invalid header]"
	}
	cred = strings.TrimSpace(cred)

	if strings.EqualFold(scheme, "Basic") {
		if raw, err := base64.StdEncoding.DecodeString(cred); err == nil {
			if user, token, ok := strings.Cut(string(raw), ":"); ok {
				return scheme + " " + user + ":" + mask(token)
			}
		}
	}
	return scheme + " " + mask(cred)
}

// RedactHeaders flattens h into a map suitable for a log attribute.
// Authorization values are obfuscated and cookies dropped.
func RedactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for key, values := range h {
		switch http.CanonicalHeaderKey(key) {
		case "Authorization", "Proxy-Authorization":
			masked := make([]string, len(values))
			for i, v := range values {
				masked[i] = ObfuscateHeader(v)
			}
			out[key] = strings.Join(masked, ", ")
		case "Cookie", "Set-Cookie":
			out[key] = redacted
		default:
			out[key] = strings.Join(values, ", ")
		}
	}
	return out
}

// mask keeps the first and last 2 characters of s. Short values are fully masked.
func mask(s string) string {
	n := len(s)
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	return s[:2] + strings.Repeat("*", n-4) + s[n-2:]
}
