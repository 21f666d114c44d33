package jira

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gi8lino/deskkit/internal/config"
)

// AuthFunc attaches credentials to an outgoing request.
type AuthFunc func(r *http.Request)

// NewBasicAuth returns an AuthFunc using HTTP Basic authentication (email + API token).
func NewBasicAuth(username, token string) AuthFunc {
	username = strings.TrimSpace(username)
	token = strings.TrimSpace(token)
	return func(r *http.Request) {
		r.SetBasicAuth(username, token)
	}
}

// NewBearerAuth returns an AuthFunc setting a Bearer token.
func NewBearerAuth(token string) AuthFunc {
	token = strings.TrimSpace(token)
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

// ResolveAuth returns the appropriate AuthFunc based on provided credentials.
// It supports either Bearer token or Basic (username + API token) authentication.
// Whitespace-only values, e.g. an empty secret file, count as unset.
func ResolveAuth(creds config.Credentials) (auth AuthFunc, method string, err error) {
	bearer := strings.TrimSpace(creds.BearerToken)
	username := strings.TrimSpace(creds.Username)
	token := strings.TrimSpace(creds.Token)

	switch {
	case bearer != "":
		return NewBearerAuth(bearer), "Bearer", nil
	case username != "" && token != "":
		return NewBasicAuth(username, token), "Basic", nil
	default:
		return nil, "", fmt.Errorf("no valid auth method configured: must provide either bearerToken or username+token")
	}
}
