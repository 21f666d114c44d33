package jira_test

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gi8lino/deskkit/internal/config"
	"github.com/gi8lino/deskkit/internal/jira"
	"github.com/gi8lino/deskkit/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBasicAuth(t *testing.T) {
	t.Parallel()

	t.Run("sets basic auth header", func(t *testing.T) {
		t.Parallel()

		req, _ := http.NewRequest("GET", "https://example.com", nil)
		auth := jira.NewBasicAuth(" user@example.com ", " token123 ")

		auth(req)

		username, password, ok := req.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "user@example.com", username)
		assert.Equal(t, "token123", password)
	})
}

func TestNewBearerAuth(t *testing.T) {
	t.Parallel()

	t.Run("sets bearer token header", func(t *testing.T) {
		t.Parallel()

		req, _ := http.NewRequest("GET", "https://example.com", nil)
		auth := jira.NewBearerAuth("  abc123  ")

		auth(req)

		assert.Equal(t, "Bearer abc123", req.Header.Get("Authorization"))
	})
}

func TestResolveAuth(t *testing.T) {
	t.Parallel()

	t.Run("returns bearer auth when bearer token is provided", func(t *testing.T) {
		t.Parallel()

		auth, method, err := jira.ResolveAuth(config.Credentials{BearerToken: "mytoken"})
		require.NoError(t, err)
		assert.Equal(t, "Bearer", method)

		req, _ := http.NewRequest("GET", "https://example.com", nil)
		auth(req)
		assert.Equal(t, "Bearer mytoken", req.Header.Get("Authorization"))
	})

	t.Run("returns basic auth when username and token are provided", func(t *testing.T) {
		t.Parallel()

		auth, method, err := jira.ResolveAuth(config.Credentials{Username: "me@example.com", Token: "secret"})
		require.NoError(t, err)
		assert.Equal(t, "Basic", method)

		req, _ := http.NewRequest("GET", "https://example.com", nil)
		auth(req)
		user, pass, ok := req.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "me@example.com", user)
		assert.Equal(t, "secret", pass)
	})

	t.Run("returns error when no credentials provided", func(t *testing.T) {
		t.Parallel()

		auth, method, err := jira.ResolveAuth(config.Credentials{})
		assert.Error(t, err)
		assert.Nil(t, auth)
		assert.Empty(t, method)
	})
	t.Run("whitespace-only bearer token falls back to basic auth", func(t *testing.T) {
		t.Parallel()

		auth, method, err := jira.ResolveAuth(config.Credentials{BearerToken: "  \n", Username: "me@example.com", Token: "secret"})
		require.NoError(t, err)
		assert.Equal(t, "Basic", method)

		req, _ := http.NewRequest("GET", "https://example.com", nil)
		auth(req)
		user, pass, ok := req.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "me@example.com", user)
		assert.Equal(t, "secret", pass)
	})

	t.Run("whitespace-only token is rejected", func(t *testing.T) {
		t.Parallel()

		auth, method, err := jira.ResolveAuth(config.Credentials{Username: "me@example.com", Token: "   "})
		require.Error(t, err)
		assert.Nil(t, auth)
		assert.Empty(t, method)
	})

	t.Run("bearer token wins over basic credentials", func(t *testing.T) {
		t.Parallel()

		_, method, err := jira.ResolveAuth(config.Credentials{BearerToken: "pat", Username: "me@example.com", Token: "secret"})
		require.NoError(t, err)
		assert.Equal(t, "Bearer", method)
	})

	t.Run("credentials resolved from secret files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		tokenFile := filepath.Join(dir, "jira_token")
		testutils.MustWriteFile(t, tokenFile, "file-secret\n")
		credsPath := filepath.Join(dir, "jira_auth.json")
		testutils.MustWriteFile(t, credsPath, `{"username":"me@example.com","token":"file:`+tokenFile+`"}`)

		creds, err := config.LoadCredentials(credsPath)
		require.NoError(t, err)

		auth, method, err := jira.ResolveAuth(creds)
		require.NoError(t, err)
		assert.Equal(t, "Basic", method)

		req, _ := http.NewRequest("GET", "https://example.com", nil)
		auth(req)
		_, pass, ok := req.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "file-secret", pass)
	})

	t.Run("empty secret file leaves no usable auth", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		tokenFile := filepath.Join(dir, "jira_pat")
		testutils.MustWriteFile(t, tokenFile, "\n")
		credsPath := filepath.Join(dir, "jira_auth.json")
		testutils.MustWriteFile(t, credsPath, `{"bearerToken":"file:`+tokenFile+`"}`)

		creds, err := config.LoadCredentials(credsPath)
		require.NoError(t, err)

		_, _, err = jira.ResolveAuth(creds)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no valid auth method configured")
	})
}
