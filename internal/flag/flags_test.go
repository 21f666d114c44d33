package flag_test

import (
	"strings"
	"testing"

	"github.com/gi8lino/deskkit/internal/flag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockGetEnv keeps DESKKIT_* variables from the test environment out of the way.
func mockGetEnv(key string) string {
	return ""
}

func TestParseArgs(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		var out strings.Builder
		cfg, err := flag.ParseArgs("v1.2.3", []string{"me"}, &out, mockGetEnv)
		require.NoError(t, err)

		assert.Equal(t, "config.yaml", cfg.Config)
		assert.Equal(t, "get", cfg.Method)
		assert.Equal(t, "text", string(cfg.LogFormat))
		assert.False(t, cfg.Debug)
		assert.False(t, cfg.Raw)
		assert.False(t, cfg.All)
		assert.True(t, cfg.Inline)
		assert.Empty(t, cfg.PathParams)
		assert.Equal(t, "me", cfg.Command)
		assert.Empty(t, cfg.Args)
	})

	t.Run("command with arguments", func(t *testing.T) {
		t.Parallel()

		args := []string{
			"--config=/etc/deskkit.yaml",
			"--raw",
			"--path-param=issueIdOrKey=OPS-1",
			"--path-param=commentId=7",
			"api", "get", "/rest/api/3/issue/{issueIdOrKey}", "expand&=names",
		}
		var out strings.Builder

		cfg, err := flag.ParseArgs("1.0.0", args, &out, mockGetEnv)
		require.NoError(t, err)
		assert.Equal(t, "/etc/deskkit.yaml", cfg.Config)
		assert.True(t, cfg.Raw)
		assert.Equal(t, map[string]string{"issueIdOrKey": "OPS-1", "commentId": "7"}, cfg.PathParams)
		assert.Equal(t, "api", cfg.Command)
		assert.Equal(t, []string{"get", "/rest/api/3/issue/{issueIdOrKey}", "expand&=names"}, cfg.Args)
	})

	t.Run("search options", func(t *testing.T) {
		t.Parallel()

		args := []string{"--method=post", "--all", "--log-format=json", "--debug", "search", "{me}"}
		var out strings.Builder

		cfg, err := flag.ParseArgs("1.0.0", args, &out, mockGetEnv)
		require.NoError(t, err)
		assert.Equal(t, "post", cfg.Method)
		assert.True(t, cfg.All)
		assert.True(t, cfg.Debug)
		assert.Equal(t, "json", string(cfg.LogFormat))
	})

	t.Run("tokens after the command are not flags", func(t *testing.T) {
		t.Parallel()

		var out strings.Builder
		cfg, err := flag.ParseArgs("1.0.0", []string{"-c", "/etc/deskkit.yaml", "search", "resolved", ">=", "-1w", "--raw"}, &out, mockGetEnv)
		require.NoError(t, err)
		assert.Equal(t, "/etc/deskkit.yaml", cfg.Config)
		assert.False(t, cfg.Raw)
		assert.Equal(t, "search", cfg.Command)
		assert.Equal(t, []string{"resolved", ">=", "-1w", "--raw"}, cfg.Args)
	})

	t.Run("value flag consumes the next token", func(t *testing.T) {
		t.Parallel()

		var out strings.Builder
		cfg, err := flag.ParseArgs("1.0.0", []string{"--path-param", "issueIdOrKey=OPS-1", "--method", "post", "api"}, &out, mockGetEnv)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"issueIdOrKey": "OPS-1"}, cfg.PathParams)
		assert.Equal(t, "post", cfg.Method)
		assert.Equal(t, "api", cfg.Command)
		assert.Empty(t, cfg.Args)
	})

	t.Run("double dash ends the flags", func(t *testing.T) {
		t.Parallel()

		var out strings.Builder
		cfg, err := flag.ParseArgs("1.0.0", []string{"--debug", "--", "search", "--all"}, &out, mockGetEnv)
		require.NoError(t, err)
		assert.True(t, cfg.Debug)
		assert.False(t, cfg.All)
		assert.Equal(t, "search", cfg.Command)
		assert.Equal(t, []string{"--all"}, cfg.Args)
	})

	t.Run("unknown flag before the command", func(t *testing.T) {
		t.Parallel()

		var out strings.Builder
		_, err := flag.ParseArgs("1.0.0", []string{"-1w", "search"}, &out, mockGetEnv)
		require.Error(t, err)
		assert.EqualError(t, err, "unknown short flag: -1")
	})

	t.Run("invalid log format", func(t *testing.T) {
		t.Parallel()

		var out strings.Builder
		_, err := flag.ParseArgs("0.0.1", []string{"--log-format=xml", "me"}, &out, mockGetEnv)
		require.Error(t, err)
	})

	t.Run("invalid path param", func(t *testing.T) {
		t.Parallel()

		var out strings.Builder
		_, err := flag.ParseArgs("0.0.1", []string{"--path-param=nokey", "api"}, &out, mockGetEnv)
		require.Error(t, err)
		assert.EqualError(t, err, `invalid --path-param "nokey": expected KEY=VALUE`)
	})

	t.Run("missing command", func(t *testing.T) {
		t.Parallel()

		var out strings.Builder
		_, err := flag.ParseArgs("0.0.1", []string{"--debug"}, &out, mockGetEnv)
		assert.EqualError(t, err, "missing command")
	})

	t.Run("reads env with prefix", func(t *testing.T) {
		t.Parallel()

		env := func(key string) string {
			if key == "DESKKIT_CONFIG" {
				return "/from/env.yaml"
			}
			return ""
		}
		var out strings.Builder

		cfg, err := flag.ParseArgs("0.0.1", []string{"endpoints"}, &out, env)
		require.NoError(t, err)
		assert.Equal(t, "/from/env.yaml", cfg.Config)
	})
}
