package jql_test

import (
	"testing"

	"github.com/gi8lino/deskkit/internal/jql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Expand(t *testing.T) {
	t.Parallel()

	t.Run("joins fragments", func(t *testing.T) {
		t.Parallel()

		e := jql.NewEngine(nil)
		out, err := e.Expand("{me} AND {unresolved}")
		require.NoError(t, err)
		assert.Equal(t, jql.DefaultFragments["me"]+" AND "+jql.DefaultFragments["unresolved"], out)
		assert.Equal(t, "assignee = currentUser() AND resolution = Unresolved", out)
	})

	t.Run("unknown fragment", func(t *testing.T) {
		t.Parallel()

		e := jql.NewEngine(nil)
		_, err := e.Expand("{unknown}")
		require.Error(t, err)

		var mErr *jql.MissingFragmentError
		require.ErrorAs(t, err, &mErr)
		assert.Equal(t, "unknown", mErr.Name)
		assert.EqualError(t, err, `unknown JQL fragment "unknown"`)
	})

	t.Run("fragments are not expanded recursively", func(t *testing.T) {
		t.Parallel()

		e := jql.NewEngine(map[string]string{"loop": "{loop} OR {me}"})
		out, err := e.Expand("{loop}")
		require.NoError(t, err)
		assert.Equal(t, "{loop} OR {me}", out)
	})

	t.Run("overrides replace defaults", func(t *testing.T) {
		t.Parallel()

		e := jql.NewEngine(map[string]string{"me": "assignee = bob"})
		out, err := e.Expand("{me}")
		require.NoError(t, err)
		assert.Equal(t, "assignee = bob", out)

		// DefaultFragments must stay untouched.
		assert.Equal(t, "assignee = currentUser()", jql.DefaultFragments["me"])
	})

	t.Run("template without placeholders", func(t *testing.T) {
		t.Parallel()

		e := jql.NewEngine(nil)
		out, err := e.Expand("project = ABC")
		require.NoError(t, err)
		assert.Equal(t, "project = ABC", out)
	})
}

func TestPresets(t *testing.T) {
	t.Parallel()

	t.Run("all presets expand with default fragments", func(t *testing.T) {
		t.Parallel()

		e := jql.NewEngine(nil)
		for name, tmpl := range jql.Presets {
			_, err := e.Expand(tmpl)
			assert.NoError(t, err, "preset %q", name)
		}
	})
}

func TestEngine_Names(t *testing.T) {
	t.Parallel()

	e := jql.NewEngine(map[string]string{"extra": "x"})
	assert.Equal(t, []string{"extra", "me", "related_me", "unresolved", "weekly_resolved"}, e.Names())

	f, ok := e.Fragment("extra")
	assert.True(t, ok)
	assert.Equal(t, "x", f)
}
