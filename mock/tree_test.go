package mock

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcticfox1919/gio"
)

func noop() http.Handler {
	return http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
}

func TestTree_StaticAndParams(t *testing.T) {
	tr := &tree{}
	require.NoError(t, tr.add("/users/:id", &leaf{handler: noop(), pattern: "/users/:id"}))
	require.NoError(t, tr.add("/users/:id/posts/:post", &leaf{handler: noop(), pattern: "/users/:id/posts/:post"}))
	require.NoError(t, tr.add("/ping", &leaf{handler: noop(), pattern: "/ping"}))

	tbl := []struct {
		path    string
		found   bool
		pattern string
		params  map[string]string
	}{
		{"/users/42", true, "/users/:id", map[string]string{"id": "42"}},
		{"/users/42/posts/7", true, "/users/:id/posts/:post", map[string]string{"id": "42", "post": "7"}},
		{"/ping", true, "/ping", nil},
		{"/users", false, "", nil},
		{"/users/42/posts", false, "", nil},
		{"/nothing", false, "", nil},
	}

	for _, tt := range tbl {
		t.Run(tt.path, func(t *testing.T) {
			m, ok := tr.lookup(tt.path)
			assert.Equal(t, tt.found, ok)
			if !tt.found {
				return
			}
			assert.Equal(t, tt.pattern, m.Pattern)
			assert.Equal(t, tt.params, m.Params)
		})
	}
}

func TestTree_CatchAll(t *testing.T) {
	tr := &tree{}
	require.NoError(t, tr.add("/files/*rest", &leaf{handler: noop(), pattern: "/files/*rest"}))

	m, ok := tr.lookup("/files/a/b/c")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"rest": "a/b/c"}, m.Params)

	m, ok = tr.lookup("/files/one")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"rest": "one"}, m.Params)

	_, ok = tr.lookup("/files")
	assert.False(t, ok, "catch-all needs at least one segment")
}

func TestTree_Specificity(t *testing.T) {
	tr := &tree{}
	require.NoError(t, tr.add("/users/:id", &leaf{handler: noop(), pattern: "/users/:id"}))
	require.NoError(t, tr.add("/users/me", &leaf{handler: noop(), pattern: "/users/me"}))
	require.NoError(t, tr.add("/users/*rest", &leaf{handler: noop(), pattern: "/users/*rest"}))

	m, ok := tr.lookup("/users/me")
	require.True(t, ok)
	assert.Equal(t, "/users/me", m.Pattern, "static wins over parameter")
	assert.Empty(t, m.Params)

	m, ok = tr.lookup("/users/42")
	require.True(t, ok)
	assert.Equal(t, "/users/:id", m.Pattern, "parameter wins over catch-all")

	// the parameter child won the branch at /users/42, its subtree has no
	// leaf for the extra segment and the catch-all sibling is not retried
	_, ok = tr.lookup("/users/42/extra")
	assert.False(t, ok)
}

func TestTree_Conflicts(t *testing.T) {
	tbl := []struct {
		name  string
		first string
		then  string
	}{
		{"param name clash", "/users/:id", "/users/:name"},
		{"catch-all name clash", "/files/*rest", "/files/*path"},
		{"duplicate static", "/ping", "/ping"},
		{"duplicate param", "/users/:id", "/users/:id"},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			tr := &tree{}
			require.NoError(t, tr.add(tt.first, &leaf{handler: noop(), pattern: tt.first}))
			err := tr.add(tt.then, &leaf{handler: noop(), pattern: tt.then})
			require.Error(t, err)
			var ce *gio.ConfigError
			assert.ErrorAs(t, err, &ce, "registration conflicts are configuration errors")
		})
	}
}

func TestTree_BadPatterns(t *testing.T) {
	tbl := []string{
		"",
		"users/42",
		"/files/*rest/more", // catch-all not last
		"/users/:",
		"/files/*",
	}

	for _, pattern := range tbl {
		t.Run(pattern, func(t *testing.T) {
			tr := &tree{}
			err := tr.add(pattern, &leaf{handler: noop(), pattern: pattern})
			require.Error(t, err)
			var ce *gio.ConfigError
			assert.ErrorAs(t, err, &ce)
		})
	}
}

func TestTree_RootPath(t *testing.T) {
	tr := &tree{}
	require.NoError(t, tr.add("/", &leaf{handler: noop(), pattern: "/"}))

	m, ok := tr.lookup("/")
	require.True(t, ok)
	assert.Equal(t, "/", m.Pattern)
}

func TestTree_NoBacktracking(t *testing.T) {
	// static child matches but its subtree has no leaf for the remaining
	// segments, the parameter sibling is not retried
	tr := &tree{}
	require.NoError(t, tr.add("/a/static/deep", &leaf{handler: noop(), pattern: "/a/static/deep"}))
	require.NoError(t, tr.add("/a/:p/other", &leaf{handler: noop(), pattern: "/a/:p/other"}))

	_, ok := tr.lookup("/a/static/other")
	assert.False(t, ok, "descent is linear, no fallback to the param sibling")

	m, ok := tr.lookup("/a/else/other")
	require.True(t, ok)
	assert.Equal(t, "/a/:p/other", m.Pattern)
}
