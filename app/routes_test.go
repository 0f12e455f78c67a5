package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcticfox1919/gio/mock"
)

func writeRoutesFile(t *testing.T, content string) string {
	fname := filepath.Join(t.TempDir(), "routes.yml")
	require.NoError(t, os.WriteFile(fname, []byte(content), 0o600))
	return fname
}

func TestLoadRoutes(t *testing.T) {
	fname := writeRoutesFile(t, `
- method: get
  path: /users/:id
  status: 200
  headers:
    Content-Type: application/json
  body: '{"name": "test"}'
- method: POST
  path: /users
  status: 201
  delay: 10ms
`)

	routes, err := loadRoutes(fname)
	require.NoError(t, err)
	require.Len(t, routes, 2)

	assert.Equal(t, "GET", routes[0].Method, "method normalized")
	assert.Equal(t, "/users/:id", routes[0].Path)
	assert.Equal(t, 200, routes[0].Status)
	assert.Equal(t, "application/json", routes[0].Headers["Content-Type"])

	assert.Equal(t, "POST", routes[1].Method)
	assert.Equal(t, 201, routes[1].Status)
	assert.Equal(t, 10*time.Millisecond, routes[1].Delay.Duration)
}

func TestLoadRoutes_DefaultStatus(t *testing.T) {
	fname := writeRoutesFile(t, "- {method: GET, path: /ok}\n")
	routes, err := loadRoutes(fname)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, routes[0].Status)
}

func TestLoadRoutes_Failed(t *testing.T) {
	tbl := []struct {
		name    string
		content string
	}{
		{"bad method", "- {method: BREW, path: /x}\n"},
		{"empty path", "- {method: GET, path: ''}\n"},
		{"relative path", "- {method: GET, path: x/y}\n"},
		{"not yaml", "]][[\n"},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadRoutes(writeRoutesFile(t, tt.content))
			require.Error(t, err)
		})
	}

	_, err := loadRoutes("/tmp/no-such-file-12345.yml")
	require.Error(t, err)
}

func TestRegisterRoutes_Serves(t *testing.T) {
	fname := writeRoutesFile(t, `
- method: GET
  path: /users/:id
  status: 200
  headers:
    Content-Type: application/json
  body: '{"name": "test"}'
`)
	routes, err := loadRoutes(fname)
	require.NoError(t, err)

	router := mock.NewRouter()
	require.NoError(t, registerRoutes(router, routes))

	ts := httptest.NewServer(mock.NewServer(router, log.Default()))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/users/42")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"name": "test"}`, string(body))

	resp, err = http.Get(ts.URL + "/unknown")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterRoutes_Conflict(t *testing.T) {
	routes := []route{
		{Method: "GET", Path: "/users/:id", Status: 200},
		{Method: "GET", Path: "/users/:name", Status: 200},
	}
	err := registerRoutes(mock.NewRouter(), routes)
	require.Error(t, err, "conflicting patterns rejected at registration")
}
