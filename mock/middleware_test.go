package mock

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcticfox1919/gio"
)

func TestHeaders(t *testing.T) {
	r := NewRouter()
	require.NoError(t, r.Get("/whoami", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(req.Header.Get("X-Real-Ip")))
	}, Headers("X-Real-Ip:10.0.0.1", "bad")))

	srv := NewServer(r, nil)
	c := gio.New(gio.WithDispatcher(srv), gio.WithRegistry(gio.NewRegistry()))

	resp, err := c.Get(context.Background(), "http://mock.local/whoami")
	require.NoError(t, err)
	body, err := resp.String()
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", body, "injected request header visible to the handler")
}

func TestResponseHeaders(t *testing.T) {
	r := NewRouter()
	require.NoError(t, r.Get("/x", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, ResponseHeaders("Cache-Control:no-store", "X-Mock:true")))

	srv := NewServer(r, nil)
	c := gio.New(gio.WithDispatcher(srv), gio.WithRegistry(gio.NewRegistry()))

	resp, err := c.Get(context.Background(), "http://mock.local/x")
	require.NoError(t, err)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "true", resp.Header.Get("X-Mock"))
}
