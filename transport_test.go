package gio

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransport_RoundTrip(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, `{"k":"v"}`, string(body))

		w.Header().Set("X-Resp", "yes")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}))
	defer ts.Close()

	c := New(WithRegistry(NewRegistry()))
	defer c.Close()

	resp, err := c.Post(context.Background(), ts.URL+"/things", map[string]string{"k": "v"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "yes", resp.Header.Get("X-Resp"))

	body, err := resp.String()
	require.NoError(t, err)
	assert.Equal(t, "created", body)
}

func TestHTTPTransport_Form(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		_, _ = w.Write([]byte(r.PostForm.Get("user")))
	}))
	defer ts.Close()

	c := New(WithRegistry(NewRegistry()))
	defer c.Close()

	resp, err := c.PostForm(context.Background(), ts.URL, url.Values{"user": []string{"bob"}})
	require.NoError(t, err)
	body, err := resp.String()
	require.NoError(t, err)
	assert.Equal(t, "bob", body)
}

func TestHTTPTransport_ConnectionError(t *testing.T) {
	tr := NewHTTPTransport(nil)
	req, err := NewRequest("GET", "http://127.0.0.1:1/unreachable")
	require.NoError(t, err)

	_, err = tr.Send(context.Background(), req)
	require.Error(t, err)
	var te *TransportError
	assert.ErrorAs(t, err, &te)
}

func TestResponse_Helpers(t *testing.T) {
	req, err := NewRequest("GET", "http://example.com/")
	require.NoError(t, err)

	resp := NewResponse(http.StatusOK, nil, []byte(`{"name":"bob"}`), req)
	assert.True(t, resp.OK())

	var v struct {
		Name string `json:"name"`
	}
	require.NoError(t, resp.JSON(&v))
	assert.Equal(t, "bob", v.Name)

	// repeated reads are fine on materialized responses
	b, err := resp.Bytes()
	require.NoError(t, err)
	b2, err := resp.Bytes()
	require.NoError(t, err)
	assert.Equal(t, b, b2)
	assert.Same(t, req, resp.Request)
}

func TestRequest_Clone(t *testing.T) {
	req, err := NewRequest("get", "http://example.com/a?x=1")
	require.NoError(t, err)
	assert.Equal(t, "GET", req.Method, "method normalized")

	req.Header.Set("X-One", "1")
	req.SetValue("k", 42)

	cp := req.Clone()
	cp.Header.Set("X-One", "2")
	cp.SetValue("k", 43)

	assert.Equal(t, "1", req.Header.Get("X-One"))
	assert.Equal(t, 42, req.Value("k"))
	assert.Equal(t, "2", cp.Header.Get("X-One"))
	assert.Equal(t, 43, cp.Value("k"))
}
