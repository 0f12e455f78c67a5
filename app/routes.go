package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arcticfox1919/gio/mock"
)

// route is one mocked endpoint definition from the routes file, i.e.
//
//	- method: GET
//	  path: /users/:id
//	  status: 200
//	  headers: {Content-Type: application/json}
//	  body: '{"name": "test"}'
//	  delay: 100ms
type route struct {
	Method  string            `yaml:"method"`
	Path    string            `yaml:"path"`
	Status  int               `yaml:"status"`
	Headers map[string]string `yaml:"headers"`
	Body    string            `yaml:"body"`
	Delay   delay             `yaml:"delay"`
}

// delay wraps time.Duration, yaml.v3 has no native decoding for "100ms"
// style values.
type delay struct {
	time.Duration
}

func (d *delay) UnmarshalYAML(n *yaml.Node) error {
	v, err := time.ParseDuration(n.Value)
	if err != nil {
		return fmt.Errorf("can't parse delay %q: %w", n.Value, err)
	}
	d.Duration = v
	return nil
}

var allowedMethods = map[string]struct{}{
	http.MethodGet: {}, http.MethodPost: {}, http.MethodPut: {}, http.MethodDelete: {},
	http.MethodPatch: {}, http.MethodHead: {}, http.MethodOptions: {},
}

// loadRoutes reads and validates the routes file. Bad methods and patterns
// are rejected here, before the server starts serving.
func loadRoutes(fname string) ([]route, error) {
	fh, err := os.Open(fname) // nolint gosec
	if err != nil {
		return nil, fmt.Errorf("can't open %s: %w", fname, err)
	}
	defer fh.Close()

	var routes []route
	if err = yaml.NewDecoder(fh).Decode(&routes); err != nil {
		return nil, fmt.Errorf("can't parse %s: %w", fname, err)
	}

	for i, r := range routes {
		method := strings.ToUpper(r.Method)
		if _, ok := allowedMethods[method]; !ok {
			return nil, fmt.Errorf("route %d: unsupported method %q", i, r.Method)
		}
		routes[i].Method = method
		if r.Path == "" || !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("route %d: invalid path %q", i, r.Path)
		}
		if r.Status == 0 {
			routes[i].Status = http.StatusOK
		}
	}
	return routes, nil
}

// registerRoutes puts the loaded definitions on the router. Registration
// conflicts surface here as errors, not later at dispatch.
func registerRoutes(router *mock.Router, routes []route) error {
	for _, r := range routes {
		if err := router.Handle(r.Method, r.Path, makeRouteHandler(r)); err != nil {
			return err
		}
	}
	return nil
}

func makeRouteHandler(r route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if r.Delay.Duration > 0 {
			select {
			case <-time.After(r.Delay.Duration):
			case <-req.Context().Done():
				return
			}
		}
		for k, v := range r.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(r.Status)
		_, _ = w.Write([]byte(r.Body))
	})
}
