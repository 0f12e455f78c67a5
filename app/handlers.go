package main

import (
	"io"
	"net/http"
	"strings"

	tollbooth "github.com/didip/tollbooth/v7"
	log "github.com/go-pkgz/lgr"
	"github.com/gorilla/handlers"
)

func passThroughHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
	})
}

func makeAccessLogHandler(wr io.Writer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return handlers.CombinedLoggingHandler(wr, next)
	}
}

func stdoutLogHandler(enable bool, lh func(next http.Handler) http.Handler) func(next http.Handler) http.Handler {
	if !enable {
		return passThroughHandler
	}
	log.Printf("[DEBUG] stdout logging enabled")
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			// don't log GET /ping requests
			if r.Method == "GET" && strings.HasSuffix(r.URL.Path, "/ping") {
				next.ServeHTTP(w, r)
				return
			}
			lh(next).ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

func gzipHandler(enabled bool) func(next http.Handler) http.Handler {
	if !enabled {
		return passThroughHandler
	}
	log.Printf("[DEBUG] gzip enabled")
	return handlers.CompressHandler
}

// throttleHandler limits overall request rate with tollbooth. A very basic
// setup, see https://github.com/didip/tollbooth#features for more options.
func throttleHandler(enabled bool, rate, burst int) func(next http.Handler) http.Handler {
	if !enabled {
		return passThroughHandler
	}
	log.Printf("[DEBUG] throttling enabled, %d req/s burst %d", rate, burst)
	lmt := tollbooth.NewLimiter(float64(rate), nil).
		SetBurst(burst).
		SetStatusCode(http.StatusTooManyRequests).
		SetMessage("Request rate limit exceeded, please retry later").
		SetMessageContentType("text/plain")
	return func(next http.Handler) http.Handler {
		return tollbooth.LimitHandler(lmt, next)
	}
}
