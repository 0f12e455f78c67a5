package gio

import (
	"context"
	"strconv"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is an interceptor publishing prometheus counters for calls passing
// through it. Position in the pipeline decides what it sees; added as a
// global interceptor it observes every client's calls.
type Metrics struct {
	totalCalls   *prometheus.CounterVec
	callStatus   *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
}

// NewMetrics creates the metrics interceptor with all counters registered on
// the given registerer, prometheus.DefaultRegisterer for nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	res := &Metrics{}

	res.totalCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gio_client_calls_total",
			Help: "Number of issued calls.",
		},
		[]string{"method"},
	)

	res.callStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gio_client_call_status",
			Help: "Status of completed calls.",
		},
		[]string{"status"},
	)

	res.callDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gio_client_call_seconds",
		Help:    "Duration of calls.",
		Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 3, 5},
	}, []string{"host"})

	if err := reg.Register(res.totalCalls); err != nil {
		log.Printf("[WARN] can't register prometheus totalCalls, %v", err)
	}
	if err := reg.Register(res.callStatus); err != nil {
		log.Printf("[WARN] can't register prometheus callStatus, %v", err)
	}
	if err := reg.Register(res.callDuration); err != nil {
		log.Printf("[WARN] can't register prometheus callDuration, %v", err)
	}

	return res
}

// Intercept counts the call and times the rest of the pipeline. Failed calls
// are counted under status "error".
func (m *Metrics) Intercept(ctx context.Context, ch *Chain) (*Response, error) {
	req := ch.Request()
	m.totalCalls.WithLabelValues(req.Method).Inc()

	st := time.Now()
	resp, err := ch.Proceed(ctx, req)
	m.callDuration.WithLabelValues(req.URL.Hostname()).Observe(time.Since(st).Seconds())

	if err != nil {
		m.callStatus.WithLabelValues("error").Inc()
		return resp, err
	}
	m.callStatus.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}
