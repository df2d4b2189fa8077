package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inventory"

type Metrics struct {
	registry     *prometheus.Registry
	httpReqCnt   *prometheus.CounterVec
	httpDur      *prometheus.HistogramVec
	sweepRuns    *prometheus.CounterVec
	sweepUpdated prometheus.Counter
	transfers    prometheus.Counter
}

func New() *Metrics {
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Buckets: prometheus.DefBuckets}, []string{"method", "route", "status"})
	sweepRuns := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "expiry_sweep_runs_total"}, []string{"source", "result"})
	sweepUpdated := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "expiry_sweep_assets_updated_total"})
	transfers := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "asset_transfers_total"})
	r.MustRegister(httpReqCnt, httpDur, sweepRuns, sweepUpdated, transfers)

	return &Metrics{
		registry:     r,
		httpReqCnt:   httpReqCnt,
		httpDur:      httpDur,
		sweepRuns:    sweepRuns,
		sweepUpdated: sweepUpdated,
		transfers:    transfers,
	}
}

// SweepDone records one expiry sweep. Safe on a nil receiver.
func (m *Metrics) SweepDone(source string, affected int64, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.sweepRuns.WithLabelValues(source, result).Inc()
	if affected > 0 {
		m.sweepUpdated.Add(float64(affected))
	}
}

// TransferRecorded counts a committed transfer. Safe on a nil receiver.
func (m *Metrics) TransferRecorded() {
	if m == nil {
		return
	}
	m.transfers.Inc()
}

func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		route := c.Route().Path
		if route == "" {
			route = c.Path()
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		code := strconv.Itoa(status)
		m.httpReqCnt.WithLabelValues(c.Method(), route, code).Inc()
		m.httpDur.WithLabelValues(c.Method(), route, code).Observe(time.Since(start).Seconds())
		return err
	}
}

func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
