package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the reservation engine's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	holdsPlaced       prometheus.Counter
	holdConflicts     prometheus.Counter
	holdsReleased     prometheus.Counter
	sweptHolds        prometheus.Counter
	sweepFailures     prometheus.Counter
	bookingsFinalized *prometheus.CounterVec
	finalizeConflicts prometheus.Counter
	httpDuration      *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		holdsPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cinephoria", Name: "holds_placed_total",
			Help: "Seat holds successfully placed.",
		}),
		holdConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cinephoria", Name: "hold_conflicts_total",
			Help: "Hold attempts rejected because the seat was taken.",
		}),
		holdsReleased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cinephoria", Name: "holds_released_total",
			Help: "Holds removed by explicit release.",
		}),
		sweptHolds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cinephoria", Name: "holds_swept_total",
			Help: "Expired holds deleted by the sweeper.",
		}),
		sweepFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cinephoria", Name: "sweep_failures_total",
			Help: "Sweeps that failed and aborted the calling operation.",
		}),
		bookingsFinalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cinephoria", Name: "bookings_finalized_total",
			Help: "Finalize calls that returned a booking, by whether the order was already processed.",
		}, []string{"replayed"}),
		finalizeConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cinephoria", Name: "finalize_conflicts_total",
			Help: "Finalize calls aborted because a seat was already booked or held by someone else.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cinephoria", Name: "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.holdsPlaced, m.holdConflicts, m.holdsReleased, m.sweptHolds, m.sweepFailures,
		m.bookingsFinalized, m.finalizeConflicts, m.httpDuration,
	)
	return m
}

func (m *Metrics) HoldPlaced() {
	if m != nil {
		m.holdsPlaced.Inc()
	}
}

func (m *Metrics) HoldConflict() {
	if m != nil {
		m.holdConflicts.Inc()
	}
}

func (m *Metrics) HoldsReleased(n int64) {
	if m != nil && n > 0 {
		m.holdsReleased.Add(float64(n))
	}
}

func (m *Metrics) HoldsSwept(n int64) {
	if m != nil && n > 0 {
		m.sweptHolds.Add(float64(n))
	}
}

func (m *Metrics) SweepFailed() {
	if m != nil {
		m.sweepFailures.Inc()
	}
}

func (m *Metrics) BookingFinalized(replayed bool) {
	if m != nil {
		m.bookingsFinalized.WithLabelValues(strconv.FormatBool(replayed)).Inc()
	}
}

func (m *Metrics) FinalizeConflict() {
	if m != nil {
		m.finalizeConflicts.Inc()
	}
}

// Middleware records request latency by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
