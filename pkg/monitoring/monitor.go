package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// QuestionsServed 按等级、来源(ai/fallback)和前端动作统计出题次数
	QuestionsServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deepcard_questions_served_total",
			Help: "Questions returned to players",
		},
		[]string{"level", "source", "action"},
	)

	FallbackReasons = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deepcard_fallback_total",
			Help: "Questions served from the static bank, by reason",
		},
		[]string{"reason"},
	)

	BankExhausted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deepcard_bank_exhausted_total",
			Help: "Fallback picks made after every bank question for the level was used",
		},
		[]string{"level"},
	)

	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deepcard_ai_request_duration_seconds",
			Help:    "Latency of language model calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"outcome"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "deepcard_sessions",
			Help: "Sessions currently held in memory",
		},
	)

	registerOnce sync.Once
)

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(QuestionsServed)
		prometheus.MustRegister(FallbackReasons)
		prometheus.MustRegister(BankExhausted)
		prometheus.MustRegister(AIRequestDuration)
		prometheus.MustRegister(ActiveSessions)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
