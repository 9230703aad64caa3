package monitoring

import (
	"strconv"
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

	// ProviderLookupCounter 外部视频元数据查询计数（provider: youtube/vimeo/file, outcome: hit/miss/error）
	ProviderLookupCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrich_provider_lookups_total",
			Help: "Total number of external video metadata lookups",
		},
		[]string{"provider", "outcome"},
	)

	// DurationCacheCounter 时长缓存命中统计
	DurationCacheCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrich_duration_cache_total",
			Help: "Duration cache hits and misses",
		},
		[]string{"outcome"},
	)

	// QuotaUnitsUsed 当日已消耗的YouTube配额单位
	QuotaUnitsUsed = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "enrich_youtube_quota_units_used",
			Help: "YouTube API quota units used today",
		},
	)

	// RecalcJobCounter 课程时长重算任务计数
	RecalcJobCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrich_recalc_jobs_total",
			Help: "Course duration recalculation jobs",
		},
		[]string{"trigger"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(ProviderLookupCounter)
	prometheus.MustRegister(DurationCacheCounter)
	prometheus.MustRegister(QuotaUnitsUsed)
	prometheus.MustRegister(RecalcJobCounter)
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
