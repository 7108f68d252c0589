package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// MQ 消费延迟（毫秒）
	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)

	// 慢查询计数
	SlowQueryCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_slow_query_total",
			Help: "Number of queries slower than the configured threshold",
		},
		[]string{"statement"},
	)

	SlowQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "db_slow_query_duration_seconds",
			Help:    "Duration of slow queries in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8), // 100ms to ~12.8s
		},
	)

	// 写入的通知数量
	NotificationsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_written_total",
			Help: "Total number of notification documents written",
		},
		[]string{"audience"}, // audience: users, admins
	)

	// 每次扇出的接收人数
	FanOutRecipients = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notification_fanout_recipients",
			Help:    "Unique recipients notified per fan-out",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	// 外部投递调用延迟（毫秒）
	DeliveryCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "delivery_call_latency_ms",
			Help:    "Push/email endpoint call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10),
		},
		[]string{"channel", "status"},
	)
)

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordMQConsumeLatency 记录 MQ 消费延迟
func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}

// IncrementSlowQuery 记录一次慢查询
func IncrementSlowQuery(statement string, duration time.Duration) {
	SlowQueryCount.WithLabelValues(statement).Inc()
	SlowQueryDuration.Observe(duration.Seconds())
}

// AddNotificationsWritten 增加写入通知计数
func AddNotificationsWritten(audience string, n int) {
	NotificationsWritten.WithLabelValues(audience).Add(float64(n))
}

// ObserveFanOut 记录一次扇出的接收人数
func ObserveFanOut(recipients int) {
	FanOutRecipients.Observe(float64(recipients))
}

// RecordDeliveryCall 记录推送 / 邮件调用延迟
func RecordDeliveryCall(channel, status string, duration time.Duration) {
	DeliveryCallLatency.WithLabelValues(channel, status).Observe(float64(duration.Milliseconds()))
}
