package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 聚合网关的 Prometheus 指标。
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AliasesAllocated    prometheus.Counter
	AliasesDeleted      prometheus.Counter
	AllocationConflicts prometheus.Counter

	MailForwarded prometheus.Counter
	MailRejected  prometheus.Counter
}

// NewMetrics 创建并注册到独立注册表。
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.NewRegistry())
}

// NewMetricsWith 创建并注册到指定注册表，测试用独立注册表避免重复注册。
func NewMetricsWith(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aliasgate_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aliasgate_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		AliasesAllocated: factory.NewCounter(prometheus.CounterOpts{
			Name: "aliasgate_aliases_allocated_total",
			Help: "Total number of aliases allocated",
		}),
		AliasesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "aliasgate_aliases_deleted_total",
			Help: "Total number of alias delete requests",
		}),
		AllocationConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "aliasgate_allocation_conflicts_total",
			Help: "Total number of alias allocation name conflicts",
		}),
		MailForwarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "aliasgate_mail_forwarded_total",
			Help: "Total number of messages forwarded to targets",
		}),
		MailRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "aliasgate_mail_rejected_total",
			Help: "Total number of messages rejected at RCPT",
		}),
	}
}

// Handler 返回 /metrics 的 HTTP 处理器，服务本实例的注册表。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
