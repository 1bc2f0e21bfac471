package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// QueryDuration 按操作与表统计 SQL 耗时
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "snapshare",
			Name:      "db_query_duration_seconds",
			Help:      "Latency of statements issued through gorm",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op", "table"},
	)
	// QueryErrors 失败的语句，不含 record not found
	QueryErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snapshare",
			Name:      "db_query_errors_total",
			Help:      "Total number of failed statements",
		},
		[]string{"op", "table"},
	)
	// ConstraintRejections 被存储层约束拒绝的写入
	ConstraintRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snapshare",
			Name:      "constraint_rejections_total",
			Help:      "Total number of writes rejected by a storage constraint",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(QueryErrors)
	prometheus.MustRegister(ConstraintRejections)
}
