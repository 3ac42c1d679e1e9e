package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	StudentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "studentapi", Name: "students_created_total", Help: "Number of student records created."},
	)
	StudentsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "studentapi", Name: "students_deleted_total", Help: "Number of student records deleted."},
	)
	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "studentapi", Name: "list_cache_hits_total", Help: "Student list requests served from the Redis cache."},
	)
	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "studentapi", Name: "list_cache_misses_total", Help: "Student list requests that fell through to the store."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "studentapi", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "studentapi", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(StudentsCreated, StudentsDeleted, CacheHits, CacheMisses, RateLimitAllowed, RateLimitRejected)
}
