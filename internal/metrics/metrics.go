package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EndpointResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "endpoint_responses_total",
		Help: "The total number of endpoint responses",
	}, []string{"endpoint", "status_code"})

	// Benchmark metrics
	MultiplyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gemm_multiply_duration_ms",
		Help:    "Duration of one matrix multiplication in milliseconds",
		Buckets: prometheus.ExponentialBuckets(1, 2, 15), // 1ms to ~32s
	})

	MatrixOrder = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gemm_matrix_order",
		Help: "Matrix order of the current benchmark run",
	})

	LastGFLOPS = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gemm_last_gflops",
		Help: "Throughput of the last multiply iteration in GFLOPS",
	})

	Iterations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gemm_iterations_total",
		Help: "Total multiply iterations by comparison result",
	}, []string{"result"})

	BackendRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gemm_backend_runs_total",
		Help: "Total benchmark runs by compute backend",
	}, []string{"backend"})
)
