package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DispatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_dispatch_requests_total",
			Help: "Total number of dispatched user turns by classified intent",
		},
		[]string{"intent"},
	)

	AdapterErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_adapter_errors_total",
			Help: "Total number of collaborator adapter failures",
		},
		[]string{"adapter", "error_code"},
	)

	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_dispatch_duration_seconds",
			Help: "Duration of intent dispatch in seconds",
		},
		[]string{"intent"},
	)

	StreamedChunks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_llm_streamed_chunks_total",
			Help: "Total number of streamed LLM delta chunks delivered",
		},
	)
)
