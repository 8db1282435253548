// Package metrics provides the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SourceChecksTotal counts completed source check runs.
	SourceChecksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "veille",
			Name:      "source_checks_total",
			Help:      "Total number of completed source check runs",
		},
	)

	// SummariesCreatedTotal counts created summaries by origin.
	SummariesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "veille",
			Name:      "summaries_created_total",
			Help:      "Total number of summaries created",
		},
		[]string{"origin"},
	)

	// ArticlesCompiledTotal counts compiled articles.
	ArticlesCompiledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "veille",
			Name:      "articles_compiled_total",
			Help:      "Total number of articles compiled from summaries",
		},
	)

	// LLMFailuresTotal counts model calls that returned an error.
	LLMFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "veille",
			Name:      "llm_failures_total",
			Help:      "Total number of failed LLM calls",
		},
	)
)

// Origin labels for SummariesCreatedTotal.
const (
	OriginCheck  = "check"
	OriginManual = "manual"
)
