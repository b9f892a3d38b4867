// Package observability provides Prometheus metrics and OpenTelemetry tracing
// for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedAssemblyQueries counts the aggregate sub-queries issued per feed
	// assembly, labeled by kind (likes, comments, liked_set, avatars). The
	// per-page total must stay constant regardless of page size.
	FeedAssemblyQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gardencircle_feed_assembly_queries_total",
		Help: "Total aggregate sub-queries issued by the feed assembler, by kind",
	}, []string{"kind"})

	// FeedAssemblyLatency records end-to-end feed page assembly latency.
	FeedAssemblyLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gardencircle_feed_assembly_latency_seconds",
		Help:    "Feed page assembly latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// NewsFetchTotal counts syndication runs by outcome.
	NewsFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gardencircle_news_fetch_total",
		Help: "Total RSS syndication runs by outcome",
	}, []string{"outcome"})

	// AssistantRequests counts assistant exchanges by outcome.
	AssistantRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gardencircle_assistant_requests_total",
		Help: "Total assistant chat requests by outcome",
	}, []string{"outcome"})

	// ImageUploads counts object-storage uploads by outcome.
	ImageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gardencircle_image_uploads_total",
		Help: "Total image uploads by outcome",
	}, []string{"outcome"})
)

// ObserveFeedAssembly records one assembled feed page: its latency and the
// aggregate queries it issued.
func ObserveFeedAssembly(start time.Time, kinds ...string) {
	FeedAssemblyLatency.Observe(time.Since(start).Seconds())
	CountFeedQueries(kinds...)
}

// CountFeedQueries increments the per-kind aggregate query counters without
// touching the latency histogram.
func CountFeedQueries(kinds ...string) {
	for _, k := range kinds {
		FeedAssemblyQueries.WithLabelValues(k).Inc()
	}
}
