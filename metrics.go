package webtrack

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webtrack_events_sent_total",
		Help: "Total number of envelopes acknowledged with a 200 response, labelled by event type.",
	}, []string{"type"})

	eventsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webtrack_events_failed_total",
		Help: "Total number of envelopes that failed delivery, labelled by event type.",
	}, []string{"type"})
)
