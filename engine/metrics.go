package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var reportsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sfrbot_reports_processed",
	Help: "Candidate reports processed, by outcome",
}, []string{"outcome"})

var statementsPublished = promauto.NewCounter(prometheus.CounterOpts{
	Name: "sfrbot_statements_published",
	Help: "Reward statements successfully published",
})

var statementFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sfrbot_statement_failures",
	Help: "Statement compositions that did not complete, by kind",
}, []string{"kind"})

var lowCapacityWarnings = promauto.NewCounter(prometheus.CounterOpts{
	Name: "sfrbot_low_capacity_warnings",
	Help: "Advisory events for shared-account voting power below the floor",
})

var replyWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "sfrbot_reply_wait_seconds",
	Help:    "Time spent waiting out the minimum reply interval",
	Buckets: prometheus.LinearBuckets(0, 2.5, 10),
})
