// Package services – Prometheus instrumentation of the lifecycle engine.
//
// Labels are bounded: op is one of the engine operations and outcome one of
// applied, merged or noop. Census gauges are labelled by table name.
package services

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
)

var (
	// workTransitions counts engine operations by outcome.
	workTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorship_work_transitions_total",
			Help: "Work lifecycle operations by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	// censusRows mirrors the last census taken.
	censusRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mentorship_rows",
			Help: "Row counts of the main tables at the last census.",
		},
		[]string{"table"},
	)
)

func init() {
	prometheus.MustRegister(workTransitions, censusRows)
}

func observe(op string, status Status) {
	workTransitions.WithLabelValues(op, string(status)).Inc()
}

func publishCensus(c domain.Census) {
	censusRows.WithLabelValues("subjects").Set(float64(c.Subjects))
	censusRows.WithLabelValues("students").Set(float64(c.Students))
	censusRows.WithLabelValues("mentors").Set(float64(c.Mentors))
	censusRows.WithLabelValues("pending_works").Set(float64(c.Pending))
	censusRows.WithLabelValues("accepted_works").Set(float64(c.Accepted))
	censusRows.WithLabelValues("ideas").Set(float64(c.Ideas))
	censusRows.WithLabelValues("support_requests").Set(float64(c.OpenRequests))
}
