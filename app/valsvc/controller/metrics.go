package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	validationRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "congressx",
		Subsystem: "valsvc",
		Name:      "validation_runs_total",
		Help:      "Suite runs by table and outcome.",
	}, []string{"table", "outcome"})

	promotionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "congressx",
		Subsystem: "valsvc",
		Name:      "promotions_total",
		Help:      "Promotion attempts by table and outcome.",
	}, []string{"table", "outcome"})
)

func observeValidation(table string, success bool) {
	validationRunsTotal.WithLabelValues(table, outcome(success)).Inc()
}

func observePromotion(table string, success bool) {
	promotionsTotal.WithLabelValues(table, outcome(success)).Inc()
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
