package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stageAdvances = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recruitment_stage_advances_total",
		Help: "Stage artifacts persisted by Advance, by stage",
	}, []string{"stage"})

	gateRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recruitment_gate_rejections_total",
		Help: "Stage and compliance gate failures, by stage",
	}, []string{"stage"})

	applicationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recruitment_application_transitions_total",
		Help: "Candidate application state changes",
	}, []string{"from", "to"})

	processTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recruitment_process_transitions_total",
		Help: "Recruitment process status changes",
	}, []string{"to"})
)
