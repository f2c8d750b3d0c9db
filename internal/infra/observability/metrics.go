// Package observability defines the Prometheus metrics for the progression
// engine. Metrics are registered on the default registry via promauto and
// exposed by the API server at /metrics when enabled.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Progression Metrics ────────────────────────────────────────────────────

var (
	// SessionsStarted counts timer starts.
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyquest_sessions_started_total",
		Help: "Number of study sessions started.",
	})

	// SessionsStopped counts successful timer stops (reward applied).
	SessionsStopped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyquest_sessions_stopped_total",
		Help: "Number of study sessions stopped with rewards applied.",
	})

	// ActiveSessions tracks the registry size.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "studyquest_active_sessions",
		Help: "Number of currently running study sessions.",
	})

	// StudyMinutes accumulates rewarded study time.
	StudyMinutes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyquest_study_minutes_total",
		Help: "Total study minutes credited at session stop.",
	})

	// ExperienceGranted accumulates bonus-scaled experience.
	ExperienceGranted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyquest_experience_granted_total",
		Help: "Total experience points granted.",
	})

	// CoinsGranted accumulates bonus-scaled coins from study rewards.
	CoinsGranted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyquest_coins_granted_total",
		Help: "Total coins granted from study rewards.",
	})

	// LevelUps counts stop results where the character's level rose.
	LevelUps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyquest_level_ups_total",
		Help: "Number of level-ups produced by session stops.",
	})

	// StopRetries counts persistence retries during stop.
	StopRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyquest_stop_retries_total",
		Help: "Number of retried stop-reward transactions.",
	})
)
