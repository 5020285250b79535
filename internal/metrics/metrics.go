package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActionsResolved counts resolved battle actions by action type.
	ActionsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "battle_actions_resolved_total",
		Help: "Resolved battle actions, labeled by action type.",
	}, []string{"action_type"})

	// BattlesCompleted counts terminal transitions by winner type.
	BattlesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "battles_completed_total",
		Help: "Battles reaching a terminal state, labeled by winner type.",
	}, []string{"winner_type"})

	// ConflictRetries counts turn resolutions retried after losing a
	// write race.
	ConflictRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "battle_turn_conflict_retries_total",
		Help: "Turn resolutions retried due to conflicting concurrent writes.",
	})

	// ExpiredTurnsSkipped counts synthetic skips injected by the sweeper.
	ExpiredTurnsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "battle_expired_turns_skipped_total",
		Help: "Turns force-skipped after the advisory time limit elapsed.",
	})
)
