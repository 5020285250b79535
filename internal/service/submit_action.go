package service

import (
	"time"

	"github.com/monsterhaven/battle-engine/internal/battle"
	"github.com/monsterhaven/battle-engine/internal/constants"
	"github.com/monsterhaven/battle-engine/internal/engine"
	"github.com/monsterhaven/battle-engine/internal/locks"
	"github.com/monsterhaven/battle-engine/internal/logging"
	"github.com/monsterhaven/battle-engine/internal/metrics"
)

// BattleRepo is the minimal repository interface required by SubmitAction.
type BattleRepo interface {
	GetBattleByID(id uint) (*battle.Battle, error)
	SaveResolvedTurn(b *battle.Battle, t *battle.TurnLog) error
}

// RetryPolicy bounds how often a conflicting turn resolution is retried
// before it is surfaced to the caller.
type RetryPolicy struct {
	Retries int
	Backoff time.Duration
}

// DefaultRetryPolicy matches the config defaults.
var DefaultRetryPolicy = RetryPolicy{Retries: 3, Backoff: 50 * time.Millisecond}

// SubmitAction resolves one action for a battle: it enters the per-battle
// critical section, loads the aggregate, runs the scheduler and persists
// the mutated aggregate together with the ledger row in one transaction.
// Lost write races are retried per policy, then surfaced as a conflict.
func SubmitAction(repo BattleRepo, battleID uint, act engine.Action, policy RetryPolicy) (*battle.Battle, *engine.Result, error) {
	locks.Battles.Lock(battleID)
	defer locks.Battles.Unlock(battleID)

	if policy.Retries < 1 {
		policy.Retries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= policy.Retries; attempt++ {
		b, err := repo.GetBattleByID(battleID)
		if err != nil {
			return nil, nil, err
		}

		res, err := engine.Resolve(b, act, time.Now())
		if err != nil {
			// Domain rejections are final; only storage conflicts retry.
			return nil, nil, err
		}

		if err := repo.SaveResolvedTurn(b, &res.Turn); err != nil {
			if battle.IsConflict(err) {
				lastErr = err
				metrics.ConflictRetries.Inc()
				logging.Warn("turn resolution conflicted, retrying", logging.Fields{
					constants.LogFieldBattleID: battleID,
					constants.LogFieldAttempt:  attempt,
				})
				time.Sleep(policy.Backoff * time.Duration(attempt))
				continue
			}
			return nil, nil, err
		}

		metrics.ActionsResolved.WithLabelValues(string(act.Type)).Inc()
		if res.BattleEnded {
			metrics.BattlesCompleted.WithLabelValues(string(res.Winner)).Inc()
			logging.Info("battle ended", logging.Fields{
				constants.LogFieldBattleID: battleID,
				constants.LogFieldWinner:   string(res.Winner),
			})
		}
		return b, res, nil
	}

	return nil, nil, &battle.ConflictError{BattleID: battleID, Detail: "turn already resolved, refresh: " + lastErr.Error()}
}
