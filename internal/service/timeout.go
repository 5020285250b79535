package service

import (
	"time"

	"github.com/monsterhaven/battle-engine/internal/battle"
	"github.com/monsterhaven/battle-engine/internal/constants"
	"github.com/monsterhaven/battle-engine/internal/engine"
	"github.com/monsterhaven/battle-engine/internal/logging"
	"github.com/monsterhaven/battle-engine/internal/metrics"
)

// HandleExpiredTurn injects a synthetic skip for the participant whose
// turn outlived the advisory time limit. The skip funnels through the
// same SubmitAction path as player actions, so it consumes the turn
// counter and advances the cycle exactly like a submitted skip.
func HandleExpiredTurn(repo BattleRepo, b *battle.Battle, now time.Time, policy RetryPolicy) error {
	if !b.TurnExpired(now) {
		return nil
	}
	current := b.ParticipantAt(b.CurrentParticipantIndex)
	if current == nil {
		logging.Warn("expired turn has no current participant", logging.Fields{constants.LogFieldBattleID: b.ID})
		return nil
	}

	act := engine.Action{
		ParticipantID: current.ID,
		Type:          battle.ActionSkip,
		Data:          battle.JSONMap{"reason": "turn_timeout"},
	}
	_, _, err := SubmitAction(repo, b.ID, act, policy)
	if err != nil {
		// A state rejection means someone resolved the turn between the
		// scan and the injection; nothing left to do.
		if battle.IsInvalidState(err) || battle.IsConflict(err) {
			return nil
		}
		return err
	}
	metrics.ExpiredTurnsSkipped.Inc()
	logging.Info("expired turn force-skipped", logging.Fields{
		constants.LogFieldBattleID:      b.ID,
		constants.LogFieldParticipantID: current.ID,
		constants.LogFieldTurn:          b.CurrentTurn,
	})
	return nil
}
