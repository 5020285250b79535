package service

import (
	"time"

	"github.com/monsterhaven/battle-engine/internal/battle"
	"github.com/monsterhaven/battle-engine/internal/constants"
	"github.com/monsterhaven/battle-engine/internal/locks"
	"github.com/monsterhaven/battle-engine/internal/logging"
	"github.com/monsterhaven/battle-engine/internal/metrics"
)

// LifecycleRepo is the minimal repository interface required by the
// session lifecycle operations.
type LifecycleRepo interface {
	GetBattleByID(id uint) (*battle.Battle, error)
	UpdateBattle(b *battle.Battle) error
	DeleteBattleCascade(id uint) error
}

// CancelBattle moves an active battle into the cancelled terminal state.
// Cancelling a terminal battle fails with an invalid-state error.
func CancelBattle(repo LifecycleRepo, battleID uint) (*battle.Battle, error) {
	locks.Battles.Lock(battleID)
	defer locks.Battles.Unlock(battleID)

	b, err := repo.GetBattleByID(battleID)
	if err != nil {
		return nil, err
	}
	if err := b.Cancel(time.Now()); err != nil {
		return nil, err
	}
	if err := repo.UpdateBattle(b); err != nil {
		return nil, err
	}
	metrics.BattlesCompleted.WithLabelValues(string(battle.WinnerNone)).Inc()
	logging.Info("battle cancelled", logging.Fields{constants.LogFieldBattleID: battleID})
	return b, nil
}

// CleanupBattle deletes a terminal battle and everything it owns. Active
// battles are never deleted.
func CleanupBattle(repo LifecycleRepo, battleID uint) error {
	b, err := repo.GetBattleByID(battleID)
	if err != nil {
		return err
	}
	if !b.Status.Terminal() {
		return &battle.InvalidStateError{Entity: "battle session", Detail: "only completed or cancelled battles can be cleaned up"}
	}
	return repo.DeleteBattleCascade(battleID)
}
