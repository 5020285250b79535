package service

import (
	"strconv"

	"github.com/monsterhaven/battle-engine/internal/dedupe"
	"github.com/monsterhaven/battle-engine/internal/storage"
)

// StatsRepo is the minimal repository interface required by the derived
// statistics read.
type StatsRepo interface {
	GetBattleStatistics(battleID uint) (*storage.BattleStatistics, error)
}

// BattleStatistics recomputes the ledger aggregates for one battle.
// Concurrent requests for the same battle share a single computation.
func BattleStatistics(repo StatsRepo, battleID uint) (*storage.BattleStatistics, error) {
	v, err, _ := dedupe.StatsGroup.Do(strconv.FormatUint(uint64(battleID), 10), func() (interface{}, error) {
		return repo.GetBattleStatistics(battleID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*storage.BattleStatistics), nil
}
