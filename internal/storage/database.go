package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/monsterhaven/battle-engine/internal/battle"
)

// OpenAndMigrate opens (or creates) the SQLite database and keeps the
// schema current via AutoMigrate. The busy timeout makes concurrent
// writers queue briefly instead of failing immediately; writes that still
// lose the race surface as ConflictError and are retried by the service.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName+"?_busy_timeout=5000"), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&battle.Battle{},
		&battle.Participant{},
		&battle.RosterSlot{},
		&battle.TurnLog{},
	); err != nil {
		return nil, err
	}

	// Composite index backing the chronological ledger reads and the
	// latest-turn lookup.
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_battle_turns_battle_turn ON battle_turns(battle_id, turn_number);").Error; err != nil {
		return nil, err
	}
	return db, nil
}
