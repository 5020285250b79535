package storage

import (
	"time"

	"github.com/monsterhaven/battle-engine/internal/battle"
)

// TurnQuery filters and paginates ledger reads for one battle.
type TurnQuery struct {
	TurnNumber    *int
	ParticipantID *uint
	ActionType    battle.ActionType
	Limit         int
	Offset        int
}

// BattleStatistics are derived aggregates over the turn ledger, recomputed
// on demand and never cached.
type BattleStatistics struct {
	TotalTurns      int64   `json:"total_turns"`
	AttackTurns     int64   `json:"attack_turns"`
	ItemTurns       int64   `json:"item_turns"`
	SwitchTurns     int64   `json:"switch_turns"`
	FleeTurns       int64   `json:"flee_turns"`
	SkipTurns       int64   `json:"skip_turns"`
	TotalDamage     int64   `json:"total_damage"`
	TotalWords      int64   `json:"total_words"`
	AvgWordsPerTurn float64 `json:"avg_words_per_turn"`
}

type Repository interface {
	// CreateBattle persists the session together with its participants and
	// initial roster slots in one transaction.
	CreateBattle(b *battle.Battle) error
	GetBattleByID(id uint) (*battle.Battle, error)
	GetBattleByPublicID(publicID string) (*battle.Battle, error)
	UpdateBattle(b *battle.Battle) error
	// DeleteBattleCascade removes a terminal session and everything owned
	// by it (participants, roster slots, turn ledger).
	DeleteBattleCascade(id uint) error
	// FindExpiredTurnBattles returns active battles whose advisory turn
	// deadline passed. The sweeper decides what to do with them.
	FindExpiredTurnBattles(now time.Time) ([]battle.Battle, error)

	AddParticipant(p *battle.Participant) error
	GetParticipants(battleID uint) ([]battle.Participant, error)
	UpdateParticipant(p *battle.Participant) error

	GetRosterSlot(id uint) (*battle.RosterSlot, error)
	// MutateRosterSlot runs the read-modify-write for one slot inside a
	// single transaction so per-slot mutations cannot interleave.
	MutateRosterSlot(id uint, fn func(*battle.RosterSlot) error) (*battle.RosterSlot, error)

	// SaveResolvedTurn persists a mutated battle aggregate together with
	// the ledger row for the action that mutated it, in one transaction.
	SaveResolvedTurn(b *battle.Battle, t *battle.TurnLog) error

	// AppendTurn inserts one write-once ledger row. Rows are never updated.
	AppendTurn(t *battle.TurnLog) error
	GetTurnsByBattle(battleID uint, q TurnQuery) ([]battle.TurnLog, error)
	GetLatestTurn(battleID uint) (*battle.TurnLog, error)
	GetTurnsByParticipant(participantID uint) ([]battle.TurnLog, error)
	GetBattleStatistics(battleID uint) (*BattleStatistics, error)
}
