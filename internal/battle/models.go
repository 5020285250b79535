package battle

import (
	"time"

	"gorm.io/gorm"
)

// BattleStatus is the lifecycle state of a battle session. A battle is
// created active and moves exactly once into a terminal state.
type BattleStatus string

const (
	StatusActive    BattleStatus = "active"
	StatusCompleted BattleStatus = "completed"
	StatusCancelled BattleStatus = "cancelled"
)

// Terminal reports whether no further transitions are allowed.
func (s BattleStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// WinnerType identifies which side won a completed battle.
type WinnerType string

const (
	WinnerNone      WinnerType = ""
	WinnerPlayers   WinnerType = "players"
	WinnerOpponents WinnerType = "opponents"
	WinnerDraw      WinnerType = "draw"
)

// TeamSide assigns a participant to one of the two battle teams.
type TeamSide string

const (
	TeamPlayers   TeamSide = "players"
	TeamOpponents TeamSide = "opponents"
)

// Valid reports whether the side is one of the two known teams.
func (t TeamSide) Valid() bool { return t == TeamPlayers || t == TeamOpponents }

// Opposite returns the other team.
func (t TeamSide) Opposite() TeamSide {
	if t == TeamPlayers {
		return TeamOpponents
	}
	return TeamPlayers
}

// ParticipantType describes what kind of actor controls a side.
type ParticipantType string

const (
	ParticipantPlayer ParticipantType = "player"
	ParticipantNPC    ParticipantType = "npc"
	ParticipantWild   ParticipantType = "wild"
)

func (p ParticipantType) Valid() bool {
	switch p {
	case ParticipantPlayer, ParticipantNPC, ParticipantWild:
		return true
	}
	return false
}

// ActionType is a resolved battle action recorded in the turn ledger.
type ActionType string

const (
	ActionAttack ActionType = "attack"
	ActionItem   ActionType = "item"
	ActionSwitch ActionType = "switch"
	ActionFlee   ActionType = "flee"
	ActionSkip   ActionType = "skip"
)

func (a ActionType) Valid() bool {
	switch a {
	case ActionAttack, ActionItem, ActionSwitch, ActionFlee, ActionSkip:
		return true
	}
	return false
}

// JSONMap is a free-form JSON object column (engine scratch data and
// turn-log payloads).
type JSONMap map[string]interface{}

// MonsterSnapshot is the immutable copy of a monster's catalog stats taken
// when its roster slot is created. Later edits to the catalog entry never
// leak into a running battle.
type MonsterSnapshot struct {
	Name      string   `json:"name"`
	Species   string   `json:"species"`
	Types     []string `json:"types,omitempty"`
	Level     int      `json:"level"`
	Moves     []string `json:"moves,omitempty"`
	HP        int      `json:"hp"`
	Attack    int      `json:"attack"`
	Defense   int      `json:"defense"`
	SpAttack  int      `json:"sp_attack"`
	SpDefense int      `json:"sp_defense"`
	Speed     int      `json:"speed"`
}

// StatusEffect is one entry in a roster slot's ordered effect list.
// Duration is informational metadata; the slot never expires effects on
// its own — pruning is the turn-resolution caller's call.
type StatusEffect struct {
	Type      string    `json:"type"`
	AppliedAt time.Time `json:"applied_at"`
	Duration  *int      `json:"duration,omitempty"`
}

// StatusEffectList is stored as a JSON column on the roster slot.
type StatusEffectList []StatusEffect

// Battle is the root aggregate for one battle session. It owns the turn
// counter, the active-participant pointer and the win state.
type Battle struct {
	gorm.Model
	// PublicID is the external reference handed to chat/HTTP callers.
	PublicID    string `json:"public_id" gorm:"uniqueIndex;size:36"`
	AdventureID *uint  `json:"adventure_id"`
	EncounterID *uint  `json:"encounter_id"`
	BattleType  string `json:"battle_type"`

	Status                  BattleStatus `json:"status" gorm:"index"`
	CurrentTurn             int          `json:"current_turn"`
	CurrentParticipantIndex int          `json:"current_participant_index"`
	// TurnTimeLimit is advisory, in seconds. Zero means no limit.
	TurnTimeLimit int        `json:"turn_time_limit"`
	TurnStartedAt *time.Time `json:"turn_started_at"`
	WinnerType    WinnerType `json:"winner_type"`
	BattleData    JSONMap    `json:"battle_data" gorm:"serializer:json"`

	CreatedBy   string     `json:"created_by"`
	CompletedAt *time.Time `json:"completed_at"`

	Participants []Participant `json:"participants"`
}

func (Battle) TableName() string { return "battle_sessions" }

// Participant is one side's actor in a battle, owned by exactly one
// session. TurnOrder defines its position in the round-robin cycle.
type Participant struct {
	gorm.Model
	BattleID        uint            `json:"-" gorm:"index"`
	ParticipantType ParticipantType `json:"participant_type"`
	DiscordUserID   string          `json:"discord_user_id"`
	TrainerID       *uint           `json:"trainer_id"`
	DisplayName     string          `json:"display_name"`
	TeamSide        TeamSide        `json:"team_side"`
	TurnOrder       int             `json:"turn_order"`
	IsActive        bool            `json:"is_active"`

	// Engagement telemetry only; never feeds battle rules.
	MessageCount int `json:"message_count"`
	WordCount    int `json:"word_count"`

	Slots []RosterSlot `json:"slots" gorm:"foreignKey:ParticipantID"`
}

func (Participant) TableName() string { return "battle_participants" }

// RosterSlot is a monster's battle-scoped combat record, distinct from its
// persistent catalog entry.
type RosterSlot struct {
	gorm.Model
	BattleID      uint `json:"-" gorm:"index"`
	ParticipantID uint `json:"participant_id" gorm:"index"`
	MonsterID     uint `json:"monster_id"`

	MonsterData   MonsterSnapshot  `json:"monster_data" gorm:"serializer:json"`
	CurrentHP     int              `json:"current_hp"`
	MaxHP         int              `json:"max_hp"`
	StatusEffects StatusEffectList `json:"status_effects" gorm:"serializer:json"`
	PositionIndex int              `json:"position_index"`
	IsActive      bool             `json:"is_active"`
	IsFainted     bool             `json:"is_fainted"`
}

func (RosterSlot) TableName() string { return "battle_roster_slots" }

// TurnLog is one immutable row of the append-only action ledger. Rows are
// write-once; the engine never updates or reorders them.
type TurnLog struct {
	gorm.Model
	BattleID      uint       `json:"-" gorm:"index"`
	TurnNumber    int        `json:"turn_number"`
	ParticipantID *uint      `json:"participant_id"`
	SlotID        *uint      `json:"slot_id"`
	ActionType    ActionType `json:"action_type"`
	ActionData    JSONMap    `json:"action_data" gorm:"serializer:json"`
	ResultData    JSONMap    `json:"result_data" gorm:"serializer:json"`
	DamageDealt   int        `json:"damage_dealt"`

	MessageContent string `json:"message_content"`
	WordCount      int    `json:"word_count"`
}

func (TurnLog) TableName() string { return "battle_turns" }
