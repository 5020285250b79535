package service

import (
	"github.com/google/uuid"

	"github.com/monsterhaven/battle-engine/internal/battle"
	"github.com/monsterhaven/battle-engine/internal/catalog"
)

// CreateRepo is the minimal repository interface required by CreateBattle.
type CreateRepo interface {
	CreateBattle(b *battle.Battle) error
}

// NewSlot describes one monster entering a battle. Either Species (looked
// up in the catalog) or an explicit Snapshot must be provided; the
// snapshot is frozen at creation and external edits never leak in.
type NewSlot struct {
	MonsterID   uint
	DisplayName string
	Species     string
	Level       int
	Snapshot    *battle.MonsterSnapshot
}

// NewParticipant describes one side's actor joining at battle creation.
type NewParticipant struct {
	Type          battle.ParticipantType
	TeamSide      battle.TeamSide
	DisplayName   string
	DiscordUserID string
	TrainerID     *uint
	// TurnOrder defaults to the end of the sequence when nil.
	TurnOrder *int
	Slots     []NewSlot
}

// CreateBattleParams carries everything needed to open a session.
type CreateBattleParams struct {
	BattleType    string
	AdventureID   *uint
	EncounterID   *uint
	CreatedBy     string
	TurnTimeLimit int
	Participants  []NewParticipant
}

// CreateBattle validates the request and persists the new session, its
// participants and their initial roster slots in a single transaction.
// The session starts active on turn zero.
func CreateBattle(repo CreateRepo, cat *catalog.Catalog, p CreateBattleParams) (*battle.Battle, error) {
	if p.BattleType == "" {
		return nil, &battle.ValidationError{Field: "battle type", Detail: "must not be empty"}
	}
	if p.TurnTimeLimit < 0 {
		return nil, &battle.ValidationError{Field: "turn time limit", Detail: "must not be negative"}
	}

	b := &battle.Battle{
		PublicID:      uuid.NewString(),
		AdventureID:   p.AdventureID,
		EncounterID:   p.EncounterID,
		BattleType:    p.BattleType,
		Status:        battle.StatusActive,
		TurnTimeLimit: p.TurnTimeLimit,
		CreatedBy:     p.CreatedBy,
		BattleData:    battle.JSONMap{},
	}

	nextOrder := 1
	for _, np := range p.Participants {
		participant, err := buildParticipant(cat, np, &nextOrder)
		if err != nil {
			return nil, err
		}
		b.Participants = append(b.Participants, *participant)
	}

	if err := repo.CreateBattle(b); err != nil {
		return nil, err
	}
	return b, nil
}

func buildParticipant(cat *catalog.Catalog, np NewParticipant, nextOrder *int) (*battle.Participant, error) {
	if !np.Type.Valid() {
		return nil, &battle.ValidationError{Field: "participant type", Detail: "must be player, npc or wild"}
	}
	if !np.TeamSide.Valid() {
		return nil, &battle.ValidationError{Field: "team side", Detail: "participant is missing a team assignment"}
	}

	order := *nextOrder
	if np.TurnOrder != nil {
		order = *np.TurnOrder
	}
	if order >= *nextOrder {
		*nextOrder = order + 1
	}

	participant := &battle.Participant{
		ParticipantType: np.Type,
		DiscordUserID:   np.DiscordUserID,
		TrainerID:       np.TrainerID,
		DisplayName:     np.DisplayName,
		TeamSide:        np.TeamSide,
		TurnOrder:       order,
		IsActive:        true,
	}

	for i, ns := range np.Slots {
		slot, err := buildSlot(cat, ns, i)
		if err != nil {
			return nil, err
		}
		participant.Slots = append(participant.Slots, *slot)
	}
	return participant, nil
}

func buildSlot(cat *catalog.Catalog, ns NewSlot, position int) (*battle.RosterSlot, error) {
	var snap battle.MonsterSnapshot
	switch {
	case ns.Snapshot != nil:
		snap = *ns.Snapshot
	case ns.Species != "":
		if cat == nil {
			return nil, &battle.ValidationError{Field: "species", Detail: "no catalog available to resolve species " + ns.Species}
		}
		sp, ok := cat.Lookup(ns.Species)
		if !ok {
			return nil, &battle.ValidationError{Field: "species", Detail: "unknown species " + ns.Species}
		}
		snap = sp.Snapshot(ns.DisplayName, ns.Level)
	default:
		return nil, &battle.ValidationError{Field: "roster slot", Detail: "either a species or a stat snapshot is required"}
	}
	if snap.HP <= 0 {
		return nil, &battle.ValidationError{Field: "roster slot", Detail: "max HP must be positive"}
	}

	return &battle.RosterSlot{
		MonsterID:     ns.MonsterID,
		MonsterData:   snap,
		CurrentHP:     snap.HP,
		MaxHP:         snap.HP,
		StatusEffects: battle.StatusEffectList{},
		PositionIndex: position,
		// The first monster of each participant starts in combat.
		IsActive: position == 0,
	}, nil
}
