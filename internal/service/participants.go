package service

import (
	"github.com/monsterhaven/battle-engine/internal/battle"
	"github.com/monsterhaven/battle-engine/internal/catalog"
)

// ParticipantRepo is the minimal repository interface required by the
// participant operations.
type ParticipantRepo interface {
	GetBattleByID(id uint) (*battle.Battle, error)
	AddParticipant(p *battle.Participant) error
	UpdateParticipant(p *battle.Participant) error
}

// AddParticipantParams describes an actor joining an existing battle.
type AddParticipantParams struct {
	Type          battle.ParticipantType
	TeamSide      battle.TeamSide
	DisplayName   string
	DiscordUserID string
	TrainerID     *uint
	// TurnOrder defaults to the end of the current sequence when nil.
	TurnOrder *int
	Slots     []NewSlot
}

// AddParticipant attaches a new participant (with its roster slots) to an
// active battle. The default turn order places it at the end of the
// existing cycle.
func AddParticipant(repo ParticipantRepo, cat *catalog.Catalog, battleID uint, p AddParticipantParams) (*battle.Participant, error) {
	b, err := repo.GetBattleByID(battleID)
	if err != nil {
		return nil, err
	}
	if b.Status != battle.StatusActive {
		return nil, &battle.InvalidStateError{Entity: "battle session", Detail: "cannot add a participant to a " + string(b.Status) + " battle"}
	}

	nextOrder := 1
	for i := range b.Participants {
		if b.Participants[i].TurnOrder >= nextOrder {
			nextOrder = b.Participants[i].TurnOrder + 1
		}
	}

	participant, err := buildParticipant(cat, NewParticipant{
		Type:          p.Type,
		TeamSide:      p.TeamSide,
		DisplayName:   p.DisplayName,
		DiscordUserID: p.DiscordUserID,
		TrainerID:     p.TrainerID,
		TurnOrder:     p.TurnOrder,
		Slots:         p.Slots,
	}, &nextOrder)
	if err != nil {
		return nil, err
	}
	participant.BattleID = b.ID

	if err := repo.AddParticipant(participant); err != nil {
		return nil, err
	}
	return participant, nil
}

// SetParticipantInactive removes a participant from the turn cycle. The
// cycle modulus is re-derived from active participants on every
// computation, so the change takes effect from the very next turn
// advancement.
func SetParticipantInactive(repo ParticipantRepo, battleID, participantID uint) (*battle.Participant, error) {
	b, err := repo.GetBattleByID(battleID)
	if err != nil {
		return nil, err
	}
	p := b.FindParticipant(participantID)
	if p == nil {
		return nil, &battle.NotFoundError{Entity: "battle participant", ID: participantID}
	}
	p.IsActive = false
	if err := repo.UpdateParticipant(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ActiveParticipants returns the battle's active participants in turn
// order. Pure derived read.
func ActiveParticipants(repo ParticipantRepo, battleID uint) ([]battle.Participant, error) {
	b, err := repo.GetBattleByID(battleID)
	if err != nil {
		return nil, err
	}
	active := b.ActiveParticipants()
	out := make([]battle.Participant, 0, len(active))
	for _, p := range active {
		out = append(out, *p)
	}
	return out, nil
}
