// Package engine implements the turn scheduler: the one place where a
// resolved action mutates roster slots, the derived team-elimination rule
// is re-checked and the turn pointer advances, as a single logical
// operation over a loaded battle aggregate. Callers are responsible for
// running Resolve inside the per-battle critical section and persisting
// the mutated aggregate atomically.
package engine

import (
	"time"

	"github.com/monsterhaven/battle-engine/internal/battle"
)

// Action is one resolved action submitted for the current turn. Damage and
// heal amounts arrive pre-computed; balancing the formulas that produce
// them is not the engine's business.
type Action struct {
	ParticipantID uint
	Type          battle.ActionType

	// TargetSlotID names the attacked slot, the healed slot or the slot
	// switching in, depending on the action type.
	TargetSlotID uint
	Damage       int
	HealAmount   int

	// RP message attached to the action, kept for the ledger and
	// engagement telemetry.
	Message   string
	WordCount int

	Data battle.JSONMap
}

// Result reports everything a single action resolution produced.
type Result struct {
	TurnNumber int
	Damage     *battle.DamageResult
	Heal       *battle.HealResult

	BattleEnded bool
	Winner      battle.WinnerType
	// NextParticipant is set when the battle continues.
	NextParticipant *battle.Participant

	// Turn is the ledger row describing this resolution, not yet persisted.
	Turn battle.TurnLog
}

// Resolve applies one action to the battle aggregate: it mutates the
// relevant roster slots, re-checks team elimination and either completes
// the session or starts the next turn for the next active participant.
func Resolve(b *battle.Battle, act Action, now time.Time) (*Result, error) {
	if b.Status != battle.StatusActive {
		return nil, &battle.InvalidStateError{Entity: "battle session", Detail: "cannot resolve an action on a " + string(b.Status) + " battle"}
	}
	if !act.Type.Valid() {
		return nil, &battle.ValidationError{Field: "action type", Detail: "unknown action type " + string(act.Type)}
	}

	actor := b.FindParticipant(act.ParticipantID)
	if actor == nil {
		return nil, &battle.NotFoundError{Entity: "battle participant", ID: act.ParticipantID}
	}
	current := b.ParticipantAt(b.CurrentParticipantIndex)
	if current == nil || current.ID != actor.ID {
		return nil, &battle.InvalidStateError{Entity: "battle session", Detail: "it is not this participant's turn"}
	}

	res := &Result{TurnNumber: b.CurrentTurn}
	resultData := battle.JSONMap{}

	switch act.Type {
	case battle.ActionAttack:
		target := b.FindSlot(act.TargetSlotID)
		if target == nil {
			return nil, &battle.NotFoundError{Entity: "roster slot", ID: act.TargetSlotID}
		}
		owner := b.FindParticipant(target.ParticipantID)
		if owner == nil || owner.TeamSide == actor.TeamSide {
			return nil, &battle.ValidationError{Field: "target slot", Detail: "attack target must belong to the opposing team"}
		}
		if target.IsFainted {
			return nil, &battle.InvalidStateError{Entity: "roster slot", Detail: "cannot attack a fainted monster"}
		}
		dmg, err := target.ApplyDamage(act.Damage)
		if err != nil {
			return nil, err
		}
		res.Damage = &dmg
		resultData["hp_before"] = dmg.HPBefore
		resultData["hp_after"] = dmg.HPAfter
		resultData["fainted"] = dmg.Fainted

	case battle.ActionItem:
		target := b.FindSlot(act.TargetSlotID)
		if target == nil {
			return nil, &battle.NotFoundError{Entity: "roster slot", ID: act.TargetSlotID}
		}
		heal, err := target.ApplyHeal(act.HealAmount)
		if err != nil {
			return nil, err
		}
		res.Heal = &heal
		resultData["hp_before"] = heal.HPBefore
		resultData["hp_after"] = heal.HPAfter
		resultData["heal_amount"] = heal.HealAmount
		resultData["revived"] = heal.Revived

	case battle.ActionSwitch:
		incoming := b.FindSlot(act.TargetSlotID)
		if incoming == nil {
			return nil, &battle.NotFoundError{Entity: "roster slot", ID: act.TargetSlotID}
		}
		if incoming.ParticipantID != actor.ID {
			return nil, &battle.ValidationError{Field: "target slot", Detail: "switch target must belong to the acting participant"}
		}
		if incoming.IsFainted {
			return nil, &battle.InvalidStateError{Entity: "roster slot", Detail: "cannot switch in a fainted monster"}
		}
		for i := range actor.Slots {
			if actor.Slots[i].IsActive && actor.Slots[i].ID != incoming.ID {
				actor.Slots[i].IsActive = false
			}
		}
		incoming.IsActive = true
		resultData["switched_in"] = incoming.ID

	case battle.ActionFlee:
		// Fleeing removes the participant from the cycle. It never decides a
		// winner; a battle left with no active participants is cancelled.
		actor.IsActive = false
		resultData["fled"] = true

	case battle.ActionSkip:
		resultData["skipped"] = true
	}

	actor.MessageCount++
	actor.WordCount += act.WordCount

	turnNumber := b.CurrentTurn
	pid := actor.ID
	res.Turn = battle.TurnLog{
		BattleID:       b.ID,
		TurnNumber:     turnNumber,
		ParticipantID:  &pid,
		ActionType:     act.Type,
		ActionData:     act.Data,
		ResultData:     resultData,
		MessageContent: act.Message,
		WordCount:      act.WordCount,
	}
	if act.TargetSlotID != 0 {
		sid := act.TargetSlotID
		res.Turn.SlotID = &sid
	}
	if res.Damage != nil {
		res.Turn.DamageDealt = res.Damage.DamageDealt
	}

	if winner, ended := b.EliminationWinner(); ended {
		if err := b.Complete(winner, now); err != nil {
			return nil, err
		}
		res.BattleEnded = true
		res.Winner = winner
		return res, nil
	}

	nextIdx, next, ok := b.NextActiveIndex(b.CurrentParticipantIndex)
	if !ok {
		// Everyone fled or was deactivated. No team was eliminated, so
		// there is no winner to declare.
		if err := b.Cancel(now); err != nil {
			return nil, err
		}
		res.BattleEnded = true
		res.Winner = battle.WinnerNone
		return res, nil
	}
	if err := b.StartNextTurn(nextIdx, now); err != nil {
		return nil, err
	}
	res.NextParticipant = next
	return res, nil
}
