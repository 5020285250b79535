package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/monsterhaven/battle-engine/internal/battle"
)

// twoTeams builds a loaded aggregate: participant 1 (players) with an
// active monster and a reserve, participant 2 (opponents) with one
// monster. Participant 1 holds the current turn.
func twoTeams() *battle.Battle {
	started := time.Now()
	return &battle.Battle{
		Model:                   gorm.Model{ID: 7},
		Status:                  battle.StatusActive,
		CurrentTurn:             0,
		CurrentParticipantIndex: 0,
		TurnStartedAt:           &started,
		Participants: []battle.Participant{
			{Model: gorm.Model{ID: 1}, DisplayName: "Ash", TeamSide: battle.TeamPlayers, TurnOrder: 1, IsActive: true, Slots: []battle.RosterSlot{
				{Model: gorm.Model{ID: 11}, ParticipantID: 1, CurrentHP: 50, MaxHP: 50, IsActive: true},
				{Model: gorm.Model{ID: 12}, ParticipantID: 1, CurrentHP: 40, MaxHP: 40},
			}},
			{Model: gorm.Model{ID: 2}, DisplayName: "Rival", TeamSide: battle.TeamOpponents, TurnOrder: 2, IsActive: true, Slots: []battle.RosterSlot{
				{Model: gorm.Model{ID: 21}, ParticipantID: 2, CurrentHP: 50, MaxHP: 50, IsActive: true},
			}},
		},
	}
}

func TestResolve_AttackAdvancesTurn(t *testing.T) {
	b := twoTeams()

	res, err := Resolve(b, Action{ParticipantID: 1, Type: battle.ActionAttack, TargetSlotID: 21, Damage: 20, Message: "Thunderbolt!", WordCount: 1}, time.Now())
	require.NoError(t, err)

	require.Equal(t, 30, b.FindSlot(21).CurrentHP)
	require.NotNil(t, res.Damage)
	require.Equal(t, 30, res.Damage.HPAfter)
	require.False(t, res.BattleEnded)

	require.Equal(t, 0, res.TurnNumber, "the ledger row carries the turn that was resolved")
	require.Equal(t, 1, b.CurrentTurn)
	require.NotNil(t, res.NextParticipant)
	require.Equal(t, uint(2), res.NextParticipant.ID)

	require.Equal(t, battle.ActionAttack, res.Turn.ActionType)
	require.Equal(t, 20, res.Turn.DamageDealt)
	require.Equal(t, uint(1), *res.Turn.ParticipantID)
	require.Equal(t, uint(21), *res.Turn.SlotID)
	require.Equal(t, "Thunderbolt!", res.Turn.MessageContent)
}

func TestResolve_KnockoutCompletesBattle(t *testing.T) {
	b := twoTeams()

	res, err := Resolve(b, Action{ParticipantID: 1, Type: battle.ActionAttack, TargetSlotID: 21, Damage: 50}, time.Now())
	require.NoError(t, err)

	require.True(t, res.BattleEnded)
	require.Equal(t, battle.WinnerPlayers, res.Winner)
	require.Equal(t, battle.StatusCompleted, b.Status)
	require.NotNil(t, b.CompletedAt)
	require.True(t, b.FindSlot(21).IsFainted)
	require.Nil(t, res.NextParticipant)
}

func TestResolve_RejectsOutOfTurnActor(t *testing.T) {
	b := twoTeams()

	_, err := Resolve(b, Action{ParticipantID: 2, Type: battle.ActionAttack, TargetSlotID: 11, Damage: 10}, time.Now())
	require.True(t, battle.IsInvalidState(err))
	require.Equal(t, 0, b.CurrentTurn, "a rejected action must not consume the turn")
	require.Equal(t, 50, b.FindSlot(11).CurrentHP)
}

func TestResolve_RejectsFriendlyFire(t *testing.T) {
	b := twoTeams()

	_, err := Resolve(b, Action{ParticipantID: 1, Type: battle.ActionAttack, TargetSlotID: 12, Damage: 10}, time.Now())
	require.True(t, battle.IsValidation(err))
}

func TestResolve_RejectsAttackOnFaintedTarget(t *testing.T) {
	b := twoTeams()
	slot := b.FindSlot(21)
	slot.CurrentHP = 0
	slot.IsFainted = true
	// Keep a reserve alive so the team is not eliminated yet.
	b.Participants[1].Slots = append(b.Participants[1].Slots, battle.RosterSlot{
		Model: gorm.Model{ID: 22}, ParticipantID: 2, CurrentHP: 30, MaxHP: 30,
	})

	_, err := Resolve(b, Action{ParticipantID: 1, Type: battle.ActionAttack, TargetSlotID: 21, Damage: 10}, time.Now())
	require.True(t, battle.IsInvalidState(err))
}

func TestResolve_ItemHealsOwnReserve(t *testing.T) {
	b := twoTeams()
	reserve := b.FindSlot(12)
	reserve.CurrentHP = 0
	reserve.IsFainted = true

	res, err := Resolve(b, Action{ParticipantID: 1, Type: battle.ActionItem, TargetSlotID: 12, HealAmount: 25}, time.Now())
	require.NoError(t, err)

	require.NotNil(t, res.Heal)
	require.True(t, res.Heal.Revived)
	require.Equal(t, 25, reserve.CurrentHP)
	require.False(t, reserve.IsFainted)
	require.False(t, reserve.IsActive, "revival does not put the monster back into combat")
	require.Equal(t, 1, b.CurrentTurn)
}

func TestResolve_SwitchSwapsActiveSlot(t *testing.T) {
	b := twoTeams()

	res, err := Resolve(b, Action{ParticipantID: 1, Type: battle.ActionSwitch, TargetSlotID: 12}, time.Now())
	require.NoError(t, err)

	require.False(t, b.FindSlot(11).IsActive)
	require.True(t, b.FindSlot(12).IsActive)
	require.Equal(t, 1, b.CurrentTurn, "a switch consumes the turn")
	require.Equal(t, uint(2), res.NextParticipant.ID)
}

func TestResolve_SwitchRejectsOpposingSlot(t *testing.T) {
	b := twoTeams()
	_, err := Resolve(b, Action{ParticipantID: 1, Type: battle.ActionSwitch, TargetSlotID: 21}, time.Now())
	require.True(t, battle.IsValidation(err))
}

func TestResolve_SwitchRejectsFaintedSlot(t *testing.T) {
	b := twoTeams()
	b.FindSlot(12).IsFainted = true
	_, err := Resolve(b, Action{ParticipantID: 1, Type: battle.ActionSwitch, TargetSlotID: 12}, time.Now())
	require.True(t, battle.IsInvalidState(err))
}

func TestResolve_FleeLeavesCycleWithoutWinner(t *testing.T) {
	b := twoTeams()

	res, err := Resolve(b, Action{ParticipantID: 1, Type: battle.ActionFlee}, time.Now())
	require.NoError(t, err)
	require.False(t, b.Participants[0].IsActive)
	require.False(t, res.BattleEnded, "one side fleeing leaves the other to act")
	require.Equal(t, uint(2), res.NextParticipant.ID)

	// The last participant fleeing leaves nobody to act: the battle is
	// cancelled, not won.
	res, err = Resolve(b, Action{ParticipantID: 2, Type: battle.ActionFlee}, time.Now())
	require.NoError(t, err)
	require.True(t, res.BattleEnded)
	require.Equal(t, battle.WinnerNone, res.Winner)
	require.Equal(t, battle.StatusCancelled, b.Status)
}

func TestResolve_SkipAdvancesWithoutMutation(t *testing.T) {
	b := twoTeams()

	res, err := Resolve(b, Action{ParticipantID: 1, Type: battle.ActionSkip, Message: "…", WordCount: 1}, time.Now())
	require.NoError(t, err)
	require.Equal(t, 50, b.FindSlot(11).CurrentHP)
	require.Equal(t, 50, b.FindSlot(21).CurrentHP)
	require.Equal(t, 1, b.CurrentTurn)
	require.Nil(t, res.Damage)
	require.Nil(t, res.Heal)
	require.Equal(t, 1, b.Participants[0].MessageCount)
	require.Equal(t, 1, b.Participants[0].WordCount)
}

func TestResolve_ThreeParticipantCycle(t *testing.T) {
	b := twoTeams()
	b.Participants = append(b.Participants, battle.Participant{
		Model: gorm.Model{ID: 3}, DisplayName: "Wild", TeamSide: battle.TeamOpponents, TurnOrder: 3, IsActive: true, Slots: []battle.RosterSlot{
			{Model: gorm.Model{ID: 31}, ParticipantID: 3, CurrentHP: 20, MaxHP: 20, IsActive: true},
		},
	})

	res, err := Resolve(b, Action{ParticipantID: 1, Type: battle.ActionSkip}, time.Now())
	require.NoError(t, err)
	require.Equal(t, uint(2), res.NextParticipant.ID)

	res, err = Resolve(b, Action{ParticipantID: 2, Type: battle.ActionSkip}, time.Now())
	require.NoError(t, err)
	require.Equal(t, uint(3), res.NextParticipant.ID)

	res, err = Resolve(b, Action{ParticipantID: 3, Type: battle.ActionSkip}, time.Now())
	require.NoError(t, err)
	require.Equal(t, uint(1), res.NextParticipant.ID, "the cycle wraps after the last participant")
	require.Equal(t, 3, b.CurrentTurn)
}

func TestResolve_SkipsInactiveParticipantMidCycle(t *testing.T) {
	b := twoTeams()
	b.Participants = append(b.Participants, battle.Participant{
		Model: gorm.Model{ID: 3}, TeamSide: battle.TeamPlayers, TurnOrder: 3, IsActive: true, Slots: []battle.RosterSlot{
			{Model: gorm.Model{ID: 31}, ParticipantID: 3, CurrentHP: 20, MaxHP: 20, IsActive: true},
		},
	})
	b.Participants[1].IsActive = false

	res, err := Resolve(b, Action{ParticipantID: 1, Type: battle.ActionSkip}, time.Now())
	require.NoError(t, err)
	require.Equal(t, uint(3), res.NextParticipant.ID, "inactive participants never receive a turn")
}

func TestResolve_RejectsTerminalBattle(t *testing.T) {
	b := twoTeams()
	require.NoError(t, b.Cancel(time.Now()))

	_, err := Resolve(b, Action{ParticipantID: 1, Type: battle.ActionSkip}, time.Now())
	require.True(t, battle.IsInvalidState(err))
}

func TestResolve_RejectsUnknownActionType(t *testing.T) {
	b := twoTeams()
	_, err := Resolve(b, Action{ParticipantID: 1, Type: battle.ActionType("dance")}, time.Now())
	require.True(t, battle.IsValidation(err))
}

func TestResolve_RejectsUnknownParticipant(t *testing.T) {
	b := twoTeams()
	_, err := Resolve(b, Action{ParticipantID: 99, Type: battle.ActionSkip}, time.Now())
	require.True(t, battle.IsNotFound(err))
}
