package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/monsterhaven/battle-engine/internal/battle"
)

func expiredDuel(id uint) func() *battle.Battle {
	return func() *battle.Battle {
		started := time.Now().Add(-2 * time.Minute)
		return &battle.Battle{
			Model:                   gorm.Model{ID: id},
			Status:                  battle.StatusActive,
			CurrentTurn:             4,
			CurrentParticipantIndex: 0,
			TurnTimeLimit:           30,
			TurnStartedAt:           &started,
			Participants: []battle.Participant{
				{Model: gorm.Model{ID: 1}, TeamSide: battle.TeamPlayers, TurnOrder: 1, IsActive: true, Slots: []battle.RosterSlot{
					{Model: gorm.Model{ID: 11}, ParticipantID: 1, CurrentHP: 50, MaxHP: 50, IsActive: true},
				}},
				{Model: gorm.Model{ID: 2}, TeamSide: battle.TeamOpponents, TurnOrder: 2, IsActive: true, Slots: []battle.RosterSlot{
					{Model: gorm.Model{ID: 21}, ParticipantID: 2, CurrentHP: 50, MaxHP: 50, IsActive: true},
				}},
			},
		}
	}
}

func TestHandleExpiredTurn_InjectsSkip(t *testing.T) {
	load := expiredDuel(60)
	mr := &mockBattleRepo{load: load}

	err := HandleExpiredTurn(mr, load(), time.Now(), RetryPolicy{Retries: 1, Backoff: time.Millisecond})
	require.NoError(t, err)

	require.NotNil(t, mr.savedTurn)
	require.Equal(t, battle.ActionSkip, mr.savedTurn.ActionType)
	require.Equal(t, 4, mr.savedTurn.TurnNumber, "the forced skip consumes the expired turn")
	require.Equal(t, uint(1), *mr.savedTurn.ParticipantID)
	require.Equal(t, "turn_timeout", mr.savedTurn.ActionData["reason"])
	require.Equal(t, 5, mr.savedState.CurrentTurn)
}

func TestHandleExpiredTurn_NoDeadlineIsNoop(t *testing.T) {
	load := expiredDuel(61)
	b := load()
	b.TurnTimeLimit = 0
	mr := &mockBattleRepo{load: load}

	err := HandleExpiredTurn(mr, b, time.Now(), DefaultRetryPolicy)
	require.NoError(t, err)
	require.Equal(t, 0, mr.saveCalls)
}

func TestHandleExpiredTurn_ToleratesRaceWithResolution(t *testing.T) {
	// Between the scan and the injection someone resolved the turn and the
	// battle completed. The stale skip must be swallowed, not surfaced.
	resolved := func() *battle.Battle {
		b := expiredDuel(62)()
		require.NoError(t, b.Complete(battle.WinnerPlayers, time.Now()))
		return b
	}
	mr := &mockBattleRepo{load: resolved}

	err := HandleExpiredTurn(mr, expiredDuel(62)(), time.Now(), DefaultRetryPolicy)
	require.NoError(t, err)
	require.Equal(t, 0, mr.saveCalls)
}
