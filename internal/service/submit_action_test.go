package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/monsterhaven/battle-engine/internal/battle"
	"github.com/monsterhaven/battle-engine/internal/engine"
)

// mockBattleRepo rebuilds the aggregate on every load, the way a real
// repository rereads it from storage, and records what was saved.
type mockBattleRepo struct {
	load func() *battle.Battle

	saveErrs   []error
	saveCalls  int
	savedTurn  *battle.TurnLog
	savedState *battle.Battle
}

func (m *mockBattleRepo) GetBattleByID(id uint) (*battle.Battle, error) {
	b := m.load()
	if b == nil || b.ID != id {
		return nil, &battle.NotFoundError{Entity: "battle session", ID: id}
	}
	return b, nil
}

func (m *mockBattleRepo) SaveResolvedTurn(b *battle.Battle, t *battle.TurnLog) error {
	m.saveCalls++
	if len(m.saveErrs) > 0 {
		err := m.saveErrs[0]
		m.saveErrs = m.saveErrs[1:]
		if err != nil {
			return err
		}
	}
	m.savedState = b
	m.savedTurn = t
	return nil
}

func duelFixture(id uint) func() *battle.Battle {
	return func() *battle.Battle {
		started := time.Now()
		return &battle.Battle{
			Model:                   gorm.Model{ID: id},
			Status:                  battle.StatusActive,
			CurrentParticipantIndex: 0,
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

func TestSubmitAction_ResolvesAndPersistsAtomically(t *testing.T) {
	mr := &mockBattleRepo{load: duelFixture(40)}

	b, res, err := SubmitAction(mr, 40, engine.Action{ParticipantID: 1, Type: battle.ActionAttack, TargetSlotID: 21, Damage: 20}, DefaultRetryPolicy)
	require.NoError(t, err)

	require.Equal(t, 1, mr.saveCalls)
	require.Same(t, b, mr.savedState, "the mutated aggregate and the ledger row go to storage together")
	require.Equal(t, battle.ActionAttack, mr.savedTurn.ActionType)
	require.Equal(t, 0, mr.savedTurn.TurnNumber)
	require.Equal(t, 30, b.FindSlot(21).CurrentHP)
	require.Equal(t, uint(2), res.NextParticipant.ID)
}

func TestSubmitAction_DomainRejectionIsFinal(t *testing.T) {
	mr := &mockBattleRepo{load: duelFixture(41)}

	_, _, err := SubmitAction(mr, 41, engine.Action{ParticipantID: 2, Type: battle.ActionSkip}, DefaultRetryPolicy)
	require.True(t, battle.IsInvalidState(err))
	require.Equal(t, 0, mr.saveCalls, "nothing is persisted for a rejected action")
}

func TestSubmitAction_RetriesLostWrite(t *testing.T) {
	mr := &mockBattleRepo{
		load:     duelFixture(42),
		saveErrs: []error{&battle.ConflictError{BattleID: 42, Detail: "database is locked"}},
	}

	_, res, err := SubmitAction(mr, 42, engine.Action{ParticipantID: 1, Type: battle.ActionSkip}, RetryPolicy{Retries: 3, Backoff: time.Millisecond})
	require.NoError(t, err)
	require.Equal(t, 2, mr.saveCalls, "the first conflict is retried against a fresh load")
	require.Equal(t, 0, res.TurnNumber)
}

func TestSubmitAction_SurfacesConflictAfterRetriesExhausted(t *testing.T) {
	mr := &mockBattleRepo{
		load: duelFixture(43),
		saveErrs: []error{
			&battle.ConflictError{BattleID: 43, Detail: "database is locked"},
			&battle.ConflictError{BattleID: 43, Detail: "database is locked"},
		},
	}

	_, _, err := SubmitAction(mr, 43, engine.Action{ParticipantID: 1, Type: battle.ActionSkip}, RetryPolicy{Retries: 2, Backoff: time.Millisecond})
	require.True(t, battle.IsConflict(err))
	require.Equal(t, 2, mr.saveCalls)
}
