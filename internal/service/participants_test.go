package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/monsterhaven/battle-engine/internal/battle"
)

type mockParticipantRepo struct {
	b       *battle.Battle
	added   *battle.Participant
	updated *battle.Participant
}

func (m *mockParticipantRepo) GetBattleByID(id uint) (*battle.Battle, error) {
	if m.b == nil || m.b.ID != id {
		return nil, &battle.NotFoundError{Entity: "battle session", ID: id}
	}
	return m.b, nil
}

func (m *mockParticipantRepo) AddParticipant(p *battle.Participant) error {
	m.added = p
	return nil
}

func (m *mockParticipantRepo) UpdateParticipant(p *battle.Participant) error {
	m.updated = p
	return nil
}

func participantFixture() *battle.Battle {
	return &battle.Battle{
		Model:  gorm.Model{ID: 30},
		Status: battle.StatusActive,
		Participants: []battle.Participant{
			{Model: gorm.Model{ID: 1}, TeamSide: battle.TeamPlayers, TurnOrder: 1, IsActive: true},
			{Model: gorm.Model{ID: 2}, TeamSide: battle.TeamOpponents, TurnOrder: 4, IsActive: true},
		},
	}
}

func TestAddParticipant_AppendsToCycle(t *testing.T) {
	mr := &mockParticipantRepo{b: participantFixture()}

	p, err := AddParticipant(mr, nil, 30, AddParticipantParams{
		Type:     battle.ParticipantNPC,
		TeamSide: battle.TeamOpponents,
		Slots:    []NewSlot{{Snapshot: &battle.MonsterSnapshot{Name: "Grunt", HP: 25}}},
	})
	require.NoError(t, err)
	require.Same(t, p, mr.added)
	require.Equal(t, uint(30), p.BattleID)
	require.Equal(t, 5, p.TurnOrder, "a late joiner defaults to the end of the cycle")
	require.True(t, p.IsActive)
	require.Len(t, p.Slots, 1)
}

func TestAddParticipant_RejectsTerminalBattle(t *testing.T) {
	b := participantFixture()
	require.NoError(t, b.Cancel(time.Now()))
	mr := &mockParticipantRepo{b: b}

	_, err := AddParticipant(mr, nil, 30, AddParticipantParams{
		Type:     battle.ParticipantNPC,
		TeamSide: battle.TeamOpponents,
		Slots:    []NewSlot{{Snapshot: &battle.MonsterSnapshot{Name: "Grunt", HP: 25}}},
	})
	require.True(t, battle.IsInvalidState(err))
	require.Nil(t, mr.added)
}

func TestSetParticipantInactive(t *testing.T) {
	mr := &mockParticipantRepo{b: participantFixture()}

	p, err := SetParticipantInactive(mr, 30, 2)
	require.NoError(t, err)
	require.False(t, p.IsActive)
	require.Same(t, p, mr.updated)

	_, err = SetParticipantInactive(mr, 30, 99)
	require.True(t, battle.IsNotFound(err))
}

func TestActiveParticipants_OrderedSnapshot(t *testing.T) {
	b := participantFixture()
	b.Participants[0].IsActive = false
	mr := &mockParticipantRepo{b: b}

	out, err := ActiveParticipants(mr, 30)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, uint(2), out[0].ID)
}
