package battle

import (
	"sort"
	"time"
)

// StartNextTurn advances the session to the next turn: it increments the
// monotonic turn counter, points at the given participant index and stamps
// the turn start time. It never resolves an action.
func (b *Battle) StartNextTurn(participantIndex int, now time.Time) error {
	if b.Status != StatusActive {
		return &InvalidStateError{Entity: "battle session", Detail: "cannot start a turn on a " + string(b.Status) + " battle"}
	}
	if participantIndex < 0 {
		return &ValidationError{Field: "participant index", Detail: "must not be negative"}
	}
	b.CurrentTurn++
	b.CurrentParticipantIndex = participantIndex
	t := now.UTC()
	b.TurnStartedAt = &t
	return nil
}

// Complete moves an active session into the completed terminal state and
// records the winner. Completing a non-active session fails; terminal
// states accept no further transitions.
func (b *Battle) Complete(winner WinnerType, now time.Time) error {
	if b.Status != StatusActive {
		return &InvalidStateError{Entity: "battle session", Detail: "cannot complete a " + string(b.Status) + " battle"}
	}
	switch winner {
	case WinnerPlayers, WinnerOpponents, WinnerDraw:
	default:
		return &ValidationError{Field: "winner type", Detail: "must be players, opponents or draw"}
	}
	b.Status = StatusCompleted
	b.WinnerType = winner
	t := now.UTC()
	b.CompletedAt = &t
	return nil
}

// Cancel moves an active session into the cancelled terminal state. No
// winner is recorded.
func (b *Battle) Cancel(now time.Time) error {
	if b.Status != StatusActive {
		return &InvalidStateError{Entity: "battle session", Detail: "cannot cancel a " + string(b.Status) + " battle"}
	}
	b.Status = StatusCancelled
	t := now.UTC()
	b.CompletedAt = &t
	return nil
}

// TurnExpired reports whether the advisory turn time limit has elapsed.
// The engine never pushes timeouts; an external sweeper polls this and
// injects a synthetic skip through the normal action path.
func (b *Battle) TurnExpired(now time.Time) bool {
	if b.Status != StatusActive || b.TurnTimeLimit <= 0 || b.TurnStartedAt == nil {
		return false
	}
	return now.Sub(*b.TurnStartedAt) > time.Duration(b.TurnTimeLimit)*time.Second
}

// orderedParticipants returns the session's participants sorted by
// TurnOrder. The stored slice order is not trusted.
func (b *Battle) orderedParticipants() []*Participant {
	out := make([]*Participant, 0, len(b.Participants))
	for i := range b.Participants {
		out = append(out, &b.Participants[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TurnOrder < out[j].TurnOrder })
	return out
}

// ActiveParticipants returns the currently active participants in turn
// order. The cycle modulus is re-derived from this list on every call, so
// a participant going inactive shrinks the cycle from the very next
// computation.
func (b *Battle) ActiveParticipants() []*Participant {
	ordered := b.orderedParticipants()
	active := make([]*Participant, 0, len(ordered))
	for _, p := range ordered {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active
}

// NextActiveIndex returns the position (within the full turn-order
// sequence) of the participant after currentIndex, considering only
// active participants and wrapping modulo the active count. ok is false
// when no active participants remain, which signals the battle must end.
func (b *Battle) NextActiveIndex(currentIndex int) (nextIndex int, next *Participant, ok bool) {
	ordered := b.orderedParticipants()
	active := 0
	for _, p := range ordered {
		if p.IsActive {
			active++
		}
	}
	if active == 0 {
		return 0, nil, false
	}
	n := len(ordered)
	for step := 1; step <= n; step++ {
		idx := (currentIndex + step) % n
		if ordered[idx].IsActive {
			return idx, ordered[idx], true
		}
	}
	return 0, nil, false
}

// ParticipantAt returns the participant at the given turn-order position,
// or nil when the index is out of range.
func (b *Battle) ParticipantAt(index int) *Participant {
	ordered := b.orderedParticipants()
	if index < 0 || index >= len(ordered) {
		return nil
	}
	return ordered[index]
}

// FindParticipant returns the owned participant with the given id.
func (b *Battle) FindParticipant(id uint) *Participant {
	for i := range b.Participants {
		if b.Participants[i].ID == id {
			return &b.Participants[i]
		}
	}
	return nil
}

// FindSlot returns the roster slot with the given id from any participant.
func (b *Battle) FindSlot(id uint) *RosterSlot {
	for i := range b.Participants {
		for j := range b.Participants[i].Slots {
			if b.Participants[i].Slots[j].ID == id {
				return &b.Participants[i].Slots[j]
			}
		}
	}
	return nil
}

// TeamDefeated reports whether every roster slot belonging to the team's
// participants has fainted, with no unfainted reserve left. It is a
// derived global scan; no defeat flag is ever stored.
func (b *Battle) TeamDefeated(side TeamSide) bool {
	slots := 0
	for i := range b.Participants {
		p := &b.Participants[i]
		if p.TeamSide != side {
			continue
		}
		for j := range p.Slots {
			slots++
			if !p.Slots[j].IsFainted {
				return false
			}
		}
	}
	return slots > 0
}

// EliminationWinner evaluates the derived team-elimination rule after an
// action resolved. ended is false while both teams still have unfainted
// monsters. When both teams fell to the same action the result is a draw;
// otherwise the surviving team wins.
func (b *Battle) EliminationWinner() (winner WinnerType, ended bool) {
	playersOut := b.TeamDefeated(TeamPlayers)
	opponentsOut := b.TeamDefeated(TeamOpponents)
	switch {
	case playersOut && opponentsOut:
		return WinnerDraw, true
	case opponentsOut:
		return WinnerPlayers, true
	case playersOut:
		return WinnerOpponents, true
	default:
		return WinnerNone, false
	}
}
