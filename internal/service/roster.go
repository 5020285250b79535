package service

import (
	"github.com/monsterhaven/battle-engine/internal/battle"
	"github.com/monsterhaven/battle-engine/internal/locks"
)

// RosterRepo is the minimal repository interface required by the roster
// slot operations. Every mutation runs inside one transaction per slot.
type RosterRepo interface {
	MutateRosterSlot(id uint, fn func(*battle.RosterSlot) error) (*battle.RosterSlot, error)
}

// Out-of-band slot mutations enter the same per-battle critical section
// as turn resolution. A resolution that loaded the aggregate before the
// mutation committed would otherwise persist the stale roster over it.

// slotInBattle wraps a slot mutation with the owning-battle check, so a
// caller cannot lock one battle while mutating another battle's slot.
func slotInBattle(battleID, slotID uint, fn func(*battle.RosterSlot) error) func(*battle.RosterSlot) error {
	return func(s *battle.RosterSlot) error {
		if s.BattleID != battleID {
			return &battle.NotFoundError{Entity: "roster slot", ID: slotID}
		}
		return fn(s)
	}
}

// DealDamage applies damage to one roster slot and reports the outcome.
func DealDamage(repo RosterRepo, battleID, slotID uint, amount int) (*battle.RosterSlot, battle.DamageResult, error) {
	locks.Battles.Lock(battleID)
	defer locks.Battles.Unlock(battleID)

	var res battle.DamageResult
	slot, err := repo.MutateRosterSlot(slotID, slotInBattle(battleID, slotID, func(s *battle.RosterSlot) error {
		var err error
		res, err = s.ApplyDamage(amount)
		return err
	}))
	if err != nil {
		return nil, battle.DamageResult{}, err
	}
	return slot, res, nil
}

// Heal restores HP on one roster slot, clamped at its maximum. A revived
// monster stays out of combat until an explicit switch action.
func Heal(repo RosterRepo, battleID, slotID uint, amount int) (*battle.RosterSlot, battle.HealResult, error) {
	locks.Battles.Lock(battleID)
	defer locks.Battles.Unlock(battleID)

	var res battle.HealResult
	slot, err := repo.MutateRosterSlot(slotID, slotInBattle(battleID, slotID, func(s *battle.RosterSlot) error {
		var err error
		res, err = s.ApplyHeal(amount)
		return err
	}))
	if err != nil {
		return nil, battle.HealResult{}, err
	}
	return slot, res, nil
}

// SetSlotActive puts the slot into combat for its participant. Fainted
// monsters cannot be activated.
func SetSlotActive(repo RosterRepo, battleID, slotID uint) (*battle.RosterSlot, error) {
	locks.Battles.Lock(battleID)
	defer locks.Battles.Unlock(battleID)

	return repo.MutateRosterSlot(slotID, slotInBattle(battleID, slotID, func(s *battle.RosterSlot) error {
		if s.IsFainted {
			return &battle.InvalidStateError{Entity: "roster slot", Detail: "a fainted monster cannot re-enter combat"}
		}
		s.IsActive = true
		return nil
	}))
}

// SetSlotInactive takes the slot out of combat.
func SetSlotInactive(repo RosterRepo, battleID, slotID uint) (*battle.RosterSlot, error) {
	locks.Battles.Lock(battleID)
	defer locks.Battles.Unlock(battleID)

	return repo.MutateRosterSlot(slotID, slotInBattle(battleID, slotID, func(s *battle.RosterSlot) error {
		s.IsActive = false
		return nil
	}))
}

// AddStatusEffect appends one effect entry. Duplicates of the same type
// are allowed.
func AddStatusEffect(repo RosterRepo, battleID, slotID uint, effectType string, duration *int) (*battle.RosterSlot, error) {
	locks.Battles.Lock(battleID)
	defer locks.Battles.Unlock(battleID)

	return repo.MutateRosterSlot(slotID, slotInBattle(battleID, slotID, func(s *battle.RosterSlot) error {
		return s.AddStatusEffect(effectType, duration)
	}))
}

// RemoveStatusEffect removes every entry of the given type and reports
// how many were dropped.
func RemoveStatusEffect(repo RosterRepo, battleID, slotID uint, effectType string) (*battle.RosterSlot, int, error) {
	locks.Battles.Lock(battleID)
	defer locks.Battles.Unlock(battleID)

	removed := 0
	slot, err := repo.MutateRosterSlot(slotID, slotInBattle(battleID, slotID, func(s *battle.RosterSlot) error {
		removed = s.RemoveStatusEffect(effectType)
		return nil
	}))
	if err != nil {
		return nil, 0, err
	}
	return slot, removed, nil
}
