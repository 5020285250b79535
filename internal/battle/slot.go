package battle

import "time"

// DamageResult reports the outcome of applying damage to a roster slot.
type DamageResult struct {
	HPBefore    int  `json:"hp_before"`
	HPAfter     int  `json:"hp_after"`
	DamageDealt int  `json:"damage_dealt"`
	Fainted     bool `json:"fainted"`
}

// HealResult reports the outcome of healing a roster slot. HealAmount is
// the HP actually restored, which may be less than requested.
type HealResult struct {
	HPBefore   int  `json:"hp_before"`
	HPAfter    int  `json:"hp_after"`
	HealAmount int  `json:"heal_amount"`
	Revived    bool `json:"revived"`
}

// ApplyDamage lowers the slot's HP by amount, clamped at zero. Reaching
// zero faints the monster and removes it from active combat.
func (s *RosterSlot) ApplyDamage(amount int) (DamageResult, error) {
	if amount < 0 {
		return DamageResult{}, &ValidationError{Field: "damage amount", Detail: "must not be negative"}
	}
	before := s.CurrentHP
	after := before - amount
	if after < 0 {
		after = 0
	}
	s.CurrentHP = after
	fainted := after == 0
	s.IsFainted = fainted
	if fainted {
		s.IsActive = false
	}
	return DamageResult{HPBefore: before, HPAfter: after, DamageDealt: amount, Fainted: fainted}, nil
}

// ApplyHeal raises the slot's HP by amount, clamped at MaxHP. Healing a
// fainted slot above zero revives it, but the slot stays out of active
// combat until an explicit switch brings it back.
func (s *RosterSlot) ApplyHeal(amount int) (HealResult, error) {
	if amount < 0 {
		return HealResult{}, &ValidationError{Field: "heal amount", Detail: "must not be negative"}
	}
	before := s.CurrentHP
	after := before + amount
	if after > s.MaxHP {
		after = s.MaxHP
	}
	revived := s.IsFainted && after > 0
	s.CurrentHP = after
	if revived {
		s.IsFainted = false
	}
	return HealResult{HPBefore: before, HPAfter: after, HealAmount: after - before, Revived: revived}, nil
}

// AddStatusEffect appends an effect stamped with the current time.
// Duplicate types are allowed; nothing is deduplicated here.
func (s *RosterSlot) AddStatusEffect(effectType string, duration *int) error {
	if effectType == "" {
		return &ValidationError{Field: "status effect type", Detail: "must not be empty"}
	}
	s.StatusEffects = append(s.StatusEffects, StatusEffect{
		Type:      effectType,
		AppliedAt: time.Now().UTC(),
		Duration:  duration,
	})
	return nil
}

// RemoveStatusEffect removes every entry of the given type and returns how
// many were dropped.
func (s *RosterSlot) RemoveStatusEffect(effectType string) int {
	kept := s.StatusEffects[:0]
	removed := 0
	for _, e := range s.StatusEffects {
		if e.Type == effectType {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.StatusEffects = kept
	return removed
}

// HasStatusEffect reports whether at least one entry of the type exists.
func (s *RosterSlot) HasStatusEffect(effectType string) bool {
	for _, e := range s.StatusEffects {
		if e.Type == effectType {
			return true
		}
	}
	return false
}
