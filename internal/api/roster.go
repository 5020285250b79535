package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/monsterhaven/battle-engine/internal/battle"
	"github.com/monsterhaven/battle-engine/internal/constants"
	"github.com/monsterhaven/battle-engine/internal/service"
)

type damageRequest struct {
	Amount int `json:"amount" binding:"gte=0"`
}

type healRequest struct {
	Amount int `json:"amount" binding:"gte=0"`
}

type slotActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type statusEffectRequest struct {
	EffectType string `json:"effect_type" binding:"required"`
	Duration   *int   `json:"duration" binding:"omitempty,gt=0"`
}

func (h *BattleHandler) slotIDs(c *gin.Context) (battleID, slotID uint, ok bool) {
	battleID, ok = parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return 0, 0, false
	}
	slotID, ok = parseID(c, "slotID", constants.ErrInvalidSlotID)
	if !ok {
		return 0, 0, false
	}
	return battleID, slotID, true
}

// GetSlot returns one roster slot's current combat record.
func (h *BattleHandler) GetSlot(c *gin.Context) {
	_, slotID, ok := h.slotIDs(c)
	if !ok {
		return
	}
	slot, err := h.repo.GetRosterSlot(slotID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// DealDamage applies out-of-band damage to one roster slot, outside turn
// resolution. Environmental hazards and scripted encounters use this.
func (h *BattleHandler) DealDamage(c *gin.Context) {
	battleID, slotID, ok := h.slotIDs(c)
	if !ok {
		return
	}
	var req damageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	slot, res, err := service.DealDamage(h.repo, battleID, slotID, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"slot":         slot,
		"hp_before":    res.HPBefore,
		"hp_after":     res.HPAfter,
		"damage_dealt": res.DamageDealt,
		"fainted":      res.Fainted,
	})
}

// HealSlot restores HP on one roster slot, clamped at its maximum.
func (h *BattleHandler) HealSlot(c *gin.Context) {
	battleID, slotID, ok := h.slotIDs(c)
	if !ok {
		return
	}
	var req healRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	slot, res, err := service.Heal(h.repo, battleID, slotID, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"slot":        slot,
		"hp_before":   res.HPBefore,
		"hp_after":    res.HPAfter,
		"heal_amount": res.HealAmount,
		"revived":     res.Revived,
	})
}

// SetSlotActive moves the slot into or out of combat. Activating a
// fainted monster is rejected.
func (h *BattleHandler) SetSlotActive(c *gin.Context) {
	battleID, slotID, ok := h.slotIDs(c)
	if !ok {
		return
	}
	var req slotActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	var (
		slot *battle.RosterSlot
		err  error
	)
	if *req.Active {
		slot, err = service.SetSlotActive(h.repo, battleID, slotID)
	} else {
		slot, err = service.SetSlotInactive(h.repo, battleID, slotID)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// AddStatusEffect appends one effect entry to the slot.
func (h *BattleHandler) AddStatusEffect(c *gin.Context) {
	battleID, slotID, ok := h.slotIDs(c)
	if !ok {
		return
	}
	var req statusEffectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	slot, err := service.AddStatusEffect(h.repo, battleID, slotID, req.EffectType, req.Duration)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// RemoveStatusEffect drops every entry of the given type from the slot.
func (h *BattleHandler) RemoveStatusEffect(c *gin.Context) {
	battleID, slotID, ok := h.slotIDs(c)
	if !ok {
		return
	}
	effectType := c.Query("type")
	if effectType == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	slot, removed, err := service.RemoveStatusEffect(h.repo, battleID, slotID, effectType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": slot, "removed": removed})
}
