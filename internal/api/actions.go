package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/monsterhaven/battle-engine/internal/battle"
	"github.com/monsterhaven/battle-engine/internal/constants"
	"github.com/monsterhaven/battle-engine/internal/engine"
	"github.com/monsterhaven/battle-engine/internal/service"
)

type actionRequest struct {
	ParticipantID uint           `json:"participant_id" binding:"required"`
	ActionType    string         `json:"action_type" binding:"required,actiontype"`
	TargetSlotID  uint           `json:"target_slot_id"`
	Damage        int            `json:"damage" binding:"gte=0"`
	HealAmount    int            `json:"heal_amount" binding:"gte=0"`
	Message       string         `json:"message"`
	WordCount     int            `json:"word_count" binding:"gte=0"`
	Data          battle.JSONMap `json:"data"`
}

// SubmitAction resolves one action for the battle's current turn.
func (h *BattleHandler) SubmitAction(c *gin.Context) {
	id, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	act := engine.Action{
		ParticipantID: req.ParticipantID,
		Type:          battle.ActionType(req.ActionType),
		TargetSlotID:  req.TargetSlotID,
		Damage:        req.Damage,
		HealAmount:    req.HealAmount,
		Message:       req.Message,
		WordCount:     req.WordCount,
		Data:          req.Data,
	}
	b, res, err := service.SubmitAction(h.repo, id, act, h.retry)
	if err != nil {
		writeError(c, err)
		return
	}

	out := gin.H{
		"battle":      b,
		"turn_number": res.TurnNumber,
	}
	if res.Damage != nil {
		out["damage"] = res.Damage
	}
	if res.Heal != nil {
		out["heal"] = res.Heal
	}
	if res.BattleEnded {
		out["battle_ended"] = true
		out["winner_type"] = res.Winner
	} else if res.NextParticipant != nil {
		out["next_participant_id"] = res.NextParticipant.ID
	}
	c.JSON(http.StatusOK, out)
}
