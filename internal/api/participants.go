package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/monsterhaven/battle-engine/internal/battle"
	"github.com/monsterhaven/battle-engine/internal/constants"
	"github.com/monsterhaven/battle-engine/internal/service"
)

// AddParticipant attaches a new actor to an active battle.
func (h *BattleHandler) AddParticipant(c *gin.Context) {
	id, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	var req newParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	params := service.AddParticipantParams{
		Type:          battle.ParticipantType(req.ParticipantType),
		TeamSide:      battle.TeamSide(req.TeamSide),
		DisplayName:   req.DisplayName,
		DiscordUserID: req.DiscordUserID,
		TrainerID:     req.TrainerID,
		TurnOrder:     req.TurnOrder,
	}
	for _, s := range req.Slots {
		params.Slots = append(params.Slots, service.NewSlot{
			MonsterID:   s.MonsterID,
			DisplayName: s.DisplayName,
			Species:     s.Species,
			Level:       s.Level,
			Snapshot:    s.Snapshot,
		})
	}

	p, err := service.AddParticipant(h.repo, h.catalog, id, params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ListParticipants returns every participant of the battle, active or
// not, in turn order.
func (h *BattleHandler) ListParticipants(c *gin.Context) {
	id, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	out, err := h.repo.GetParticipants(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": out})
}

// ActiveParticipants returns the battle's active participants in turn
// order.
func (h *BattleHandler) ActiveParticipants(c *gin.Context) {
	id, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	out, err := service.ActiveParticipants(h.repo, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": out})
}

// DeactivateParticipant removes a participant from the turn cycle.
func (h *BattleHandler) DeactivateParticipant(c *gin.Context) {
	battleID, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	participantID, ok := parseID(c, "participantID", constants.ErrInvalidRequest)
	if !ok {
		return
	}
	p, err := service.SetParticipantInactive(h.repo, battleID, participantID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
