package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/monsterhaven/battle-engine/internal/battle"
	"github.com/monsterhaven/battle-engine/internal/constants"
	"github.com/monsterhaven/battle-engine/internal/service"
)

type newSlotRequest struct {
	MonsterID   uint                    `json:"monster_id"`
	DisplayName string                  `json:"display_name"`
	Species     string                  `json:"species"`
	Level       int                     `json:"level"`
	Snapshot    *battle.MonsterSnapshot `json:"snapshot"`
}

type newParticipantRequest struct {
	ParticipantType string           `json:"participant_type" binding:"required,participanttype"`
	TeamSide        string           `json:"team_side" binding:"required,teamside"`
	DisplayName     string           `json:"display_name"`
	DiscordUserID   string           `json:"discord_user_id"`
	TrainerID       *uint            `json:"trainer_id"`
	TurnOrder       *int             `json:"turn_order"`
	Slots           []newSlotRequest `json:"slots" binding:"required,min=1"`
}

type createBattleRequest struct {
	BattleType    string                  `json:"battle_type" binding:"required"`
	AdventureID   *uint                   `json:"adventure_id"`
	EncounterID   *uint                   `json:"encounter_id"`
	CreatedBy     string                  `json:"created_by"`
	TurnTimeLimit int                     `json:"turn_time_limit" binding:"gte=0"`
	Participants  []newParticipantRequest `json:"participants" binding:"required,min=2,dive"`
}

// CreateBattle opens a new session with its participants and initial
// roster in one transaction.
func (h *BattleHandler) CreateBattle(c *gin.Context) {
	var req createBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	params := service.CreateBattleParams{
		BattleType:    req.BattleType,
		AdventureID:   req.AdventureID,
		EncounterID:   req.EncounterID,
		CreatedBy:     req.CreatedBy,
		TurnTimeLimit: req.TurnTimeLimit,
	}
	for _, p := range req.Participants {
		np := service.NewParticipant{
			Type:          battle.ParticipantType(p.ParticipantType),
			TeamSide:      battle.TeamSide(p.TeamSide),
			DisplayName:   p.DisplayName,
			DiscordUserID: p.DiscordUserID,
			TrainerID:     p.TrainerID,
			TurnOrder:     p.TurnOrder,
		}
		for _, s := range p.Slots {
			np.Slots = append(np.Slots, service.NewSlot{
				MonsterID:   s.MonsterID,
				DisplayName: s.DisplayName,
				Species:     s.Species,
				Level:       s.Level,
				Snapshot:    s.Snapshot,
			})
		}
		params.Participants = append(params.Participants, np)
	}

	b, err := service.CreateBattle(h.repo, h.catalog, params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetBattle returns the full aggregate: session, participants and roster.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	id, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	b, err := h.repo.GetBattleByID(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetBattleByCode resolves a battle by the public reference code handed
// out at creation.
func (h *BattleHandler) GetBattleByCode(c *gin.Context) {
	code := c.Param("publicID")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleID})
		return
	}
	b, err := h.repo.GetBattleByPublicID(code)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CleanupBattle deletes a terminal battle and everything it owns.
func (h *BattleHandler) CleanupBattle(c *gin.Context) {
	id, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	if err := service.CleanupBattle(h.repo, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CancelBattle moves an active battle into the cancelled terminal state.
func (h *BattleHandler) CancelBattle(c *gin.Context) {
	id, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	b, err := service.CancelBattle(h.repo, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListSpecies returns the configured catalog species names.
func (h *BattleHandler) ListSpecies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"species": h.catalog.Names()})
}
