package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/monsterhaven/battle-engine/internal/battle"
	"github.com/monsterhaven/battle-engine/internal/constants"
	"github.com/monsterhaven/battle-engine/internal/service"
	"github.com/monsterhaven/battle-engine/internal/storage"
)

const (
	defaultTurnPageSize = 50
	maxTurnPageSize     = 200
)

// ListTurns reads the battle's ledger in chronological order, with
// optional filters on turn number, participant and action type.
func (h *BattleHandler) ListTurns(c *gin.Context) {
	id, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}

	q := storage.TurnQuery{Limit: defaultTurnPageSize}
	if raw := c.Query("turn"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
		q.TurnNumber = &n
	}
	if raw := c.Query("participant_id"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || n == 0 {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
		pid := uint(n)
		q.ParticipantID = &pid
	}
	if raw := c.Query("action_type"); raw != "" {
		at := battle.ActionType(raw)
		if !at.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
		q.ActionType = at
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
		if n > maxTurnPageSize {
			n = maxTurnPageSize
		}
		q.Limit = n
	}
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
		q.Offset = n
	}

	turns, err := h.repo.GetTurnsByBattle(id, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"turns": turns, "count": len(turns)})
}

type recordTurnRequest struct {
	TurnNumber    int            `json:"turn_number" binding:"gte=0"`
	ParticipantID *uint          `json:"participant_id"`
	SlotID        *uint          `json:"slot_id"`
	ActionType    string         `json:"action_type" binding:"required,actiontype"`
	ActionData    battle.JSONMap `json:"action_data"`
	ResultData    battle.JSONMap `json:"result_data"`
	DamageDealt   int            `json:"damage_dealt" binding:"gte=0"`
	Message       string         `json:"message"`
	WordCount     int            `json:"word_count" binding:"gte=0"`
}

// RecordTurn appends one raw ledger row outside turn resolution, for
// narration-only entries and scripted events. The ledger does not enforce
// turn-number monotonicity; callers own that ordering.
func (h *BattleHandler) RecordTurn(c *gin.Context) {
	id, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	var req recordTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	entry := &battle.TurnLog{
		BattleID:       id,
		TurnNumber:     req.TurnNumber,
		ParticipantID:  req.ParticipantID,
		SlotID:         req.SlotID,
		ActionType:     battle.ActionType(req.ActionType),
		ActionData:     req.ActionData,
		ResultData:     req.ResultData,
		DamageDealt:    req.DamageDealt,
		MessageContent: req.Message,
		WordCount:      req.WordCount,
	}
	if err := h.repo.AppendTurn(entry); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ParticipantTurns returns every ledger row recorded for one participant,
// across the battle, in chronological order.
func (h *BattleHandler) ParticipantTurns(c *gin.Context) {
	id, ok := parseID(c, "participantID", constants.ErrInvalidRequest)
	if !ok {
		return
	}
	turns, err := h.repo.GetTurnsByParticipant(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"turns": turns, "count": len(turns)})
}

// LatestTurn returns the most recent ledger row for the battle.
func (h *BattleHandler) LatestTurn(c *gin.Context) {
	id, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	t, err := h.repo.GetLatestTurn(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// BattleStatistics returns the derived aggregates over the ledger.
func (h *BattleHandler) BattleStatistics(c *gin.Context) {
	id, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	stats, err := service.BattleStatistics(h.repo, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
