package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/monsterhaven/battle-engine/internal/battle"
	"github.com/monsterhaven/battle-engine/internal/constants"
)

// parseID reads a numeric path parameter. ok is false after the error
// response has already been written.
func parseID(c *gin.Context, name, invalidMsg string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: invalidMsg})
		return 0, false
	}
	return uint(id), true
}

// writeError maps engine errors onto HTTP statuses. Domain messages name
// the entity and the violated invariant, so they are returned as-is.
func writeError(c *gin.Context, err error) {
	switch {
	case battle.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
	case battle.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: err.Error()})
	case battle.IsInvalidState(err):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: err.Error()})
	case battle.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrTurnAlreadyResolved})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: err.Error()})
	}
}
