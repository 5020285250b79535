package api

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func bindJSON(t *testing.T, body string, out interface{}) error {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c.ShouldBindJSON(out)
}

func TestAmountBindings_ZeroIsValid(t *testing.T) {
	require.NoError(t, RegisterValidations())

	var d damageRequest
	require.NoError(t, bindJSON(t, `{"amount": 0}`, &d), "zero-amount damage is a permitted no-op")
	require.Error(t, bindJSON(t, `{"amount": -3}`, &d))

	var h healRequest
	require.NoError(t, bindJSON(t, `{"amount": 0}`, &h))
	require.Error(t, bindJSON(t, `{"amount": -1}`, &h))
}

func TestEnumBindings(t *testing.T) {
	require.NoError(t, RegisterValidations())

	var a actionRequest
	require.NoError(t, bindJSON(t, `{"participant_id": 1, "action_type": "attack"}`, &a))
	require.Error(t, bindJSON(t, `{"participant_id": 1, "action_type": "dance"}`, &a))

	var p newParticipantRequest
	body := `{"participant_type": "player", "team_side": "players", "slots": [{"species": "embermouse"}]}`
	require.NoError(t, bindJSON(t, body, &p))
	require.Error(t, bindJSON(t, strings.Replace(body, "players", "spectators", 1), &p))
	require.Error(t, bindJSON(t, strings.Replace(body, `"player"`, `"ghost"`, 1), &p))
}
