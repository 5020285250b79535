package api

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/monsterhaven/battle-engine/internal/battle"
)

// RegisterValidations installs the enum rules referenced by the request
// binding tags. Call once before building the router.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("participanttype", validParticipantType); err != nil {
		return err
	}
	if err := v.RegisterValidation("teamside", validTeamSide); err != nil {
		return err
	}
	return v.RegisterValidation("actiontype", validActionType)
}

func validParticipantType(fl validator.FieldLevel) bool {
	switch battle.ParticipantType(fl.Field().String()) {
	case battle.ParticipantPlayer, battle.ParticipantNPC, battle.ParticipantWild:
		return true
	}
	return false
}

func validTeamSide(fl validator.FieldLevel) bool {
	return battle.TeamSide(fl.Field().String()).Valid()
}

func validActionType(fl validator.FieldLevel) bool {
	return battle.ActionType(fl.Field().String()).Valid()
}
