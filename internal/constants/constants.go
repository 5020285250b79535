package constants

// Centralized constants for env keys, routes and shared messages.
const (
	// Environment variable keys
	EnvConfigPath = "BATTLE_CONFIG"
	EnvAddr       = "BATTLE_ADDR"
	EnvLogLevel   = "BATTLE_LOG_LEVEL"
)

// Routes used by the backend router
const (
	RouteAPIPrefix = "/api"

	RouteBattles                  = "/battles"
	RouteBattleByID               = "/battles/:battleID"
	RouteBattleByCode             = "/battle-codes/:publicID"
	RouteBattleCancel             = "/battles/:battleID/cancel"
	RouteBattleParticipants       = "/battles/:battleID/participants"
	RouteBattleActiveParticipants = "/battles/:battleID/participants/active"
	RouteParticipantDeactivate    = "/battles/:battleID/participants/:participantID/deactivate"
	RouteParticipantTurns         = "/participants/:participantID/turns"
	RouteBattleActions            = "/battles/:battleID/actions"
	RouteBattleTurns              = "/battles/:battleID/turns"
	RouteBattleLatestTurn         = "/battles/:battleID/turns/latest"
	RouteBattleStatistics         = "/battles/:battleID/statistics"
	RouteSlotByID                 = "/battles/:battleID/slots/:slotID"
	RouteSlotDamage               = "/battles/:battleID/slots/:slotID/damage"
	RouteSlotHeal                 = "/battles/:battleID/slots/:slotID/heal"
	RouteSlotActive               = "/battles/:battleID/slots/:slotID/active"
	RouteSlotStatus               = "/battles/:battleID/slots/:slotID/status-effects"
	RouteSpecies                  = "/species"

	RouteMetrics = "/metrics"
	RouteHealth  = "/healthz"
)

// Common JSON response keys
const (
	JSONKeyError = "error"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest      = "Invalid request"
	ErrInvalidBattleID     = "Invalid battle ID"
	ErrInvalidSlotID       = "Invalid slot ID"
	ErrTurnAlreadyResolved = "Turn already resolved, refresh the battle state"
)

// Logging field names
const (
	LogFieldBattleID      = "battle_id"
	LogFieldParticipantID = "participant_id"
	LogFieldTurn          = "turn"
	LogFieldWinner        = "winner"
	LogFieldAddr          = "addr"
	LogFieldAttempt       = "attempt"
)
