package main

import (
	"os"
	"time"

	"github.com/monsterhaven/battle-engine/internal/api"
	"github.com/monsterhaven/battle-engine/internal/catalog"
	"github.com/monsterhaven/battle-engine/internal/config"
	"github.com/monsterhaven/battle-engine/internal/constants"
	"github.com/monsterhaven/battle-engine/internal/logging"
	"github.com/monsterhaven/battle-engine/internal/service"
	"github.com/monsterhaven/battle-engine/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load the battle configuration file (required). Path may be provided
	// via BATTLE_CONFIG env var or defaults to ./battle_config.json in the
	// current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./battle_config.json"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid battle configuration", err, logging.Fields{"config_path": configPath, "hint": "create a battle_config.json with a 'species_list' array of species objects (name,types,moves,hp,attack,defense,sp_attack,sp_defense,speed) and optional keys: server.address, turn_time_limit_seconds, sweep_interval, conflict_retries, conflict_backoff_millis"})
	}

	db, err := storage.OpenAndMigrate(cfg.DBPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}

	repo := storage.NewSQLiteRepository(db)
	cat := catalog.New(cfg.Species)
	retry := service.RetryPolicy{Retries: cfg.ConflictRetries, Backoff: cfg.ConflictBackoff}
	handler := api.NewBattleHandler(repo, cat, retry)

	if err := api.RegisterValidations(); err != nil {
		logging.Fatal("Failed to register request validations", err, nil)
	}

	// Background sweeper: periodically force-skip turns whose advisory
	// deadline passed. The skip goes through the same resolution path as a
	// submitted action, so it holds the battle lock and consumes the turn.
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.SweepInterval, func() {
		now := time.Now()
		expired, err := repo.FindExpiredTurnBattles(now)
		if err != nil {
			logging.Error("expired turn scan failed", err, nil)
			return
		}
		for i := range expired {
			if err := service.HandleExpiredTurn(repo, &expired[i], now, retry); err != nil {
				logging.Error("failed to skip expired turn", err, logging.Fields{constants.LogFieldBattleID: expired[i].ID})
			}
		}
	}); err != nil {
		logging.Fatal("Invalid sweep interval", err, logging.Fields{"sweep_interval": cfg.SweepInterval})
	}
	sweeper.Start()
	defer sweeper.Stop()

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteSpecies, handler.ListSpecies)

		apiRoutes.POST(constants.RouteBattles, handler.CreateBattle)
		apiRoutes.GET(constants.RouteBattleByID, handler.GetBattle)
		apiRoutes.GET(constants.RouteBattleByCode, handler.GetBattleByCode)
		apiRoutes.POST(constants.RouteBattleCancel, handler.CancelBattle)
		apiRoutes.DELETE(constants.RouteBattleByID, handler.CleanupBattle)

		apiRoutes.POST(constants.RouteBattleParticipants, handler.AddParticipant)
		apiRoutes.GET(constants.RouteBattleParticipants, handler.ListParticipants)
		apiRoutes.GET(constants.RouteBattleActiveParticipants, handler.ActiveParticipants)
		apiRoutes.POST(constants.RouteParticipantDeactivate, handler.DeactivateParticipant)
		apiRoutes.GET(constants.RouteParticipantTurns, handler.ParticipantTurns)

		apiRoutes.POST(constants.RouteBattleActions, handler.SubmitAction)

		apiRoutes.GET(constants.RouteBattleTurns, handler.ListTurns)
		apiRoutes.POST(constants.RouteBattleTurns, handler.RecordTurn)
		apiRoutes.GET(constants.RouteBattleLatestTurn, handler.LatestTurn)
		apiRoutes.GET(constants.RouteBattleStatistics, handler.BattleStatistics)

		apiRoutes.GET(constants.RouteSlotByID, handler.GetSlot)
		apiRoutes.POST(constants.RouteSlotDamage, handler.DealDamage)
		apiRoutes.POST(constants.RouteSlotHeal, handler.HealSlot)
		apiRoutes.PUT(constants.RouteSlotActive, handler.SetSlotActive)
		apiRoutes.POST(constants.RouteSlotStatus, handler.AddStatusEffect)
		apiRoutes.DELETE(constants.RouteSlotStatus, handler.RemoveStatusEffect)
	}

	router.GET(constants.RouteMetrics, gin.WrapH(promhttp.Handler()))
	router.GET(constants.RouteHealth, func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
