package api

import (
	"github.com/monsterhaven/battle-engine/internal/catalog"
	"github.com/monsterhaven/battle-engine/internal/service"
	"github.com/monsterhaven/battle-engine/internal/storage"
)

// BattleHandler exposes the battle engine's operations over HTTP. It owns
// no rules; everything delegates to the service layer.
type BattleHandler struct {
	repo    storage.Repository
	catalog *catalog.Catalog
	retry   service.RetryPolicy
}

func NewBattleHandler(repo storage.Repository, cat *catalog.Catalog, retry service.RetryPolicy) *BattleHandler {
	return &BattleHandler{repo: repo, catalog: cat, retry: retry}
}
