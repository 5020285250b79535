package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/monsterhaven/battle-engine/internal/catalog"
)

type speciesEntry struct {
	Name      string   `json:"name"`
	Types     []string `json:"types"`
	Moves     []string `json:"moves"`
	HP        int      `json:"hp"`
	Attack    int      `json:"attack"`
	Defense   int      `json:"defense"`
	SpAttack  int      `json:"sp_attack"`
	SpDefense int      `json:"sp_defense"`
	Speed     int      `json:"speed"`
}

type rawConfig struct {
	SpeciesList []speciesEntry `json:"species_list"`
	Server      *struct {
		Address string `json:"address"`
	} `json:"server"`
	// Default advisory turn limit, in seconds. 0 disables turn timeouts
	// for battles that do not set their own limit.
	TurnTimeLimitSeconds int `json:"turn_time_limit_seconds"`
	// How often the sweeper scans for expired turns (cron @every spec).
	SweepInterval string `json:"sweep_interval"`
	// Bounded retry policy for conflicting turn resolutions.
	ConflictRetries       int `json:"conflict_retries"`
	ConflictBackoffMillis int `json:"conflict_backoff_millis"`
}

// envOverrides are applied on top of the config file. Deployment concerns
// (paths, bind address) live in the environment; game data in the file.
type envOverrides struct {
	Address string `env:"BATTLE_ADDR"`
	DBPath  string `env:"BATTLE_DB"`
}

// LoadedConfig is the merged runtime configuration.
type LoadedConfig struct {
	Species       []catalog.Species
	ServerAddress string
	DBPath        string

	TurnTimeLimit   time.Duration
	SweepInterval   string
	ConflictRetries int
	ConflictBackoff time.Duration
}

// Load reads the configuration file at path, validates the species list
// and merges environment overrides.
func Load(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.SpeciesList) == 0 {
		return nil, fmt.Errorf("config file %s: species_list is empty (provide 'species_list' array)", path)
	}

	nameSet := make(map[string]struct{}, len(rc.SpeciesList))
	out := make([]catalog.Species, 0, len(rc.SpeciesList))
	for _, s := range rc.SpeciesList {
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("config file %s: species entry missing 'name'", path)
		}
		if s.HP <= 0 {
			return nil, fmt.Errorf("config file %s: species '%s' must have hp > 0", path, s.Name)
		}
		ln := strings.ToLower(strings.TrimSpace(s.Name))
		if _, exists := nameSet[ln]; exists {
			return nil, fmt.Errorf("config file %s: duplicate species name '%s'", path, s.Name)
		}
		nameSet[ln] = struct{}{}
		out = append(out, catalog.Species{
			Name:      s.Name,
			Types:     s.Types,
			Moves:     s.Moves,
			HP:        s.HP,
			Attack:    s.Attack,
			Defense:   s.Defense,
			SpAttack:  s.SpAttack,
			SpDefense: s.SpDefense,
			Speed:     s.Speed,
		})
	}

	cfg := &LoadedConfig{
		Species:         out,
		ServerAddress:   ":8080",
		DBPath:          "./data/battles.db",
		TurnTimeLimit:   time.Duration(rc.TurnTimeLimitSeconds) * time.Second,
		SweepInterval:   "@every 5s",
		ConflictRetries: 3,
		ConflictBackoff: 50 * time.Millisecond,
	}
	if rc.Server != nil && rc.Server.Address != "" {
		cfg.ServerAddress = rc.Server.Address
	}
	if rc.SweepInterval != "" {
		cfg.SweepInterval = rc.SweepInterval
	}
	if rc.ConflictRetries > 0 {
		cfg.ConflictRetries = rc.ConflictRetries
	}
	if rc.ConflictBackoffMillis > 0 {
		cfg.ConflictBackoff = time.Duration(rc.ConflictBackoffMillis) * time.Millisecond
	}

	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}
	if ov.Address != "" {
		cfg.ServerAddress = ov.Address
	}
	if ov.DBPath != "" {
		cfg.DBPath = ov.DBPath
	}
	return cfg, nil
}
