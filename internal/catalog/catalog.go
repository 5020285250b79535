// Package catalog is the boundary to the monster catalog. The battle
// engine only ever sees an immutable stat snapshot taken when a roster
// slot is created; catalog entries are never re-read during a battle.
package catalog

import (
	"strings"

	"github.com/monsterhaven/battle-engine/internal/battle"
)

// Species is one catalog entry's base stats, as configured.
type Species struct {
	Name      string
	Types     []string
	Moves     []string
	HP        int
	Attack    int
	Defense   int
	SpAttack  int
	SpDefense int
	Speed     int
}

// Catalog resolves species by normalized name.
type Catalog struct {
	byName map[string]Species
}

func New(species []Species) *Catalog {
	m := make(map[string]Species, len(species))
	for _, s := range species {
		m[nameKey(s.Name)] = s
	}
	return &Catalog{byName: m}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup returns the species entry for the given name.
func (c *Catalog) Lookup(name string) (Species, bool) {
	s, ok := c.byName[nameKey(name)]
	return s, ok
}

// Names lists the configured species names.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.byName))
	for _, s := range c.byName {
		out = append(out, s.Name)
	}
	return out
}

// Snapshot freezes a species' stats into the battle-scoped form stored on
// a roster slot. Level scaling is the caller's concern; the snapshot
// copies stats as-is.
func (s Species) Snapshot(displayName string, level int) battle.MonsterSnapshot {
	name := displayName
	if name == "" {
		name = s.Name
	}
	if level <= 0 {
		level = 1
	}
	return battle.MonsterSnapshot{
		Name:      name,
		Species:   s.Name,
		Types:     append([]string(nil), s.Types...),
		Level:     level,
		Moves:     append([]string(nil), s.Moves...),
		HP:        s.HP,
		Attack:    s.Attack,
		Defense:   s.Defense,
		SpAttack:  s.SpAttack,
		SpDefense: s.SpDefense,
		Speed:     s.Speed,
	}
}
