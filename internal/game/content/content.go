// Package content loads every YAML and Lua asset the engine needs into one
// Bundle.
package content

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/arena"
	"github.com/cory-johannsen/skirmish/internal/game/creature"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/party"
	"github.com/cory-johannsen/skirmish/internal/game/tile"
	"github.com/cory-johannsen/skirmish/internal/game/world"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// ScriptInstructionLimit bounds each Lua hook call.
const ScriptInstructionLimit = 100_000

// Bundle holds the loaded content.
type Bundle struct {
	Tiles    *tile.Tileset
	Catalog  *creature.Catalog
	Gear     *inventory.Registry
	Arenas   *arena.Library
	Party    *party.Party
	Root     *world.Map
	Start    grid.Coords
	Planners *ai.Registry
	Scripts  *scripting.Manager
}

// Load reads the content named by cfg. AI domains and scripts are optional;
// an empty path skips them.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a complete Bundle or the first load error. On error
// any script VMs already created are closed.
func Load(cfg config.ContentConfig, roller *dice.Roller, logger *zap.Logger) (*Bundle, error) {
	start := time.Now()
	b := &Bundle{}
	var err error

	if b.Tiles, err = tile.LoadTileset(cfg.Tiles); err != nil {
		return nil, fmt.Errorf("loading tiles: %w", err)
	}
	if b.Catalog, err = creature.LoadCatalog(cfg.Creatures); err != nil {
		return nil, fmt.Errorf("loading creatures: %w", err)
	}
	if err := b.Tiles.Require(append(b.Catalog.TileNames(), tile.HitFlash, tile.MissFlash, tile.MagicFlash)...); err != nil {
		return nil, fmt.Errorf("loading creatures: %w", err)
	}
	if b.Gear, err = inventory.Load(cfg.Weapons); err != nil {
		return nil, fmt.Errorf("loading weapons: %w", err)
	}
	if b.Arenas, err = arena.Load(cfg.Arenas, b.Tiles, b.Catalog); err != nil {
		return nil, fmt.Errorf("loading arenas: %w", err)
	}
	if b.Party, err = party.Load(cfg.Party, b.Gear, logger); err != nil {
		return nil, fmt.Errorf("loading party: %w", err)
	}
	if b.Root, b.Start, err = world.LoadMap(cfg.World, b.Tiles); err != nil {
		return nil, fmt.Errorf("loading world: %w", err)
	}

	b.Scripts = scripting.NewManager(roller, logger, ScriptInstructionLimit)
	if cfg.Scripts != "" {
		if err := b.Scripts.LoadGlobal(cfg.Scripts); err != nil {
			b.Scripts.Close()
			return nil, fmt.Errorf("loading scripts: %w", err)
		}
	}
	b.Planners = ai.NewRegistry()
	if cfg.AI != "" {
		domains, err := ai.LoadDomains(cfg.AI)
		if err != nil {
			b.Scripts.Close()
			return nil, fmt.Errorf("loading ai domains: %w", err)
		}
		if err := b.Planners.RegisterAll(domains, b.Scripts, scripting.GlobalScope); err != nil {
			b.Scripts.Close()
			return nil, fmt.Errorf("registering ai domains: %w", err)
		}
	}
	for _, t := range b.Catalog.All() {
		if t.AIDomain == "" {
			continue
		}
		if _, ok := b.Planners.PlannerFor(t.AIDomain); !ok {
			b.Scripts.Close()
			return nil, fmt.Errorf("creature %q: unknown ai domain %q", t.Name, t.AIDomain)
		}
	}

	logger.Info("content loaded",
		zap.Int("creatures", len(b.Catalog.All())),
		zap.Int("members", b.Party.Size()),
		zap.Strings("ai_domains", b.Planners.Domains()),
		zap.String("world", b.Root.ID),
		zap.Duration("elapsed", time.Since(start)),
	)
	return b, nil
}

// Close releases the script VMs.
func (b *Bundle) Close() {
	if b.Scripts != nil {
		b.Scripts.Close()
	}
}
