// Package main runs one skirmish encounter in the terminal: it loads the
// content, places the party on the overworld, triggers a fight and reads
// commands from stdin until the fight ends.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/frontend/text"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/command"
	"github.com/cory-johannsen/skirmish/internal/game/content"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/journal"
	"github.com/cory-johannsen/skirmish/internal/game/world"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/server"
	"github.com/cory-johannsen/skirmish/internal/storage/postgres"
	"github.com/cory-johannsen/skirmish/internal/storage/sqlite"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "skirmish: %v\n", err)
		os.Exit(1)
	}
}

// run wires the encounter and blocks until it ends. Deferred cleanup always
// runs because main is the only exit point.
func run(args []string) error {
	start := time.Now()

	flags := flag.NewFlagSet("skirmish", flag.ContinueOnError)
	configPath := flags.String("config", "configs/dev.yaml", "path to configuration file")
	creatureID := flags.Int("creature", 0, "creature template to fight; 0 picks the creature nearest the party")
	roomRef := flags.String("room", "", "staged dungeon room to fight in, as dungeon:index")
	from := flags.String("from", "south", "side the party enters a staged room from")
	camping := flags.Bool("camp", false, "fight as a camp ambush")
	recent := flags.Int("recent", 0, "print the last N journal records and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	lifecycle := server.NewLifecycle(logger)

	jrnl, closeJournal, err := openJournal(ctx, cfg, lifecycle, logger)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer closeJournal()

	if *recent > 0 {
		if err := printRecent(ctx, jrnl, *recent); err != nil {
			return fmt.Errorf("reading journal: %w", err)
		}
		return nil
	}

	src := dice.NewCryptoSource()
	if cfg.Combat.Seed != 0 {
		src = dice.NewSeededSource(cfg.Combat.Seed)
	}
	roller := dice.NewRoller(src, observability.Component(logger, "dice"))

	bundle, err := content.Load(cfg.Content, roller, observability.Component(logger, "content"))
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}
	defer bundle.Close()

	w := world.New(bundle.Root, bundle.Start, observability.Component(logger, "world"))
	term := text.NewTerminal(os.Stdout, bundle.Party)
	gctx := &combat.GameContext{
		Party:    bundle.Party,
		World:    w,
		Renderer: term,
		Audio:    text.LogAudio{Logger: observability.Component(logger, "audio")},
		Catalog:  bundle.Catalog,
		Tiles:    bundle.Tiles,
		Dice:     roller,
		Settings: &cfg.Combat,
		Logger:   observability.Component(logger, "combat"),
		Planners: bundle.Planners,
		Scripts:  bundle.Scripts,
		Journal:  jrnl,
	}

	var sess *combat.Session
	if *roomRef != "" {
		sess, err = roomSession(gctx, bundle, w, *roomRef, *from)
	} else {
		var enc combat.Encounter
		enc, err = bundle.Encounter(w, *creatureID, *camping)
		if err == nil {
			sess = combat.NewSession(gctx, enc)
		}
	}
	if err != nil {
		return fmt.Errorf("starting encounter: %w", err)
	}

	console := text.NewConsole(os.Stdin, term, command.DefaultRegistry(), observability.Component(logger, "console"))
	console.Attach(sess)
	sess.Begin()

	lifecycle.Add("console", &server.FuncService{
		StartFn: func() error { return console.Run(ctx) },
		StopFn:  console.Stop,
	})

	logger.Info("skirmish initialized",
		zap.String("session", sess.ID),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("skirmish error", zap.Error(err))
	}
	logger.Info("skirmish finished",
		zap.Stringer("outcome", sess.Outcome()),
		zap.Int("rounds", sess.Rounds()),
		zap.Int("gold", bundle.Party.Gold()),
	)
	return nil
}

func roomSession(gctx *combat.GameContext, bundle *content.Bundle, w *world.World, ref, from string) (*combat.Session, error) {
	if !w.InDungeon() {
		return nil, fmt.Errorf("room %q: the party is not in a dungeon (point content.world at a dungeon map)", ref)
	}
	room, err := bundle.Room(ref)
	if err != nil {
		return nil, err
	}
	dir, err := grid.ParseDirection(from)
	if err != nil {
		return nil, err
	}
	return combat.InitDungeonRoom(gctx, room, dir), nil
}

// openJournal connects the configured journal backend. The returned close
// function is always non-nil.
func openJournal(ctx context.Context, cfg config.Config, lifecycle *server.Lifecycle, logger *zap.Logger) (journal.Journal, func(), error) {
	switch cfg.Journal.Driver {
	case "sqlite":
		store, err := sqlite.Open(cfg.Journal.SQLitePath)
		if err != nil {
			return nil, func() {}, err
		}
		logger.Info("journal opened", zap.String("driver", "sqlite"), zap.String("path", cfg.Journal.SQLitePath))
		return store, func() { _ = store.Close() }, nil
	case "postgres":
		dbStart := time.Now()
		pool, err := postgres.Connect(ctx, cfg.Database, 500*time.Millisecond, logger)
		if err != nil {
			return nil, func() {}, err
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
			zap.String("database", cfg.Database.Name),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		lifecycle.Add("postgres", server.HealthLoop("postgres", 30*time.Second, func(ctx context.Context) error {
			return pool.Health(ctx, 5*time.Second)
		}, logger))
		return pool.Journal(), pool.Close, nil
	default:
		return journal.Nop{}, func() {}, nil
	}
}

func printRecent(ctx context.Context, j journal.Journal, limit int) error {
	recs, err := j.Recent(ctx, limit)
	if err != nil {
		return err
	}
	for _, r := range recs {
		fmt.Printf("%s  %-20s %-8s rounds=%-3d creatures=%-2d party=%d  %s\n",
			r.EndedAt.Local().Format(time.DateTime), r.Trigger, r.Outcome,
			r.Rounds, r.Creatures, r.PartySize, r.SessionID)
	}
	return nil
}
