package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/tickmud/internal/combat"
	"github.com/pixil98/tickmud/internal/driver"
	"github.com/pixil98/tickmud/internal/environment"
	"github.com/pixil98/tickmud/internal/game"
	"github.com/pixil98/tickmud/internal/leveling"
	"github.com/pixil98/tickmud/internal/messaging"
	"github.com/pixil98/tickmud/internal/metrics"
	"github.com/pixil98/tickmud/internal/player"
	"github.com/pixil98/tickmud/internal/repop"
	"github.com/pixil98/tickmud/internal/rng"
	"github.com/pixil98/go-service/service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}
	ctx := context.Background()

	// Load templates and instance the world
	dict, err := cfg.Storage.BuildDictionary()
	if err != nil {
		return nil, fmt.Errorf("building dictionary: %w", err)
	}
	world, err := cfg.World.buildWorld(dict)
	if err != nil {
		return nil, err
	}

	db, err := cfg.Storage.OpenDatabase()
	if err != nil {
		return nil, err
	}
	chars := game.NewCharacterStore(db)

	// Messaging
	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	pub := messaging.NewPublisher(natsServer, world)

	queue := cfg.Queue.buildQueue()
	random := rng.New()

	// Simulation
	advancer := leveling.NewAdvancer(dict, random, pub, chars, nil)
	engine := combat.NewEngine(world, pub, random, chars, combat.WithLeveler(advancer))
	fights := combat.NewManager(world, engine)
	env := environment.NewProcessor(world, pub, random, engine, cfg.Environment.processorOpts()...)
	repopper := repop.NewEngine(world, pub, random, repop.WithChatter(repop.Greeting{}, queue))
	players := player.NewManager(world, chars, pub, engine, cfg.World.home())

	// Metrics
	rec, err := metrics.NewRecorder(metrics.NewBoltStore(db))
	if err != nil {
		return nil, fmt.Errorf("loading world metrics: %w", err)
	}
	prepareWorld(ctx, world, rec, repopper)

	opts, err := cfg.Scheduler.schedulerOpts()
	if err != nil {
		return nil, err
	}
	opts = append(opts, driver.WithAutosave(queue, chars))
	scheduler := driver.NewScheduler(world, fights, env, repopper, rec, opts...)

	workers := service.WorkerList{
		"scheduler": scheduler,
		"nats":      natsServer,
		"commands":  messaging.NewCommandListener(natsServer, world, players),
		"sessions":  messaging.NewSessionListener(natsServer, players),
		"queue":     queue,
	}

	metricsServer, err := cfg.Metrics.buildServer(rec)
	if err != nil {
		return nil, fmt.Errorf("creating metrics server: %w", err)
	}
	if metricsServer != nil {
		workers["metrics"] = metricsServer
	}

	return workers, nil
}

// worldPreparer is the part of repop.Engine run once at startup.
type worldPreparer interface {
	Cleanup(ctx context.Context) repop.CleanupResult
	Populate(ctx context.Context) error
}

// prepareWorld brings a freshly loaded world to a runnable state: saved game
// time, initial metrics, cleanup, population and a final recount.
func prepareWorld(ctx context.Context, world *game.World, rec *metrics.Recorder, rp worldPreparer) {
	world.Do(func() {
		if rec.Restore(world) {
			slog.InfoContext(ctx, "restored game time", "time", world.Time)
		}
		rec.Derive(world)
		rp.Cleanup(ctx)
	})

	if err := rp.Populate(ctx); err != nil {
		slog.WarnContext(ctx, "initial population incomplete", "error", err)
	}
	world.Do(func() { rec.Derive(world) })
}
