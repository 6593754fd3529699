// simloop is a reference host driver: it wires the toolkit together and
// runs the frame loop until interrupted.
package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/gameobject-toolkit/autosave"
	"github.com/KirkDiggler/gameobject-toolkit/config"
	"github.com/KirkDiggler/gameobject-toolkit/events"
	"github.com/KirkDiggler/gameobject-toolkit/frames"
	"github.com/KirkDiggler/gameobject-toolkit/interaction"
	"github.com/KirkDiggler/gameobject-toolkit/pool"
	"github.com/KirkDiggler/gameobject-toolkit/saves"
	"github.com/KirkDiggler/gameobject-toolkit/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Tick rate: %d fps, saves backend: %s", cfg.Tick.Rate, cfg.Saves.Backend)

	store, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create save store: %v", err)
	}

	bus := events.NewBus()
	scheduler := frames.NewScheduler()
	publisher := interaction.NewPublisher(bus)

	spawner, err := pool.NewPool(&pool.Config{
		Factory: pool.FactoryFunc(func(ctx context.Context, key string) (any, error) {
			return &gameObject{kind: key}, nil
		}),
	})
	if err != nil {
		log.Fatalf("Failed to create pool: %v", err)
	}

	locator := services.NewLocator()
	mustRegister(locator, "bus", bus)
	mustRegister(locator, "saves", store)
	mustRegister(locator, "pool", spawner)
	mustRegister(locator, "interaction", publisher)

	world := &worldSim{pool: spawner, publisher: publisher}
	if err := scheduler.Dispatcher(frames.PhaseFixedUpdate).Register(world); err != nil {
		log.Fatalf("Failed to register world observer: %v", err)
	}

	hud := &hudListener{}
	if _, err := publisher.SubscribeClick("hud", hud.onClick); err != nil {
		log.Fatalf("Failed to subscribe hud: %v", err)
	}
	defer publisher.Release("hud")

	saver, err := autosave.New(&autosave.Config{
		Store:    store,
		Slot:     "autosave",
		Interval: uint64(cfg.Tick.Rate) * 30, // every 30s of frames
		Snapshot: world.snapshot,
	})
	if err != nil {
		log.Fatalf("Failed to create autosave: %v", err)
	}
	if err := scheduler.Dispatcher(frames.PhaseLateUpdate).Register(saver); err != nil {
		log.Fatalf("Failed to register autosave observer: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("Simulation loop running. Press Ctrl+C to exit.")
	if err := scheduler.Run(ctx, cfg.Tick.Rate); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Frame loop failed: %v", err)
	}
	log.Printf("Shut down after %d frames", scheduler.FrameNumber())
}

func buildStore(cfg *config.Config) (saves.Store, error) {
	if cfg.Saves.Backend == config.SavesBackendRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return saves.NewRedisStore(&saves.RedisConfig{Client: client})
	}
	return saves.NewFileStore(cfg.Saves.Dir)
}

func mustRegister(l *services.Locator, name string, svc any) {
	if err := l.Register(name, svc); err != nil {
		log.Fatalf("Failed to register service %s: %v", name, err)
	}
}

// gameObject is the demo pooled instance type.
type gameObject struct {
	kind string
}

// worldSim spawns and recycles objects each fixed step, and occasionally
// synthesizes a click so the interaction channel has traffic.
type worldSim struct {
	pool      *pool.Pool
	publisher *interaction.Publisher
	spawned   int
}

func (w *worldSim) OnTick(frame frames.Frame) error {
	inst, err := w.pool.Get(context.Background(), "npc")
	if err != nil {
		return err
	}
	w.spawned++
	w.pool.Put("npc", inst)

	if rand.Intn(120) == 0 {
		return w.publisher.PublishClick(interaction.ClickEvent{
			TargetID: "npc",
			X:        float64(rand.Intn(1920)),
			Y:        float64(rand.Intn(1080)),
			Frame:    frame.Number,
		})
	}
	return nil
}

func (w *worldSim) snapshot() (any, error) {
	return map[string]any{"spawned": w.spawned}, nil
}

// hudListener logs clicks as a stand-in for UI reaction.
type hudListener struct {
	clicks int
}

func (h *hudListener) onClick(evt interaction.ClickEvent) error {
	h.clicks++
	log.Printf("HUD: click %d on %s at (%.0f, %.0f)", h.clicks, evt.TargetID, evt.X, evt.Y)
	return nil
}
