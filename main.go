package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classroom-assistant-go/classroom"
	"classroom-assistant-go/config"
	"classroom-assistant-go/db"
	"classroom-assistant-go/handlers"
	"classroom-assistant-go/logging"
	"classroom-assistant-go/notify"
	"classroom-assistant-go/timer"

	"github.com/gin-gonic/gin"
	"github.com/labstack/gommon/log"
)

func main() {
	configFile := flag.String("config", "", "optional config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := logging.Setup(cfg.Log.Level); err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open %s storage: %v", cfg.Storage.Driver, err)
	}
	defer store.Close()

	hub := notify.NewHub()
	defer hub.Close()
	notifier := notify.Multi{notify.Log{}, hub}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine := classroom.New(db.NewStateRepository(store), classroom.Options{
		Notifier:   notifier,
		Rand:       rand.New(rand.NewSource(seed)),
		DrawFrames: cfg.Draw.Frames,
		Rows:       cfg.Seating.Rows,
		Cols:       cfg.Seating.Cols,
	})
	// A corrupt store is reported and the engine starts empty; only a backend
	// failure is fatal.
	if err := engine.Load(context.Background()); err != nil && classroom.KindOf(err) != classroom.KindStorageCorruption {
		log.Fatalf("failed to load classroom data: %v", err)
	}

	countdown := timer.NewCountdown(timer.Options{
		Max:      cfg.Timer.Max,
		Interval: cfg.Timer.Tick,
		OnTick: func(st timer.State) {
			hub.Publish(notify.Event{Type: notify.TypeCountdown, Data: st})
		},
		OnDone: func(timer.State) {
			notifier.Notify("Time is up!", classroom.NoticeLong)
		},
	})
	stopwatch := timer.NewStopwatch(timer.Options{
		Max:      cfg.Timer.Max,
		Interval: cfg.Timer.Tick,
		OnTick: func(st timer.State) {
			hub.Publish(notify.Event{Type: notify.TypeStopwatch, Data: st})
		},
	})
	defer countdown.Stop()
	defer stopwatch.Stop()

	router := gin.Default()
	handlers.RegisterRoutes(router,
		handlers.NewAPIHandler(engine, cfg.Draw.FrameInterval),
		handlers.NewTimerHandler(countdown, stopwatch),
		gin.WrapF(hub.ServeWS),
	)

	srv := &http.Server{Addr: cfg.HTTP.Addr(), Handler: router}
	go func() {
		log.Infof("starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to run server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("server shutdown: %v", err)
	}
}

func openStore(cfg *config.Config) (db.KeyValueStore, error) {
	switch cfg.Storage.Driver {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return db.OpenRedis(ctx, db.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	default:
		return db.OpenBolt(cfg.Storage.BoltPath)
	}
}
