package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"SkinIndex/internal/api"
	"SkinIndex/internal/catalog"
	"SkinIndex/internal/config"
	"SkinIndex/internal/loader"
	"SkinIndex/internal/recorder"
	"SkinIndex/internal/scheduler"
	"SkinIndex/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] SkinIndex starting...")

	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO] .env not loaded: %v", err)
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Catalog: configured collections, else whatever is on disk
	var cat *catalog.Catalog
	if len(cfg.Catalog) > 0 {
		cat = catalog.FromConfig(cfg.Catalog)
	} else {
		cat, err = catalog.Discover(cfg.Data.Dir)
		if err != nil {
			log.Fatalf("[FATAL] discover catalog: %v", err)
		}
	}
	defs := cat.Indexes()
	log.Printf("[INFO] catalog: %d items, %d indexes", len(cat.Items), len(defs))

	// Init source
	var src loader.Source
	if cfg.Data.SourceURL != "" {
		src = loader.NewRemoteSource(cfg.Data.SourceURL, cfg.Loader.Timeout)
	} else {
		src = loader.NewFileSource(cfg.Data.Dir)
	}
	log.Printf("[INFO] data source: %s", src.Name())

	st := store.New(defs, loader.New(src), cfg.Loader.Workers)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, st, rec)
	if err := sched.RegisterAll(cfg.Schedule.RebuildCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}

	// Build before serving; requests get 503 until the first snapshot lands.
	go func() {
		if _, err := sched.Rebuild(ctx, scheduler.TriggerStartup); err != nil {
			log.Printf("[ERROR] initial rebuild: %v", err)
		}
	}()
	sched.Start()
	defer sched.Stop()

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(st, func(ctx context.Context) (store.BuildStats, error) {
		return sched.Rebuild(ctx, scheduler.TriggerAPI)
	}, api.DefaultsFromConfig(cfg))

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("[INFO] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[INFO] shutdown signal received, stopping...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] server shutdown: %v", err)
	}
	log.Println("[INFO] SkinIndex stopped")
}
