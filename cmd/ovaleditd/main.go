package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"oval-editor/internal/classify"
	"oval-editor/internal/config"
	"oval-editor/internal/db"
	"oval-editor/internal/factory"
	"oval-editor/internal/httpapi"
	"oval-editor/internal/models"
	"oval-editor/internal/registry"
	"oval-editor/internal/session"
	"oval-editor/internal/store"
	"oval-editor/internal/validate"
)

func main() {
	cfgPath := flag.String("config", "/etc/ovaleditd.yaml", "config file path")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	reg := registry.New()
	table := classify.New()
	if cfg.ExtensionsPath != "" {
		ext, err := registry.LoadExtensions(cfg.ExtensionsPath)
		if err != nil {
			log.Fatalf("load extensions: %v", err)
		}
		if err := ext.Apply(reg, table); err != nil {
			log.Fatalf("apply extensions: %v", err)
		}
		slog.Info("loaded extensions", "path", cfg.ExtensionsPath,
			"variants", len(ext.Variants), "rules", len(ext.Classification))
	}

	sessions, err := session.NewManager(cfg.Sessions.MaxOpen, models.Generator{
		ProductName:    cfg.ProductName,
		ProductVersion: httpapi.Version,
		SchemaVersion:  cfg.SchemaVersion,
	})
	if err != nil {
		log.Fatalf("sessions: %v", err)
	}

	deps := &httpapi.Deps{
		Config:    cfg,
		Registry:  reg,
		Factory:   factory.New(reg, table),
		Validator: validate.New(reg),
		Sessions:  sessions,
	}

	if cfg.DBDSN != "" {
		pool, err := db.NewPool(context.Background(), cfg.DBDSN)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer pool.Close()

		if err := store.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalf("db schema: %v", err)
		}
		deps.DB = pool
	} else {
		slog.Warn("no db_dsn configured, snapshots are disabled")
	}

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      httpapi.NewRouter(deps),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("OVAL editor service listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
}
