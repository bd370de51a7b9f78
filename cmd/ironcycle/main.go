package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/meltforce/ironcycle/internal/config"
	"github.com/meltforce/ironcycle/internal/engine"
	"github.com/meltforce/ironcycle/internal/mcp"
	"github.com/meltforce/ironcycle/internal/program"
	"github.com/meltforce/ironcycle/internal/server"
	"github.com/meltforce/ironcycle/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	mcpMode := flag.Bool("mcp", false, "serve MCP over stdio instead of HTTP")
	mcpRemote := flag.String("mcp-remote", "", "with --mcp: serve from a remote IronCycle server URL instead of the local database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("IronCycle starting", "version", Version)

	// Remote MCP mode needs no config file or database at all.
	if *mcpMode && *mcpRemote != "" {
		apiKey := os.Getenv("IRONCYCLE_AUTH_API_KEY")
		ds := mcp.NewHTTPClient(*mcpRemote, apiKey)
		if err := mcpserver.ServeStdio(mcp.New(ds, Version, log)); err != nil {
			log.Error("mcp server error", "error", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	svc := program.New(db, log)
	if cfg.Program.Adjustments != nil {
		if err := svc.SetAdjustments(adjustmentTable(cfg.Program.Adjustments)); err != nil {
			log.Error("invalid adjustment table", "error", err)
			os.Exit(1)
		}
		log.Info("custom adjustment table loaded")
	}

	if *mcpMode {
		ds := &mcp.Local{DB: db, Svc: svc}
		if err := mcpserver.ServeStdio(mcp.New(ds, Version, log)); err != nil {
			log.Error("mcp server error", "error", err)
			os.Exit(1)
		}
		return
	}

	srv := server.New(db, svc, cfg.Auth.APIKey, log)

	// Start server over tsnet or a plain listener
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

func adjustmentTable(a *config.AdjustmentsConfig) engine.AdjustmentTable {
	return engine.AdjustmentTable{
		Deficit2Plus: a.Deficit2Plus,
		Deficit1:     a.Deficit1,
		Hit:          a.Hit,
		Surplus1:     a.Surplus1,
		Surplus2:     a.Surplus2,
		Surplus3:     a.Surplus3,
		Surplus4:     a.Surplus4,
		Surplus5Plus: a.Surplus5Plus,
	}
}
