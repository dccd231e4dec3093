// Package main starts the account shell: it parses configuration, sets up
// logging, opens the selected slot backend and runs the interactive loop
// over the account store.
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/atinyakov/accountstore/internal/client/shell"
	"github.com/atinyakov/accountstore/internal/config"
	"github.com/atinyakov/accountstore/internal/db"
	"github.com/atinyakov/accountstore/internal/logger"
	"github.com/atinyakov/accountstore/internal/repository"
	"github.com/atinyakov/accountstore/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if options.ShowVersion {
		fmt.Printf("Accounts\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Pick the slot backend.
	var repo service.SlotRepository
	switch options.Storage {
	case config.StoragePostgres:
		conn, err := db.InitPostgres(ctx, options.DatabaseDSN, options.SlotTable)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		defer conn.Close()
		pg := repository.NewPostgresSlotRepository(conn)
		pg.Table = options.SlotTable
		repo = pg
	case config.StorageMemory:
		repo = repository.NewMemorySlotRepository()
	default:
		repo = repository.NewFileSlotRepository(options.StorageDir)
	}
	zapLogger.Info("storage ready",
		zap.String("backend", options.Storage),
		zap.String("slot", options.SlotKey),
	)

	store := service.NewAccountStore(ctx, repo, options.SlotKey, zapLogger)

	sh := shell.New(store, os.Stdin, os.Stdout)
	if err := sh.Run(ctx); err != nil && ctx.Err() == nil {
		zapLogger.Error("shell stopped", zap.Error(err))
	}
}
