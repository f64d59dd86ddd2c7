package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"

	echoapi "github.com/KLubina/Modul-335/apps/api/echo"
	"github.com/KLubina/Modul-335/core"
	"github.com/KLubina/Modul-335/core/module"
	logsvc "github.com/KLubina/Modul-335/services/logger"
	"github.com/KLubina/Modul-335/storage/database"
	"github.com/KLubina/Modul-335/storage/database/inmem"
	"github.com/KLubina/Modul-335/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	repo, closeDB, err := setUpDB(conf, dbLogger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = closeDB(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	modSvc := module.NewService(repo, dbLogger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:      conf,
			Logger:    logger,
			ModuleSvc: modSvc,
			Validator: module.NewValidator(conf.Locale),
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
	}

	if err = shutdown(server, modSvc, conf.Server.ShutdownTimeout, logger); err != nil {
		logger.Error(fmt.Sprintf("shutdown: %v", err), err)
	}
}

// shutdown stops the server within timeout, then applies every queued module write.
// The writes run to completion whatever the server's deadline.
func shutdown(server echoapi.Server, svc *module.Service, timeout time.Duration, logger core.Logger) error {
	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var srvErr error
	// asking listener to shutdown and shed load
	if srvErr = server.Shutdown(ctx); srvErr != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", srvErr), srvErr)

		if err := server.Close(); err != nil {
			logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
		}
	}

	// apply the queued writes before the DB goes away
	if err := svc.Close(context.Background()); err != nil {
		return errors.Wrap(err, "draining module writes")
	}
	return errors.Wrap(srvErr, "stopping server")
}

// setUpDB opens and migrates the configured store.
func setUpDB(conf *core.Config, logger core.Logger) (module.Repository, func() error, error) {
	if conf.Database.Engine == database.EngineMemory {
		db, err := inmemdb.Open()
		if err != nil {
			return nil, nil, err
		}
		return inmemdb.NewModuleRepository(db), func() error { return nil }, nil
	}

	db, err := database.Open(conf.Database)
	if err != nil {
		return nil, nil, err
	}
	if err = database.Migrate(db, logger); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return sqlxrepos.NewModuleRepository(db), db.Close, nil
}
