package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/KLubina/Modul-335/core"
	"github.com/KLubina/Modul-335/core/module"
	logsvc "github.com/KLubina/Modul-335/services/logger"
	"github.com/KLubina/Modul-335/storage/database"
	"github.com/KLubina/Modul-335/storage/database/inmem"
	"github.com/KLubina/Modul-335/storage/database/sqlx"
)

var logger core.Logger

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger = logsvc.NewStdLogger(log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := commandLine{
		validator: module.NewValidator(conf.Locale),
		logger:    logger,
		out:       os.Stdout,
	}

	// set up DB
	var repo module.Repository
	if conf.Database.Engine == database.EngineMemory {
		db, err := inmemdb.Open()
		errAndDie(err)
		repo = inmemdb.NewModuleRepository(db)
	} else {
		db, err := database.Open(conf.Database)
		errAndDie(err)
		defer db.Close()

		// `migrate` manages the schema itself
		if len(os.Args) < 2 || os.Args[1] != "migrate" {
			errAndDie(database.Migrate(db, logger))
		}
		cli.db = db
		repo = sqlxrepos.NewModuleRepository(db)
	}
	cli.svc = module.NewService(repo, logger)

	// start CLI
	err = cli.run(ctx, os.Args)
	if cErr := cli.svc.Close(context.Background()); cErr != nil {
		logger.Error("closing module service", cErr)
	}
	if err != nil {
		if err != errHelp {
			fmt.Fprintln(os.Stderr)
			printError(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
