// Command migrate applies or rolls back the Postgres schema.
//
//	migrate up
//	migrate down [steps]
//	migrate version
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"anonmsg/internal/platform/config"
	"anonmsg/internal/platform/logger"
	"anonmsg/internal/platform/postgres"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	if !cfg.UsesPostgres() {
		log.Error("postgres.dsn is not set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		log.Error("failed to open postgres", logger.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		err = postgres.Migrate(db)
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil || steps <= 0 {
				err = fmt.Errorf("invalid step count %q", os.Args[2])
				break
			}
		}
		err = postgres.Rollback(db, steps)
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = postgres.Version(db)
		if err == nil {
			log.Info("schema version", "version", version, "dirty", dirty)
		}
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		log.Error("migrate failed", "command", cmd, logger.Err(err))
		os.Exit(1)
	}
	log.Info("migrate finished", "command", cmd)
}
