// Command migrate applies the embedded schema migrations to DATABASE_URL.
//
//	go run ./cmd/migrate            # migrate up
//	go run ./cmd/migrate -direction down
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"saas-control-plane/backend/internal/config"
	"saas-control-plane/backend/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", "up", "up or down")
	flag.Parse()

	if err := run(*direction); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run(direction string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set; copy .env.example to .env or export it")
	}

	err = migrate.Run(cfg.DatabaseURL, direction)
	if errors.Is(err, migrate.ErrNoChange) {
		// Already at the target version.
		return nil
	}
	return err
}
