// Command migrate runs the SQL schema migrations against postgres.
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"bizsite/internal/config"
	"bizsite/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|down|version> [steps]")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.MigrateUp(cfg.DatabaseURL); err != nil {
			return err
		}
		log.Println("sql migrations applied")
	case "down":
		steps := 1
		if flag.NArg() > 1 {
			steps, err = strconv.Atoi(flag.Arg(1))
			if err != nil {
				return fmt.Errorf("invalid steps %q: %w", flag.Arg(1), err)
			}
		}
		if err := database.MigrateDown(cfg.DatabaseURL, steps); err != nil {
			return err
		}
		log.Printf("rolled back %d migration(s)", steps)
	case "version":
		v, dirty, err := database.MigrationVersion(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		log.Printf("version=%d dirty=%t", v, dirty)
	default:
		return usage()
	}
	return nil
}
