package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"agricure-auth-service/internal/config"
	"agricure-auth-service/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	flag.Parse()

	cfg := config.Load()

	if err := migrate.Run(cfg.DBConnString, *direction); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return
		}
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
