// migrate runs local session store migrations from embedded SQL; use go run ./cmd/migrate.
package main

import (
	"flag"
	"fmt"
	"os"

	"care-connect/client/internal/config"
	"care-connect/client/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// Run reports nothing-to-do as success, so any error here is real.
	if err := migrate.Run(cfg.SessionDBPath(), *direction); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
