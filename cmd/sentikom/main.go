package main

import (
	"fmt"
	"os"

	"github.com/mzackyaulya/sentikom/config"
	"github.com/mzackyaulya/sentikom/internal/logging"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	app := newCLIApp(cfg)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
