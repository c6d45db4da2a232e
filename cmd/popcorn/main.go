package main

import (
	"flag"
	"fmt"
	"os"
	"popcorn/internal/di"
	"popcorn/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config/popcorn.yaml", "path to the yaml config file")
	flag.StringVar(&flags.EnvPath, "env", "", "path to a .env file (default: ./.env when present)")
	flag.BoolVar(&flags.DebugMode, "debug", false, "mirror logs to stderr")
	flag.Parse()

	app, cleanup, err := di.InitApp(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "popcorn: %s\n", err)
		os.Exit(1)
	}

	err = app.Run()
	cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "popcorn: %s\n", err)
		os.Exit(1)
	}
}
