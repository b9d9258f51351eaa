package main

import (
	"context"
	"embed"
	"fmt"
	"log"
	"os"

	"github.com/appetiteclub/apt"
	"github.com/joho/godotenv"
)

//go:embed seed.json
var seedFS embed.FS

const (
	appNamespace = "FOODCOURT"
	appName      = "foodcourt"
	appVersion   = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// A local .env is optional; config falls back to defaults without it.
	_ = godotenv.Load()

	config, err := apt.LoadConfig(appNamespace, os.Args[2:])
	if err != nil {
		log.Fatalf("%s(%s) cannot load config: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := apt.NewLogger(logLevel)

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "demo":
		if err := runDemo(ctx, config, logger); err != nil {
			log.Fatalf("Demo failed: %v", err)
		}

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - NextGen Mall food court demo

Usage:
  %s <command> [options]

Commands:
  demo         Run the scripted walkthrough (customer ordering + owner dashboard)
  version      Print version
  help         Show this help

Options (env prefix %s_):
  store.path   Path for the persisted key-value snapshot (default: in-memory)
  nats.url     NATS server URL for cross-window broadcasts (default: in-process)
  log.level    Log level (default: info)
`, appName, appName, appNamespace)
}
