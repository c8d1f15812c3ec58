package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"inkpress/app/config"
	"inkpress/app/middleware"
	"inkpress/app/routes"
)

const cliVersion = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch strings.ToLower(os.Args[1]) {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("inkpress version %s\n", cliVersion)
	case "serve":
		serve()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	helpText := `Usage: inkpress <command>
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve                          Run the blog REST API server.
`
	fmt.Println(helpText)
}

// serve opens the Badger store and runs the API server until it fails.
func serve() {
	cfg := config.Load()

	opts := badger.DefaultOptions(cfg.DBPath).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open Badger DB: %v", err)
	}
	defer db.Close()

	router, err := routes.Setup(db, cfg, middleware.HeaderResolver{})
	if err != nil {
		log.Fatalf("Failed to setup routes: %v", err)
	}

	log.Printf("Starting blog API on %s", cfg.ListenAddr)
	if err := routes.StartServer(cfg.ListenAddr, router); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
