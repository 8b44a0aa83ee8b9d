package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/villeh/early-mcp/internal/interface/cli"
)

// Version information (injected by GoReleaser)
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	// stdout carries JSON-RPC; everything else goes to stderr
	log.SetOutput(os.Stderr)
	log.SetPrefix("[early-mcp] ")

	// Load .env file (optional - won't error if missing)
	_ = godotenv.Load()

	cli.SetVersion(Version, Commit, Date)
	cli.Execute()
}
