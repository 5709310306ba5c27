package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/lifts/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// lifts-mcp serves MCP over stdio for a local agent while lift state lives on a
// remote lifts server.
func main() {
	serverURL := flag.String("server", "", "lifts server URL (e.g. https://lifts.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("LIFTS_AUTH_API_KEY"), "API key for edits (default $LIFTS_AUTH_API_KEY)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("lifts-mcp", Version)
		return
	}

	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: lifts-mcp -server <URL> [-api-key KEY]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Stdout carries the protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	s := mcp.New(mcp.NewHTTPClient(*serverURL, *apiKey), Version, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}
