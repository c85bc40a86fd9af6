package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/imagekit/internal/config"
	"github.com/ironsheep/imagekit/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("imagekit %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("imagekit - MCP server for image conversion, optimization and comparison")
			fmt.Println()
			fmt.Println("Usage: imagekit [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Printf("  %s=/path/imagekit.yaml   Load configuration from a YAML file\n", config.EnvConfigPath)
			fmt.Printf("  %s=debug            Override the configured log level\n", config.EnvLogLevel)
			fmt.Println()
			fmt.Println("External tools: rsvg-convert (SVG rendering) and ImageMagick compare.")
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "imagekit: %v\n", err)
		os.Exit(1)
	}

	// Logging goes to stderr; stdout is for MCP protocol
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	server.Version = Version
	slog.Debug("Main: starting", "version", Version, "built", BuildTime, "commit", GitCommit,
		"svg_renderer", cfg.SVG.Renderer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg).Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("Main: server error", "error", err)
		os.Exit(1)
	}
}
