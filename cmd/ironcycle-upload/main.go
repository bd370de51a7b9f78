package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/meltforce/ironcycle/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "IronCycle server URL (e.g. https://ironcycle.tail1234.ts.net)")
	apiKey := flag.String("api-key", "", "API key for write endpoints (or IRONCYCLE_AUTH_API_KEY)")
	exportPath := flag.String("path", "", "path to directory containing set history CSVs")
	dryRun := flag.Bool("dry-run", false, "parse files but don't send to server")
	batchSize := flag.Int("batch-size", 2000, "sets per upload payload")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("ironcycle-upload", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *exportPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: ironcycle-upload -server <URL> -path <export dir> [-dry-run] [-batch-size N]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *serverURL == "" && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: -server is required (or use -dry-run)\n")
		os.Exit(1)
	}

	key := *apiKey
	if key == "" {
		key = os.Getenv("IRONCYCLE_AUTH_API_KEY")
	}

	// Strip trailing slash from server URL
	*serverURL = strings.TrimRight(*serverURL, "/")

	// Resolve export directory
	exportDir, err := upload.ResolveDir(*exportPath)
	if err != nil {
		log.Error("export directory not found", "path", *exportPath, "error", err)
		os.Exit(1)
	}
	log.Info("using export directory", "path", exportDir)

	// Open state database
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	stateDir := filepath.Join(homeDir, ".ironcycle-upload")

	state, err := upload.OpenStateDB(stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	// Create client (nil-safe in dry-run mode)
	var client *upload.Client
	if !*dryRun {
		client = upload.NewClient(*serverURL, key)
	}

	if *dryRun {
		log.Info("DRY RUN mode: files will be parsed but not sent")
	}

	// Run upload
	uploader := upload.New(client, state, exportDir, *dryRun, *batchSize, log)
	stats, err := uploader.Run()
	if err != nil {
		log.Error("upload failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}

	printStats(stats)
	log.Info("upload complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Upload Summary ===")
	fmt.Printf("  Files total:    %d\n", stats.FilesTotal)
	fmt.Printf("  Files uploaded: %d\n", stats.FilesUploaded)
	fmt.Printf("  Files skipped:  %d (already uploaded)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:  %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Sets sent:      %d\n", stats.SetsSent)
	fmt.Printf("  Sets inserted:  %d\n", stats.SetsInserted)
	fmt.Println()
}
