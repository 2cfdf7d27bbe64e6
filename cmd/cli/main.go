package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fMoyano90/universonomada-web/internal/config"
	"github.com/fMoyano90/universonomada-web/internal/session"
)

// Maintenance commands for operators: check the backend API is reachable
// and purge wizard drafts left behind in Redis.
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "check-api":
		checkAPICmd := flag.NewFlagSet("check-api", flag.ExitOnError)
		timeout := checkAPICmd.Duration("timeout", 5*time.Second, "Request timeout")
		checkAPICmd.Parse(os.Args[2:])
		checkAPI(cfg.APIBaseURL, *timeout)

	case "purge-drafts":
		purgeCmd := flag.NewFlagSet("purge-drafts", flag.ExitOnError)
		purgeCmd.Parse(os.Args[2:])
		purgeDrafts(cfg)

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: cli <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  check-api [-timeout 5s]   Verify the backend API responds")
	fmt.Println("  purge-drafts              Delete all stored wizard drafts")
}

func checkAPI(baseURL string, timeout time.Duration) {
	client := &http.Client{Timeout: timeout}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/sliders/active", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building request: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "API unreachable: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	fmt.Printf("API responded with %d in %s\n", resp.StatusCode, time.Since(start).Round(time.Millisecond))
	if resp.StatusCode >= 500 {
		os.Exit(1)
	}
}

func purgeDrafts(cfg *config.Config) {
	store := session.NewStore(cfg.RedisAddr, cfg.RedisPass)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to Redis: %v\n", err)
		os.Exit(1)
	}

	n, err := store.PurgeDrafts(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error purging drafts: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Purged %d draft(s).\n", n)
}
