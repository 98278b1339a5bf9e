// Command cron triggers the cleanup endpoints of a running API. It is meant to
// be run by an external scheduler.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/unimarket/internal/config"
	"github.com/MrJamesThe3rd/unimarket/internal/logging"
)

var endpoints = []string{
	"/api/jobs/cleanup-escrow",
	"/api/jobs/cleanup-sponsorships",
}

type cleanupResponse struct {
	Success        bool  `json:"success"`
	ProcessedCount int64 `json:"processedCount"`
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadCron()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logging.New(cfg.App.Env, cfg.App.LogLevel))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client := &http.Client{Timeout: cfg.Server.Timeout}
	base := strings.TrimRight(cfg.Jobs.TargetURL, "/")

	g, ctx := errgroup.WithContext(ctx)

	for _, path := range endpoints {
		g.Go(func() error {
			n, err := trigger(ctx, client, base+path, cfg.Jobs.CronSecret)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			slog.Info("cleanup finished", "job", path, "processed", n)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("cleanup failed", "error", err)
		os.Exit(1)
	}
}

func trigger(ctx context.Context, client *http.Client, url, secret string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+secret)

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out cleanupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decoding response: %w", err)
	}

	return out.ProcessedCount, nil
}
