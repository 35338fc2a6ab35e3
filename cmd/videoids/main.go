// videoids prints the video IDs of the course resource videos found in the
// playlist, for updating the fixed resource list.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/ashureev/dsa90/internal/config"
	"github.com/ashureev/dsa90/internal/domain"
	"github.com/ashureev/dsa90/internal/youtube"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.YouTube.APIKey == "" {
		slog.Error("YOUTUBE_API_KEY is required")
		os.Exit(1)
	}

	client := youtube.New(youtube.Options{
		APIKey:     cfg.YouTube.APIKey,
		PlaylistID: cfg.YouTube.PlaylistID,
		BaseURL:    cfg.YouTube.BaseURL,
		Timeout:    cfg.YouTube.RequestTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	items, err := client.PlaylistItems(ctx)
	if err != nil {
		slog.Error("Failed to fetch playlist", "error", err)
		os.Exit(1)
	}

	matches := youtube.MatchTitles(items, domain.ResourceTitles())
	if len(matches) == 0 {
		slog.Warn("No resource videos found in playlist", "items", len(items))
		return
	}
	for _, it := range matches {
		fmt.Printf("%s\t%s\n", it.VideoID, it.Title)
	}
}
