package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/djx/internal/repositories"
	"github.com/desertthunder/djx/internal/services"
	"github.com/desertthunder/djx/internal/shared"
	"github.com/desertthunder/djx/internal/spotify"
	"github.com/desertthunder/djx/internal/tasks"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := ""
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
			configPath = "config.toml"
		}
	}
	shared.ApplyEnvOverrides(config)

	var catalogService services.Service
	var client *spotify.Client

	creds := spotify.Credentials{
		ClientID:     config.Credentials.Spotify.ClientID,
		ClientSecret: config.Credentials.Spotify.ClientSecret,
		AccessToken:  config.Credentials.Spotify.AccessToken,
		Market:       config.Credentials.Spotify.Market,
	}
	if c, err := spotify.NewClient(creds, spotify.ClientOpts{}); err == nil {
		client = c
		catalogService = services.NewSpotifyService(c)
	}

	// Opportunistic caching only when the database has been set up.
	var cache tasks.TrackCacher
	if _, err := os.Stat(config.Database.Path); err == nil {
		if db, err := shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			cache = repositories.NewTrackCacheAdapter(
				repositories.NewTrackRepository(db),
				repositories.NewFeatureRepository(db),
			)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Service:    catalogService,
		Client:     client,
		Cache:      cache,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "djx",
		Usage:    "Search the Spotify catalog and analyze audio features",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
