package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/artx/internal/services"
	"github.com/desertthunder/artx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(defaultConfigPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(defaultConfigPath); err == nil {
			config = loadedConfig
		}
	}

	var musicbrainz *services.MusicBrainzService
	var audiodb *services.AudioDBService
	var youtube *services.YouTubeService

	if svc, err := services.NewMusicBrainzService(config.Credentials.MusicBrainz, config.Limits.MusicBrainz, nil); err == nil {
		musicbrainz = svc
	} else {
		logger.Debug("musicbrainz service unavailable", "error", err)
	}

	if svc, err := services.NewAudioDBService(config.Credentials.AudioDB, config.Limits.AudioDB, nil); err == nil {
		audiodb = svc
	} else {
		logger.Debug("audiodb service unavailable", "error", err)
	}

	if svc, err := services.NewYouTubeService(config.Credentials.YouTube, config.Limits.YouTube, nil); err == nil {
		youtube = svc
	} else {
		logger.Debug("youtube service unavailable", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:      config,
		MusicBrainz: musicbrainz,
		AudioDB:     audiodb,
		YouTube:     youtube,
		Logger:      logger,
	})

	app := &cli.Command{
		Name:     "artx",
		Usage:    "Build, enrich & reshape artist datasets from MusicBrainz, TheAudioDB and YouTube",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Warn("not authenticated, run 'artx auth youtube' first")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
