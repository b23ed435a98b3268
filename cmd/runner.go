package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/artx/internal/repositories"
	"github.com/desertthunder/artx/internal/services"
	"github.com/desertthunder/artx/internal/shared"
	"github.com/desertthunder/artx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	musicbrainz *services.MusicBrainzService
	audiodb     *services.AudioDBService
	youtube     *services.YouTubeService
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	MusicBrainz *services.MusicBrainzService
	AudioDB     *services.AudioDBService
	YouTube     *services.YouTubeService
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:      opts.Config,
		musicbrainz: opts.MusicBrainz,
		audiodb:     opts.AudioDB,
		youtube:     opts.YouTube,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
	}
}

// SetLogger swaps the runner's logger, used when the TUI redirects logs to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, enrichCommand, transformCommand, artistsCommand, cacheCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// sources returns every initialized enrichment service in precedence order.
func (r *Runner) sources() []services.Enricher {
	var list []services.Enricher
	if r.musicbrainz != nil {
		list = append(list, r.musicbrainz)
	}
	if r.audiodb != nil {
		list = append(list, r.audiodb)
	}
	if r.youtube != nil {
		list = append(list, r.youtube)
	}
	return list
}

// dumpTargets pairs each upstream base URL with a raw client for status probes.
func (r *Runner) dumpTargets() []tasks.DumpTarget {
	return []tasks.DumpTarget{
		{Name: services.SourceMusicBrainz, Path: "/artist?query=artist:a&fmt=json&limit=1", Client: services.NewAPIService(services.MusicBrainzBase, r.httpClient)},
		{Name: services.SourceAudioDB, Path: "/json/2/search.php?s=coldplay", Client: services.NewAPIService(services.AudioDBBase, r.httpClient)},
		{Name: services.SourceYouTube, Path: "/search?part=snippet&maxResults=1&q=a", Client: services.NewAPIService(services.YouTubeBase, r.httpClient)},
	}
}

// engine assembles an EnrichEngine with an optional cache adapter.
func (r *Runner) engine(cache tasks.Cacher) *tasks.EnrichEngine {
	var playlists tasks.PlaylistLister
	if r.youtube != nil {
		playlists = r.youtube
	}
	return tasks.NewEnrichEngine(r.sources(), playlists, r.dumpTargets(), cache)
}

// applyConfigFlag reloads the runner's config when a command overrides the
// config path. Load failures keep the existing config.
func (r *Runner) applyConfigFlag(cmd *cli.Command) {
	path := cmd.String("config")
	if path == "" || path == defaultConfigPath {
		return
	}
	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config override", "path", path, "error", err)
		return
	}
	r.config = config
}

// openDatabase opens the configured SQLite database and runs pending migrations.
// Callers own the returned handle.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// openCache opens the enrichment cache backed by the configured database.
func (r *Runner) openCache() (*repositories.CacheAdapter, *sql.DB, error) {
	db, err := r.openDatabase()
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewCacheAdapter(repositories.NewEnrichmentCacheRepository(db)), db, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
