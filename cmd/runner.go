package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/djx/internal/services"
	"github.com/desertthunder/djx/internal/shared"
	"github.com/desertthunder/djx/internal/spotify"
	"github.com/desertthunder/djx/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	service    services.Service
	client     *spotify.Client
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.CatalogEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Service    services.Service
	Client     *spotify.Client
	Cache      tasks.TrackCacher
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
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

	engine := tasks.NewCatalogEngine(opts.Service, opts.Cache)

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		service:    opts.Service,
		client:     opts.Client,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     engine,
	}
}

// SetLogger swaps the runner's logger, used when redirecting logs to a file.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, featuresCommand, apiCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// saveTokens writes a token obtained from the authorization flow into the
// runner's config, persisting to disk when a config path is known.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	if r.config == nil {
		return fmt.Errorf("config is nil")
	}
	if token == nil {
		return fmt.Errorf("failed to update spotify configuration: token cannot be nil")
	}

	r.config.Credentials.Spotify.AccessToken = token.AccessToken

	if r.configPath != "" {
		if err := shared.SaveConfig(r.configPath, r.config); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}

	return nil
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

// drainProgress consumes progress updates and prints each message until the
// channel is closed.
func (r *Runner) drainProgress(progress <-chan tasks.ProgressUpdate, done chan<- struct{}) {
	for update := range progress {
		r.writePlain("→ %s\n", update.Message)
	}
	close(done)
}
