package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/Lesmash/spotify-playlist-creator/internal/controller"
	"github.com/Lesmash/spotify-playlist-creator/internal/history"
	"github.com/Lesmash/spotify-playlist-creator/internal/models"
	"github.com/Lesmash/spotify-playlist-creator/internal/repositories"
	"github.com/Lesmash/spotify-playlist-creator/internal/server"
	"github.com/Lesmash/spotify-playlist-creator/internal/services"
	"github.com/Lesmash/spotify-playlist-creator/internal/session"
	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
	"github.com/Lesmash/spotify-playlist-creator/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	db         *sql.DB
	storage    models.Storage
	backend    services.Gateway
	api        *services.APIService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	login      controller.LoginFunc
	notify     func(string)
	copy       func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Nil dependencies are built from the loaded config when a command runs.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Storage    models.Storage
	Backend    services.Gateway
	API        *services.APIService
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Login      controller.LoginFunc
	Clipboard  func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		storage:    opts.Storage,
		backend:    opts.Backend,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		login:      opts.Login,
		copy:       opts.Clipboard,
	}
	r.notify = func(s string) { r.writePlain("%s\n", s) }
	if r.login == nil {
		r.login = r.catchToken
	}
	return r
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the database handle, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// Init is the app's Before hook. It loads the config named by --config and applies
// the --backend-url override, then builds whichever clients were not injected.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.config == nil {
		r.config = shared.DefaultConfig()
		if _, err := os.Stat(r.configPath); err == nil {
			cfg, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return ctx, err
			}
			r.config = cfg
		}
	}

	if url := cmd.String("backend-url"); url != "" {
		r.config.Backend.BaseURL = strings.TrimRight(url, "/")
	}

	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if r.backend == nil {
		r.backend = services.NewBackend(r.config.Backend, r.httpClient, r.logger)
	}
	if r.api == nil {
		r.api = services.NewAPIService(r.config.Backend.BaseURL, r.httpClient)
	}
	return ctx, nil
}

// store returns the key/value storage, opening the database on first use.
func (r *Runner) store() (models.Storage, error) {
	if r.storage != nil {
		return r.storage, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db = db
	r.storage = repositories.NewLocalStorage(db)
	return r.storage, nil
}

// session builds a [session.Session] over the store and applies --token or --redirect.
func (r *Runner) session(cmd *cli.Command) (*session.Session, error) {
	storage, err := r.store()
	if err != nil {
		return nil, err
	}

	sess := session.New(storage, r.logger)
	sess.Load()

	if redirect := cmd.String("redirect"); redirect != "" {
		cleaned, err := sess.CaptureRedirect(redirect)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("using token from redirect", "url", cleaned)
	} else if token := cmd.String("token"); token != "" {
		sess.SetToken(token)
	}
	return sess, nil
}

// controller wires a [controller.Controller] for one command or TUI run. Call after [Runner.session].
func (r *Runner) controller(sess *session.Session, progress chan<- tasks.ProgressUpdate) *controller.Controller {
	store := history.NewStore(r.storage, sess.Active, history.WithLogger(r.logger))
	return controller.New(controller.Options{
		Gateway:  r.backend,
		Session:  sess,
		History:  store,
		Loader:   tasks.NewLoader(r.backend, r.config.Backend.RequestsPerSecond, r.logger),
		Login:    r.login,
		Logger:   r.logger,
		Progress: progress,
	})
}

// catchToken runs the browser login through the local redirect catcher.
func (r *Runner) catchToken(ctx context.Context, authURL string) (string, error) {
	token, err := server.CatchToken(ctx, authURL, server.LoginOpts{
		Addr:    r.config.Server.Addr(),
		Timeout: r.config.Server.LoginTimeout.Duration,
		Notify:  r.notify,
		Logger:  r.logger,
	})
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, loginCommand, statusCommand, profileCommand, createCommand,
		historyCommand, themeCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
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
