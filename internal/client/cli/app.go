package cli

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/chainviewhq/chainview/internal/client/api"
	"github.com/chainviewhq/chainview/internal/client/config"
	"github.com/chainviewhq/chainview/internal/client/credstore"
	"github.com/chainviewhq/chainview/internal/client/session"
	"github.com/chainviewhq/chainview/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the session controller, the API client, and the credential
// store behind the REPL.
type App struct {
	config     *config.Config
	controller *session.Controller
	apiClient  api.Client
	signals    session.ChanSource
	reader     *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	store, err := credstore.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.APIBaseURL)
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	signals := make(session.ChanSource, 16)
	ctrl := session.New(apiClient, store, logger, session.Config{
		SessionDuration:  c.SessionDuration,
		CheckInterval:    c.CheckInterval,
		BootstrapTimeout: c.BootstrapTimeout,
		Policy: session.Policy{
			LockoutThreshold: c.LockoutThreshold,
			LockoutDuration:  c.LockoutDuration,
		},
	}, session.WithSignalSource(signals))

	return &App{
		config:     c,
		controller: ctrl,
		apiClient:  apiClient,
		signals:    signals,
		reader:     bufio.NewReader(os.Stdin),
	}, nil
}

// Run bootstraps the session and drives the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	a.controller.Start(ctx)
	defer a.controller.Stop()
	defer a.apiClient.Close()

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.controller.State().IsAuthenticated
}

// touch reports one keyboard interaction to the activity monitor. The
// channel is buffered; a full buffer just drops the signal, the next
// command will land.
func (a *App) touch() {
	select {
	case a.signals <- session.Signal{Kind: session.SignalKeyPress}:
	default:
	}
}
