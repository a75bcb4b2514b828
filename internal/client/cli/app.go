package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/cygnuslabs/cygnusone/internal/client/api"
	"github.com/cygnuslabs/cygnusone/internal/client/config"
	"github.com/cygnuslabs/cygnusone/internal/client/feed"
	"github.com/cygnuslabs/cygnusone/internal/client/models"
	"github.com/cygnuslabs/cygnusone/internal/client/repositories/prefs"
	"github.com/cygnuslabs/cygnusone/internal/client/repositories/secrets"
	"github.com/cygnuslabs/cygnusone/internal/client/session"
	"github.com/cygnuslabs/cygnusone/internal/client/storage"
	"github.com/cygnuslabs/cygnusone/internal/cryptox"
	"github.com/cygnuslabs/cygnusone/internal/debuglog"
	"github.com/cygnuslabs/cygnusone/internal/logging"
	"github.com/cygnuslabs/cygnusone/internal/pubsub"
)

// screen identifies which command set the REPL currently exposes.
type screen int

const (
	screenLogin screen = iota
	screenArticles
)

// authManager is the session surface the shell needs. *session.Manager
// satisfies it; tests provide a stub.
type authManager interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
	CurrentUser(ctx context.Context) (*models.User, error)
	RefreshUser(ctx context.Context) (*models.User, error)
	Subscribe(fn func(session.Event)) *pubsub.Subscription[session.Event]
}

type App struct {
	config   *config.Config
	log      logging.Logger
	ring     *debuglog.Ring
	auth     authManager
	feed     *feed.Controller
	articles api.ArticleAPI
	db       *sql.DB
	reader   *bufio.Reader
	sub      *pubsub.Subscription[session.Event]

	mu     sync.Mutex
	screen screen
}

// NewApp opens local storage and wires the API clients, session manager and
// feed controller together.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger, ring *debuglog.Ring) (*App, error) {
	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	keyMaterial, err := cryptox.LoadOrCreateKeyFile(c.KeyFilePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("loading key file: %w", err)
	}
	key := cryptox.DeriveKey(keyMaterial)

	store := session.NewStore(
		secrets.NewSQLiteRepository(db, key),
		prefs.NewSQLiteRepository(db),
	)

	httpClient := api.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, log)

	return &App{
		config:   c,
		log:      log,
		ring:     ring,
		auth:     session.NewManager(httpClient, store, log),
		feed:     feed.NewController(httpClient, log),
		articles: httpClient,
		db:       db,
		reader:   bufio.NewReader(os.Stdin),
		screen:   screenLogin,
	}, nil
}

// Run drives the REPL until the user exits. The initial screen follows the
// persisted session: a valid local session skips the login screen.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	if a.auth.IsAuthenticated(ctx) {
		a.setScreen(screenArticles)
		if user, err := a.auth.CurrentUser(ctx); err == nil && user != nil {
			printlnFn(fmt.Sprintf("Welcome back, %s!", user.Name))
		}
		if err := a.feed.Initialize(ctx); err != nil {
			printlnFn(errorStyle.Render(userMessage(err)))
		} else {
			a.printArticles(0)
		}
	} else {
		printlnFn("Welcome to CygnusOne (type 'help' for commands)")
	}

	// Screen changes follow auth events so a session change from any code
	// path redirects the shell.
	a.sub = a.auth.Subscribe(func(e session.Event) {
		switch e.Type {
		case session.EventLoggedIn:
			a.setScreen(screenArticles)
		case session.EventLoggedOut:
			a.setScreen(screenLogin)
		}
	})

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) close() {
	if a.sub != nil {
		a.sub.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) setScreen(s screen) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.screen = s
}

func (a *App) currentScreen() screen {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.screen
}

// status renders the prompt decoration: the user's email when logged in,
// plus the active filter if any.
func (a *App) status() string {
	s := ""
	if user, err := a.auth.CurrentUser(context.Background()); err == nil && user != nil {
		s = user.Email
	}
	if author := a.feed.AuthorFilter(); author != "" {
		s += " author:" + author
	}
	if tag := a.feed.TagFilter(); tag != "" {
		s += " tag:" + tag
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
