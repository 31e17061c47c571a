// Package cli implements the folio command-line client. Each command maps
// to one screen of the dashboard: login, dashboard, investments and
// analytics, plus the mutations behind their forms.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"go.uber.org/zap"

	"folio/internal/cliconfig"
	"folio/internal/client"
	"folio/internal/repository"
	"folio/internal/session"
)

const wordWrap = 100

// App carries everything a command needs. main builds one per process.
type App struct {
	Config  *cliconfig.Config
	Client  *client.Client
	Session *session.Session
	Repo    *repository.Repository
	Logger  *zap.SugaredLogger

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Styled renders markdown through glamour; otherwise it is printed as is.
	Styled bool
}

// New wires the client, the persisted session and the repository from cfg.
func New(cfg *cliconfig.Config, logger *zap.SugaredLogger, store session.Store) *App {
	api := client.New(cfg.ServerURL,
		client.WithTimeout(cfg.GetTimeout()),
		client.WithRateLimit(cfg.RequestsPerSecond),
		client.WithLogger(logger.Named("client")),
	)
	sess := session.New(api, store, logger.Named("session"))
	sess.Restore()

	return &App{
		Config:  cfg,
		Client:  api,
		Session: sess,
		Repo:    repository.New(api, repository.WithLogger(logger.Named("repository"))),
		Logger:  logger,
		In:      os.Stdin,
		Out:     os.Stdout,
		Err:     os.Stderr,
	}
}

// Register adds every command to c.
func (a *App) Register(c *subcommands.Commander) {
	c.Register(&loginCmd{app: a}, "session")
	c.Register(&logoutCmd{app: a}, "session")
	c.Register(&whoamiCmd{app: a}, "session")

	c.Register(&dashboardCmd{app: a}, "portfolio")
	c.Register(&investmentsCmd{app: a}, "portfolio")
	c.Register(&analyticsCmd{app: a}, "portfolio")

	c.Register(&addCmd{app: a}, "investments")
	c.Register(&updateCmd{app: a}, "investments")
	c.Register(&deleteCmd{app: a}, "investments")
	c.Register(&txCmd{app: a}, "investments")
}

// requireSession guards commands that need a logged-in user. It rotates
// the token pair first so an expired access token does not fail the
// command; a rejected refresh token ends the session.
func (a *App) requireSession(ctx context.Context) bool {
	if a.Session.IsAuthenticated() {
		a.Session.Refresh(ctx)
	}
	if !a.Session.IsAuthenticated() {
		fmt.Fprintln(a.Err, "Not logged in, please log in with: folio login -u <username>")
		return false
	}
	return true
}

// load refreshes the repository from the server.
func (a *App) load(ctx context.Context) bool {
	if err := a.Repo.Load(ctx); err != nil {
		a.fail(err)
		return false
	}
	return true
}

// printMarkdown writes md to Out, styled when the app is attached to a
// terminal.
func (a *App) printMarkdown(md string) {
	if a.Styled {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(wordWrap))
		if err == nil {
			if out, err := r.Render(md); err == nil {
				fmt.Fprint(a.Out, out)
				return
			}
		}
	}
	fmt.Fprint(a.Out, md)
}

// fail reports err to the user and returns the matching exit status.
func (a *App) fail(err error) subcommands.ExitStatus {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		fmt.Fprintf(a.Err, "Error: %s\n", apiErr.Message)
	} else {
		fmt.Fprintf(a.Err, "Error: %v\n", err)
	}
	return subcommands.ExitFailure
}

// readLine reads one line from In, for prompts.
func (a *App) readLine(prompt string) string {
	fmt.Fprint(a.Err, prompt)
	line, _ := bufio.NewReader(a.In).ReadString('\n')
	return strings.TrimSpace(line)
}

// usage reports a bad argument.
func (a *App) usage(err error) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error: %v\n", err)
	return subcommands.ExitUsageError
}
