package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type loginCmd struct {
	app      *App
	username string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in and remember the session" }
func (*loginCmd) Usage() string {
	return `folio login -u <username> [-p <password>]

  Authenticates against the server. The password is read from standard
  input when -p is omitted. The session is kept until "folio logout".
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "Username.")
	f.StringVar(&c.password, "p", "", "Password. Prompted for when empty.")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	if c.username == "" {
		fmt.Fprintln(a.Err, "a username is required (-u)")
		return subcommands.ExitUsageError
	}
	password := c.password
	if password == "" {
		password = a.readLine("Password: ")
	}

	if !a.Session.Login(ctx, c.username, password) {
		fmt.Fprintln(a.Err, "Login failed: invalid username or password")
		return subcommands.ExitFailure
	}
	u := a.Session.User()
	fmt.Fprintf(a.Out, "Logged in as %s (%s)\n", u.Username, u.Role)
	return subcommands.ExitSuccess
}

type logoutCmd struct {
	app *App
}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "end the session" }
func (*logoutCmd) Usage() string {
	return `folio logout

  Revokes the session on the server when possible and always forgets it
  locally.
`
}
func (*logoutCmd) SetFlags(*flag.FlagSet) {}

func (c *logoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c.app.Session.Logout(ctx)
	fmt.Fprintln(c.app.Out, "Logged out")
	return subcommands.ExitSuccess
}

type whoamiCmd struct {
	app *App
}

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "show the logged-in user" }
func (*whoamiCmd) Usage() string {
	return `folio whoami
`
}
func (*whoamiCmd) SetFlags(*flag.FlagSet) {}

func (c *whoamiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	if !a.requireSession(ctx) {
		return subcommands.ExitUsageError
	}
	u := a.Session.User()
	fmt.Fprintf(a.Out, "%s (%s) at %s\n", u.Username, u.Role, a.Config.ServerURL)
	return subcommands.ExitSuccess
}
