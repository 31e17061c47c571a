package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"folio/internal/analytics"
	"folio/internal/report"
)

type dashboardCmd struct {
	app *App
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show portfolio totals and the tag breakdown" }
func (*dashboardCmd) Usage() string {
	return `folio dashboard

  Loads every investment and prints total invested, current value, profit,
  return and value per tag.
`
}
func (*dashboardCmd) SetFlags(*flag.FlagSet) {}

func (c *dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	if !a.requireSession(ctx) {
		return subcommands.ExitUsageError
	}
	if !a.load(ctx) {
		return subcommands.ExitFailure
	}

	md, err := report.Dashboard(analytics.Summarize(a.Repo.Investments()))
	if err != nil {
		return a.fail(err)
	}
	a.printMarkdown(md)
	return subcommands.ExitSuccess
}

type investmentsCmd struct {
	app     *App
	id      string
	history bool
}

func (*investmentsCmd) Name() string { return "investments" }
func (*investmentsCmd) Synopsis() string {
	return "list investments, or show one with its transactions"
}
func (*investmentsCmd) Usage() string {
	return `folio investments [-id <investment id> [-history]]

  With -history the audit trail of the investment is shown instead; it is
  kept after the investment is deleted.
`
}

func (c *investmentsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Show a single investment and its transaction history.")
	f.BoolVar(&c.history, "history", false, "Show who changed the investment and when. Requires -id.")
}

func (c *investmentsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	if !a.requireSession(ctx) {
		return subcommands.ExitUsageError
	}
	if c.history {
		return c.showHistory(ctx)
	}
	if !a.load(ctx) {
		return subcommands.ExitFailure
	}

	var md string
	var err error
	if c.id != "" {
		inv, ok := a.Repo.Get(c.id)
		if !ok {
			fmt.Fprintf(a.Err, "investment %s not found\n", c.id)
			return subcommands.ExitFailure
		}
		md, err = report.Investment(inv)
	} else {
		md, err = report.List(analytics.Summarize(a.Repo.Investments()))
	}
	if err != nil {
		return a.fail(err)
	}
	a.printMarkdown(md)
	return subcommands.ExitSuccess
}

func (c *investmentsCmd) showHistory(ctx context.Context) subcommands.ExitStatus {
	a := c.app
	if c.id == "" {
		fmt.Fprintln(a.Err, "-history requires -id")
		return subcommands.ExitUsageError
	}
	entries, err := a.Client.InvestmentHistory(ctx, c.id, 0)
	if err != nil {
		return a.fail(err)
	}

	name := c.id
	if inv, err := a.Client.GetInvestment(ctx, c.id); err == nil {
		name = inv.Name
	}
	md, err := report.History(name, entries)
	if err != nil {
		return a.fail(err)
	}
	a.printMarkdown(md)
	return subcommands.ExitSuccess
}

type analyticsCmd struct {
	app          *App
	chart        string
	out          string
	investmentID string
}

func (*analyticsCmd) Name() string { return "analytics" }
func (*analyticsCmd) Synopsis() string {
	return "show returns and tag distribution, optionally as a chart"
}
func (*analyticsCmd) Usage() string {
	return `folio analytics [-chart tags|returns|history -o <file.png> [-id <investment id>]]

  Prints returns per investment and value per tag. With -chart the server
  renders the chosen chart and it is written to -o as PNG.
`
}

func (c *analyticsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.chart, "chart", "", "Chart kind to render: tags, returns or history.")
	f.StringVar(&c.out, "o", "chart.png", "Output file for -chart.")
	f.StringVar(&c.investmentID, "id", "", "Limit the history chart to one investment.")
}

func (c *analyticsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	if !a.requireSession(ctx) {
		return subcommands.ExitUsageError
	}

	if c.chart != "" {
		png, err := a.Client.Chart(ctx, c.chart, c.investmentID)
		if err != nil {
			return a.fail(err)
		}
		if err := os.WriteFile(c.out, png, 0o644); err != nil {
			return a.fail(err)
		}
		fmt.Fprintf(a.Out, "Wrote %s chart to %s\n", c.chart, c.out)
		return subcommands.ExitSuccess
	}

	if !a.load(ctx) {
		return subcommands.ExitFailure
	}
	md, err := report.Analytics(analytics.Summarize(a.Repo.Investments()))
	if err != nil {
		return a.fail(err)
	}
	a.printMarkdown(md)
	return subcommands.ExitSuccess
}
