package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"folio/internal/amount"
	"folio/internal/client"
	"folio/internal/models"
)

type addCmd struct {
	app         *App
	name        string
	description string
	initial     string
	current     string
	currency    string
	tags        string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add an investment" }
func (*addCmd) Usage() string {
	return `folio add -name <name> -initial <amount> [-current <amount>] [-currency <code>] [-tags a,b] [-description <text>]

  Amounts are decimal in major units, e.g. 1,250.50. The current value
  defaults to the initial investment.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Investment name.")
	f.StringVar(&c.description, "description", "", "Free text description.")
	f.StringVar(&c.initial, "initial", "", "Amount initially invested.")
	f.StringVar(&c.current, "current", "", "Current value, if different from the initial investment.")
	f.StringVar(&c.currency, "currency", "", "ISO 4217 currency code. Defaults to the configured currency.")
	f.StringVar(&c.tags, "tags", "", "Comma separated tags.")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	if !a.requireSession(ctx) {
		return subcommands.ExitUsageError
	}
	if strings.TrimSpace(c.name) == "" || c.initial == "" {
		fmt.Fprintln(a.Err, "-name and -initial are required")
		return subcommands.ExitUsageError
	}

	currency := strings.ToUpper(c.currency)
	if currency == "" {
		currency = a.Config.Currency
	}
	initial, err := amount.Parse(c.initial, currency)
	if err != nil {
		return a.usage(err)
	}
	in := client.NewInvestment{
		Name:              strings.TrimSpace(c.name),
		Description:       c.description,
		InitialInvestment: initial,
		Currency:          currency,
		Tags:              models.ParseTags(c.tags),
	}
	if c.current != "" {
		current, err := amount.Parse(c.current, currency)
		if err != nil {
			return a.usage(err)
		}
		in.CurrentValue = &current
	}

	created, err := a.Repo.Add(ctx, in)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.Out, "Added %s (%s) worth %s\n", created.Name, created.ID, amount.Format(created.CurrentValue, created.Currency))
	return subcommands.ExitSuccess
}

type updateCmd struct {
	app         *App
	id          string
	name        string
	description string
	initial     string
	currency    string
	tags        string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "change an investment's details" }
func (*updateCmd) Usage() string {
	return `folio update -id <investment id> [-name ...] [-description ...] [-initial ...] [-currency ...] [-tags ...]

  Only the flags given are changed. The current value moves through
  transactions only; see "folio tx".
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Investment id.")
	f.StringVar(&c.name, "name", "", "New name.")
	f.StringVar(&c.description, "description", "", "New description.")
	f.StringVar(&c.initial, "initial", "", "New initial investment amount.")
	f.StringVar(&c.currency, "currency", "", "New currency code.")
	f.StringVar(&c.tags, "tags", "", "Replacement comma separated tags; empty clears them.")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	if !a.requireSession(ctx) {
		return subcommands.ExitUsageError
	}
	if c.id == "" {
		fmt.Fprintln(a.Err, "-id is required")
		return subcommands.ExitUsageError
	}
	if !a.load(ctx) {
		return subcommands.ExitFailure
	}
	inv, ok := a.Repo.Get(c.id)
	if !ok {
		fmt.Fprintf(a.Err, "investment %s not found\n", c.id)
		return subcommands.ExitFailure
	}

	set := visited(f)
	var patch client.InvestmentPatch
	currency := inv.Currency
	if set["currency"] {
		currency = strings.ToUpper(c.currency)
		patch.Currency = &currency
	}
	if set["name"] {
		name := strings.TrimSpace(c.name)
		patch.Name = &name
	}
	if set["description"] {
		patch.Description = &c.description
	}
	if set["initial"] {
		initial, err := amount.Parse(c.initial, currency)
		if err != nil {
			return a.usage(err)
		}
		patch.InitialInvestment = &initial
	}
	if set["tags"] {
		tags := models.ParseTags(c.tags)
		patch.Tags = &tags
	}
	if len(set) == 1 {
		fmt.Fprintln(a.Err, "nothing to update")
		return subcommands.ExitUsageError
	}

	username := ""
	if u := a.Session.User(); u != nil {
		username = u.Username
	}
	updated, err := a.Repo.Update(ctx, c.id, patch, username)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.Out, "Updated %s (%s)\n", updated.Name, updated.ID)
	return subcommands.ExitSuccess
}

type deleteCmd struct {
	app *App
	id  string
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete an investment and its transactions" }
func (*deleteCmd) Usage() string {
	return `folio delete -id <investment id>

  Deleting an investment that does not exist succeeds.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Investment id.")
}

func (c *deleteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	if !a.requireSession(ctx) {
		return subcommands.ExitUsageError
	}
	if c.id == "" {
		fmt.Fprintln(a.Err, "-id is required")
		return subcommands.ExitUsageError
	}
	if err := a.Repo.Delete(ctx, c.id); err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.Out, "Deleted %s\n", c.id)
	return subcommands.ExitSuccess
}

type txCmd struct {
	app         *App
	id          string
	txType      string
	amount      string
	date        string
	description string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "record a buy, sell, dividend or fee" }
func (*txCmd) Usage() string {
	return `folio tx -id <investment id> -type buy|sell|dividend|fee -amount <amount> [-date YYYY-MM-DD] [-description <text>]

  Buys add the amount to the current value and sells subtract it.
  Dividends and fees are recorded without changing the value.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Investment id.")
	f.StringVar(&c.txType, "type", "", "Transaction type: buy, sell, dividend or fee.")
	f.StringVar(&c.amount, "amount", "", "Transaction amount, not negative.")
	f.StringVar(&c.date, "date", "", "Transaction date. Defaults to now.")
	f.StringVar(&c.description, "description", "", "Free text description.")
}

func (c *txCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	if !a.requireSession(ctx) {
		return subcommands.ExitUsageError
	}
	if c.id == "" || c.amount == "" {
		fmt.Fprintln(a.Err, "-id, -type and -amount are required")
		return subcommands.ExitUsageError
	}
	txType, err := parseTransactionType(c.txType)
	if err != nil {
		return a.usage(err)
	}
	date, err := parseDate(c.date)
	if err != nil {
		return a.usage(err)
	}

	if !a.load(ctx) {
		return subcommands.ExitFailure
	}
	inv, ok := a.Repo.Get(c.id)
	if !ok {
		fmt.Fprintf(a.Err, "investment %s not found\n", c.id)
		return subcommands.ExitFailure
	}
	value, err := amount.Parse(c.amount, inv.Currency)
	if err != nil {
		return a.usage(err)
	}
	if value < 0 {
		return a.usage(fmt.Errorf("amount must not be negative"))
	}

	tx, err := a.Repo.AddTransaction(ctx, c.id, client.NewTransaction{
		Date:        date,
		Amount:      value,
		Type:        txType,
		Description: c.description,
	})
	if err != nil {
		return a.fail(err)
	}
	after, _ := a.Repo.Get(c.id)
	fmt.Fprintf(a.Out, "Recorded %s of %s on %s; %s is now worth %s\n",
		tx.Type, amount.Format(tx.Amount, inv.Currency), tx.Date.Format(dateLayout),
		after.Name, amount.Format(after.CurrentValue, after.Currency))
	return subcommands.ExitSuccess
}
