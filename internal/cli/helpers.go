package cli

import (
	"flag"
	"fmt"
	"time"

	"folio/internal/models"
)

const dateLayout = "2006-01-02"

// visited reports which flags were set on the command line.
func visited(f *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return set
}

// parseDate accepts YYYY-MM-DD or RFC3339. An empty string is the zero
// time, which the server stamps with the current time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func parseTransactionType(s string) (models.TransactionType, error) {
	t := models.TransactionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid transaction type %q, want one of %v", s, models.TransactionTypes)
	}
	return t, nil
}
