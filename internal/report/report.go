// Package report renders portfolio views as markdown, and markdown as HTML.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"folio/internal/amount"
	"folio/internal/analytics"
	"folio/internal/models"
)

//go:embed templates/*.md
var templates embed.FS

// partials are parsed into every report.
var partials = []string{"tags", "investments"}

// funcs builds the template helpers. An empty currency marks totals summed
// across currencies.
func funcs(currency string) template.FuncMap {
	return template.FuncMap{
		"money": func(v int64) string {
			if currency == "" {
				return amount.Unconverted(v)
			}
			return amount.Format(v, currency)
		},
		"signed": func(v int64) string {
			if currency == "" {
				if v > 0 {
					return "+" + amount.Unconverted(v)
				}
				return amount.Unconverted(v)
			}
			return amount.Signed(v, currency)
		},
		"moneyIn": func(v int64, c string) string {
			return amount.Format(v, c)
		},
		"signedIn": func(v int64, c string) string {
			return amount.Signed(v, c)
		},
		"pct":   amount.Percent,
		"share": func(p float64) string { return fmt.Sprintf("%.1f%%", p) },
		"cell":  cell,
		"tags": func(tags []string) string {
			if len(tags) == 0 {
				return "-"
			}
			return cell(strings.Join(tags, ", "))
		},
		"action": func(a models.AuditAction) string {
			return strings.ToLower(strings.ReplaceAll(string(a), "_", " "))
		},
		"returnOf": func(inv models.Investment) float64 {
			return analytics.ReturnPercentage(inv.CurrentValue-inv.InitialInvestment, inv.InitialInvestment)
		},
	}
}

// cell escapes text for use inside a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func render(mainFile string, currency string, data any) (string, error) {
	tmpl := template.New(mainFile).Funcs(funcs(currency))

	content, err := fs.ReadFile(templates, "templates/"+mainFile+".md")
	if err != nil {
		return "", fmt.Errorf("reading template %q: %w", mainFile, err)
	}
	if _, err := tmpl.Parse(string(content)); err != nil {
		return "", fmt.Errorf("parsing template %q: %w", mainFile, err)
	}

	for _, name := range partials {
		content, err := fs.ReadFile(templates, "templates/"+name+".md")
		if err != nil {
			return "", fmt.Errorf("reading partial %q: %w", name, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return "", fmt.Errorf("parsing partial %q: %w", name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, mainFile, data); err != nil {
		return "", fmt.Errorf("executing template %q: %w", mainFile, err)
	}
	return b.String(), nil
}

// Dashboard renders the summary with its tag breakdown and investment list.
func Dashboard(s analytics.Summary) (string, error) {
	return render("dashboard", s.Currency, s)
}

// Analytics renders returns per investment and the tag distribution.
func Analytics(s analytics.Summary) (string, error) {
	return render("analytics", s.Currency, s)
}

// List renders the investment list with the ids commands take.
func List(s analytics.Summary) (string, error) {
	return render("list", s.Currency, s)
}

// Investment renders one investment with its transaction history.
func Investment(inv models.Investment) (string, error) {
	currency := inv.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return render("investment", currency, inv)
}

// History renders the audit trail of one investment.
func History(name string, entries []models.AuditLog) (string, error) {
	return render("history", models.DefaultCurrency, struct {
		Name    string
		Entries []models.AuditLog
	}{name, entries})
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML converts markdown into a standalone HTML page.
func HTML(title, md string) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(md), &body); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	page.WriteString(template.HTMLEscapeString(title))
	page.WriteString("</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}
