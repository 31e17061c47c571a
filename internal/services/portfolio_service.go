package services

import (
	"errors"
	"time"

	"folio/internal/analytics"
	apperrors "folio/internal/errors"
	"folio/internal/models"
	"folio/internal/report"
)

// portfolioService derives summaries, charts and reports from the current
// investment list. Nothing it produces is stored.
type portfolioService struct {
	investments InvestmentServicer
	now         func() time.Time
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(investments InvestmentServicer) PortfolioServicer {
	return &portfolioService{investments: investments, now: time.Now}
}

// GetSummary aggregates every investment.
func (s *portfolioService) GetSummary() (*analytics.Summary, error) {
	all, err := s.investments.AllInvestments()
	if err != nil {
		return nil, err
	}
	summary := analytics.Summarize(all)
	return &summary, nil
}

// RenderChart draws the requested chart as PNG. investmentID narrows the
// history chart to one investment; it is ignored by the other kinds.
func (s *portfolioService) RenderChart(kind ChartKind, investmentID string) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	switch kind {
	case ChartTags:
		all, lerr := s.investments.AllInvestments()
		if lerr != nil {
			return nil, lerr
		}
		data, err = analytics.RenderTagChart(analytics.TagTotals(all))
	case ChartReturns:
		all, lerr := s.investments.AllInvestments()
		if lerr != nil {
			return nil, lerr
		}
		data, err = analytics.RenderReturnChart(analytics.Returns(all))
	case ChartHistory:
		var invs []models.Investment
		if investmentID != "" {
			inv, lerr := s.investments.GetInvestmentByID(investmentID)
			if lerr != nil {
				return nil, lerr
			}
			invs = []models.Investment{*inv}
		} else {
			all, lerr := s.investments.AllInvestments()
			if lerr != nil {
				return nil, lerr
			}
			invs = all
		}
		data, err = analytics.RenderHistoryChart(invs, s.now())
	default:
		return nil, apperrors.ErrUnknownChart
	}

	if err != nil {
		if errors.Is(err, analytics.ErrNoData) {
			return nil, apperrors.Wrap(apperrors.ErrNotEnoughHistory, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return data, nil
}

// DashboardMarkdown renders the dashboard report as markdown.
func (s *portfolioService) DashboardMarkdown() (string, error) {
	summary, err := s.GetSummary()
	if err != nil {
		return "", err
	}
	md, err := report.Dashboard(*summary)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return md, nil
}

// DashboardHTML renders the dashboard report as an HTML page.
func (s *portfolioService) DashboardHTML() ([]byte, error) {
	md, err := s.DashboardMarkdown()
	if err != nil {
		return nil, err
	}
	page, err := report.HTML("Folio dashboard", md)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return page, nil
}
