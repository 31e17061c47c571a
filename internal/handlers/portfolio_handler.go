package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "folio/internal/errors"
	"folio/internal/services"
	"folio/internal/uuid"
)

// PortfolioHandler serves derived views: summary, charts and reports.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// GetSummary returns portfolio totals, per-investment returns and tag totals
// @Summary     Portfolio summary
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} analytics.Summary
// @Router      /portfolio/summary [get]
func (h *PortfolioHandler) GetSummary(c *gin.Context) {
	summary, err := h.portfolioService.GetSummary()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetChart renders an analytics chart as PNG
// @Summary     Analytics chart
// @Description kind is one of tags, returns or history. history accepts an optional investment_id.
// @Tags        analytics
// @Produce     png
// @Security    BearerAuth
// @Param       kind path string true "Chart kind"
// @Param       investment_id query string false "Investment ID (history only)"
// @Success     200 {file} binary
// @Failure     400 {object} ErrorResponse "Unknown chart"
// @Failure     422 {object} ErrorResponse "Not enough data"
// @Router      /analytics/charts/{kind} [get]
func (h *PortfolioHandler) GetChart(c *gin.Context) {
	investmentID := c.Query("investment_id")
	if investmentID != "" && !uuid.IsValid(investmentID) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid investment_id"))
		return
	}

	data, err := h.portfolioService.RenderChart(services.ChartKind(c.Param("kind")), investmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// GetDashboardReport renders the dashboard as markdown or HTML
// @Summary     Dashboard report
// @Tags        reports
// @Produce     plain
// @Produce     html
// @Security    BearerAuth
// @Param       format query string false "md (default) or html"
// @Success     200 {string} string
// @Failure     400 {object} ErrorResponse "Unknown format"
// @Router      /reports/dashboard [get]
func (h *PortfolioHandler) GetDashboardReport(c *gin.Context) {
	switch c.DefaultQuery("format", "md") {
	case "md", "markdown":
		md, err := h.portfolioService.DashboardMarkdown()
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
	case "html":
		page, err := h.portfolioService.DashboardHTML()
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "format must be md or html"))
	}
}
