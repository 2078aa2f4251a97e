package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"apexfund/internal/models"
	"apexfund/internal/pagination"
	"apexfund/internal/services"
	"apexfund/internal/validator"
)

// PortfolioHandler serves the dashboard summary, cash reserves and
// performance snapshots.
type PortfolioHandler struct {
	portfolio services.PortfolioServicer
	snapshots services.SnapshotServicer
	currency  string
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolio services.PortfolioServicer, snapshots services.SnapshotServicer, currency string) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio, snapshots: snapshots, currency: currency}
}

// CashResponse is the cash reserve balance.
type CashResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
	Message   string          `json:"message,omitempty"`
}

// SnapshotResponse wraps a recorded snapshot.
type SnapshotResponse struct {
	Snapshot *models.PortfolioSnapshot `json:"snapshot"`
}

// GetSummary returns the derived portfolio metrics
// @Summary     Portfolio summary
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PortfolioSummary "Summary"
// @Router      /portfolio/summary [get]
func (h *PortfolioHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.portfolio.ComputeSummary())
}

// GetCash returns the cash reserve balance
// @Summary     Get cash reserves
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} CashResponse "Cash reserves"
// @Router      /portfolio/cash [get]
func (h *PortfolioHandler) GetCash(c *gin.Context) {
	cash := h.portfolio.CashReserves()
	c.JSON(http.StatusOK, CashResponse{Amount: cash, Formatted: services.FormatMoney(cash, h.currency)})
}

// UpdateCash replaces the cash reserve balance
// @Summary     Update cash reserves
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body     services.UpdateCashInput true "New balance"
// @Success     200     {object} CashResponse             "Updated balance"
// @Failure     400     {object} ErrorResponse            "Invalid input"
// @Router      /portfolio/cash [put]
func (h *PortfolioHandler) UpdateCash(c *gin.Context) {
	var req services.UpdateCashInput
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	cash, err := h.portfolio.SetCashReserves(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	formatted := services.FormatMoney(cash, h.currency)
	c.JSON(http.StatusOK, CashResponse{
		Amount:    cash,
		Formatted: formatted,
		Message:   fmt.Sprintf("Cash reserves updated to %s", formatted),
	})
}

// ListSnapshots returns recorded snapshots, newest first
// @Summary     List portfolio snapshots
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       page      query    int false "Page number (default 1)"
// @Param       page_size query    int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.PortfolioSnapshot] "Paginated snapshots"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /portfolio/snapshots [get]
func (h *PortfolioHandler) ListSnapshots(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, validator.FromError(err))
		return
	}

	result, err := h.snapshots.List(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RecordSnapshot stores the current summary as a snapshot
// @Summary     Record portfolio snapshot
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} SnapshotResponse "Recorded snapshot"
// @Failure     500 {object} ErrorResponse    "Server error"
// @Router      /portfolio/snapshots [post]
func (h *PortfolioHandler) RecordSnapshot(c *gin.Context) {
	snapshot, err := h.snapshots.Record(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SnapshotResponse{Snapshot: snapshot})
}
