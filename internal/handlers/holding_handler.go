package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"apexfund/internal/models"
	"apexfund/internal/services"
	"apexfund/internal/validator"
)

// HoldingHandler serves the coin collection.
type HoldingHandler struct {
	portfolio services.PortfolioServicer
	currency  string
}

// NewHoldingHandler creates a new HoldingHandler. currency is used for the
// amounts quoted in confirmation messages.
func NewHoldingHandler(portfolio services.PortfolioServicer, currency string) *HoldingHandler {
	return &HoldingHandler{portfolio: portfolio, currency: currency}
}

// ListHoldingsQuery selects holdings by sale status.
type ListHoldingsQuery struct {
	Status string `form:"status" binding:"holding_filter"`
}

// HoldingListResponse is the holdings collection.
type HoldingListResponse struct {
	Holdings []models.Holding `json:"holdings"`
	Count    int              `json:"count"`
}

// HoldingResponse wraps a single holding with an optional confirmation.
type HoldingResponse struct {
	Holding *models.Holding `json:"holding"`
	Message string          `json:"message,omitempty"`
}

// ListHoldings returns the holdings, optionally filtered by status
// @Summary     List holdings
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Param       status query    string              false "sold or unsold"
// @Success     200    {object} HoldingListResponse "Holdings in insertion order"
// @Failure     400    {object} ErrorResponse       "Invalid filter"
// @Router      /holdings [get]
func (h *HoldingHandler) ListHoldings(c *gin.Context) {
	var q ListHoldingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, validator.FromError(err))
		return
	}

	holdings, err := h.portfolio.ListHoldings(models.HoldingFilter(q.Status))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, HoldingListResponse{Holdings: holdings, Count: len(holdings)})
}

// AddHolding adds a coin to the collection
// @Summary     Add holding
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body     services.AddHoldingInput true "New coin"
// @Success     201     {object} HoldingResponse          "Created holding"
// @Failure     400     {object} ErrorResponse            "Invalid input"
// @Failure     500     {object} ErrorResponse            "Server error"
// @Router      /holdings [post]
func (h *HoldingHandler) AddHolding(c *gin.Context) {
	var req services.AddHoldingInput
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.portfolio.AddHolding(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, HoldingResponse{Holding: holding, Message: "New coin added to your collection"})
}

// GetHolding returns one holding
// @Summary     Get holding
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Param       id  path     string          true "Holding ID"
// @Success     200 {object} HoldingResponse "Holding"
// @Failure     404 {object} ErrorResponse   "Not found"
// @Router      /holdings/{id} [get]
func (h *HoldingHandler) GetHolding(c *gin.Context) {
	holding, err := h.portfolio.GetHolding(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, HoldingResponse{Holding: holding})
}

// DeleteHolding removes a holding. Deleting an unknown id succeeds.
// @Summary     Delete holding
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Param       id  path     string          true "Holding ID"
// @Success     200 {object} MessageResponse "Deleted"
// @Failure     500 {object} ErrorResponse   "Server error"
// @Router      /holdings/{id} [delete]
func (h *HoldingHandler) DeleteHolding(c *gin.Context) {
	if err := h.portfolio.DeleteHolding(c.Request.Context(), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Coin has been deleted"})
}

// MarkSold records the sale of a holding
// @Summary     Mark holding sold
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path     string                 true "Holding ID"
// @Param       request body     services.MarkSoldInput true "Sale"
// @Success     200     {object} HoldingResponse        "Sold holding"
// @Failure     400     {object} ErrorResponse          "Invalid input"
// @Failure     404     {object} ErrorResponse          "Not found"
// @Failure     409     {object} ErrorResponse          "Already sold"
// @Router      /holdings/{id}/sale [post]
func (h *HoldingHandler) MarkSold(c *gin.Context) {
	var req services.MarkSoldInput
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.portfolio.MarkSold(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	msg := fmt.Sprintf("Coin marked as sold for %s", services.FormatMoney(*holding.SoldPrice, h.currency))
	c.JSON(http.StatusOK, HoldingResponse{Holding: holding, Message: msg})
}

// MarkUnsold reverts a sale
// @Summary     Mark holding not sold
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Param       id  path     string          true "Holding ID"
// @Success     200 {object} HoldingResponse "Holding"
// @Failure     404 {object} ErrorResponse   "Not found"
// @Failure     409 {object} ErrorResponse   "Not sold"
// @Router      /holdings/{id}/sale [delete]
func (h *HoldingHandler) MarkUnsold(c *gin.Context) {
	holding, err := h.portfolio.MarkUnsold(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, HoldingResponse{Holding: holding, Message: "Coin marked as not sold"})
}

// Stream pushes the full holdings list as a "holdings" server-sent event on
// connect and after every change.
// @Summary     Stream holdings
// @Tags        holdings
// @Produce     text/event-stream
// @Security    BearerAuth
// @Success     200 {array} models.Holding "Event stream"
// @Router      /holdings/stream [get]
func (h *HoldingHandler) Stream(c *gin.Context) {
	// Listeners run under the store lock; keep only the latest list.
	updates := make(chan []models.Holding, 1)
	sub := h.portfolio.Subscribe(func(list []models.Holding) {
		select {
		case updates <- list:
		default:
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- list:
			default:
			}
		}
	})
	defer h.portfolio.Unsubscribe(sub)

	initial, err := h.portfolio.ListHoldings(models.HoldingFilterAll)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.SSEvent("holdings", initial)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case list := <-updates:
			c.SSEvent("holdings", list)
			c.Writer.Flush()
		}
	}
}
