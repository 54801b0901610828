package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bolo-service/internal/store"
)

type invoiceReq struct {
	BookingID   string `json:"booking_id" binding:"required"`
	Kind        string `json:"kind" binding:"required,oneof=invoice quote"`
	Year        int    `json:"year"`
	AmountCents int64  `json:"amount_cents" binding:"required"`
}

// POST /api/invoices
func (a *App) CreateInvoiceHandler(c *gin.Context) {
	var req invoiceReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Year == 0 {
		req.Year = time.Now().Year()
	}
	inv := &store.Invoice{
		BookingID:   req.BookingID,
		Kind:        req.Kind,
		Year:        req.Year,
		AmountCents: req.AmountCents,
	}
	if err := a.Invoices.Create(c.Request.Context(), inv); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// GET /api/invoices?kind=invoice&year=2026
func (a *App) ListInvoicesHandler(c *gin.Context) {
	kind := c.DefaultQuery("kind", "invoice")
	if kind != "invoice" && kind != "quote" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be invoice or quote"})
		return
	}
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	invoices, err := a.Invoices.ListByYear(c.Request.Context(), kind, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, invoices)
}
