package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/invoicebook/internal/invoice/domain"
)

type createInvoiceRequest struct {
	Date         string                    `json:"date"`
	DueDate      string                    `json:"dueDate"`
	Customer     invoicedomain.Customer    `json:"customer"`
	Items        []invoicedomain.ItemInput `json:"items"`
	TaxRate      *decimal.Decimal          `json:"taxRate"`
	TipAmount    decimal.Decimal           `json:"tipAmount"`
	Notes        string                    `json:"notes"`
	Status       invoicedomain.Status      `json:"status"`
	CurrencyCode string                    `json:"currencyCode"`
}

type updateInvoiceRequest struct {
	Date         *string                   `json:"date"`
	DueDate      *string                   `json:"dueDate"`
	Customer     *invoicedomain.Customer   `json:"customer"`
	Items        []invoicedomain.ItemInput `json:"items"`
	TaxRate      *decimal.Decimal          `json:"taxRate"`
	TipAmount    *decimal.Decimal          `json:"tipAmount"`
	Notes        *string                   `json:"notes"`
	Status       *invoicedomain.Status     `json:"status"`
	CurrencyCode *string                   `json:"currencyCode"`
}

type setStatusRequest struct {
	Status invoicedomain.Status `json:"status"`
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		Search string `form:"search"`
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListRequest{
		Search: strings.TrimSpace(query.Search),
		Status: invoicedomain.Status(strings.TrimSpace(query.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	resp, err := s.invoiceSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := parseOptionalTime(req.Date)
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
		return
	}
	dueDate, err := parseOptionalTime(req.DueDate)
	if err != nil {
		AbortWithError(c, newValidationError("dueDate", "invalid_due_date", "invalid due date"))
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateRequest{
		Date:         date,
		DueDate:      dueDate,
		Customer:     req.Customer,
		Items:        req.Items,
		TaxRate:      req.TaxRate,
		TipAmount:    req.TipAmount,
		Notes:        req.Notes,
		Status:       req.Status,
		CurrencyCode: req.CurrencyCode,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	patch := invoicedomain.UpdateRequest{
		Customer:     req.Customer,
		Items:        req.Items,
		TaxRate:      req.TaxRate,
		TipAmount:    req.TipAmount,
		Notes:        req.Notes,
		Status:       req.Status,
		CurrencyCode: req.CurrencyCode,
	}
	if req.Date != nil {
		date, err := parseOptionalTime(*req.Date)
		if err != nil || date == nil {
			AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
			return
		}
		patch.Date = date
	}
	if req.DueDate != nil {
		dueDate, err := parseOptionalTime(*req.DueDate)
		if err != nil || dueDate == nil {
			AbortWithError(c, newValidationError("dueDate", "invalid_due_date", "invalid due date"))
			return
		}
		patch.DueDate = dueDate
	}

	resp, err := s.invoiceSvc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) SetInvoiceStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceSummary(c *gin.Context) {
	resp, err := s.invoiceSvc.Summary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) QuoteInvoice(c *gin.Context) {
	var req invoicedomain.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Quote(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
