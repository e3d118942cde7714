package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	currencydomain "github.com/smallbiznis/invoicebook/internal/currency/domain"
)

type updateRateRequest struct {
	Rate *decimal.Decimal `json:"rate"`
}

func (s *Server) ListCurrencies(c *gin.Context) {
	resp, err := s.currencySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateCurrency(c *gin.Context) {
	var req currencydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.currencySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetCurrency(c *gin.Context) {
	resp, err := s.currencySvc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCurrencyRate(c *gin.Context) {
	var req updateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Rate == nil {
		AbortWithError(c, newValidationError("rate", "invalid_rate", "rate is required"))
		return
	}

	resp, err := s.currencySvc.UpdateRate(c.Request.Context(), c.Param("code"), *req.Rate)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCurrency(c *gin.Context) {
	if err := s.currencySvc.Delete(c.Request.Context(), c.Param("code")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ConvertCurrency(c *gin.Context) {
	amount, err := parseDecimal(c.Query("amount"))
	if err != nil {
		AbortWithError(c, newValidationError("amount", "invalid_amount", "invalid amount"))
		return
	}

	resp, err := s.currencySvc.Convert(c.Request.Context(), currencydomain.ConvertRequest{
		Amount: amount,
		From:   c.Query("from"),
		To:     c.Query("to"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
