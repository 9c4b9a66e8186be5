package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	taxdomain "github.com/fieldserve/contractbill/internal/tax/domain"
)

func (s *Server) ListTaxComponents(c *gin.Context) {
	rates, err := s.taxSvc.List(c.Request.Context(), c.Query("jurisdiction"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tax_components": rates})
}

type createTaxComponentRequest struct {
	Jurisdiction string          `json:"jurisdiction"`
	Name         string          `json:"name"`
	Rate         decimal.Decimal `json:"rate"`
}

func (s *Server) CreateTaxComponent(c *gin.Context) {
	var req createTaxComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	rate, err := s.taxSvc.Create(c.Request.Context(), &taxdomain.TaxRate{
		Jurisdiction: req.Jurisdiction,
		Name:         req.Name,
		Rate:         req.Rate,
		IsEnabled:    true,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rate)
}

func (s *Server) DisableTaxComponent(c *gin.Context) {
	if err := s.taxSvc.Disable(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
