package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/fieldserve/contractbill/internal/catalog/domain"
)

func (s *Server) ListCatalogBlocks(c *gin.Context) {
	defs, err := s.catalogSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocks": defs})
}

func (s *Server) GetCatalogBlockByID(c *gin.Context) {
	def, err := s.catalogSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, def)
}

type createCatalogBlockRequest struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	Description      string          `json:"description"`
	BasePrice        decimal.Decimal `json:"base_price"`
	ServiceCycleDays *int            `json:"service_cycle_days,omitempty"`
}

func (s *Server) CreateCatalogBlock(c *gin.Context) {
	var req createCatalogBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	def, err := s.catalogSvc.Create(c.Request.Context(), &catalogdomain.BlockDefinition{
		ID:               req.ID,
		Name:             req.Name,
		Category:         req.Category,
		Description:      req.Description,
		BasePrice:        req.BasePrice,
		ServiceCycleDays: req.ServiceCycleDays,
		Active:           true,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, def)
}
