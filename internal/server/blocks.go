package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	draftdomain "github.com/fieldserve/contractbill/internal/draft/domain"
)

func (s *Server) ListBlocks(c *gin.Context) {
	blocks, err := s.draftSvc.ListBlocks(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocks": blocks})
}

func (s *Server) ToggleAttachBlock(c *gin.Context) {
	var req draftdomain.ToggleAttachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.CatalogID) == "" {
		AbortWithError(c, newValidationError("catalog_id", "invalid_catalog_id", "catalog id is required"))
		return
	}

	result, err := s.draftSvc.ToggleAttach(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) InsertFlyByBlock(c *gin.Context) {
	var req draftdomain.InsertFlyByRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	block, err := s.draftSvc.InsertFlyBy(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

func (s *Server) UpdateBlock(c *gin.Context) {
	var req draftdomain.UpdateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	block, err := s.draftSvc.UpdateBlock(c.Request.Context(), c.Param("id"), c.Param("blockId"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

func (s *Server) RemoveBlock(c *gin.Context) {
	if err := s.draftSvc.RemoveBlock(c.Request.Context(), c.Param("id"), c.Param("blockId")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) MoveBlock(c *gin.Context) {
	var req draftdomain.MoveBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	blocks, err := s.draftSvc.MoveBlock(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocks": blocks})
}
