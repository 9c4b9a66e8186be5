package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	draftdomain "github.com/fieldserve/contractbill/internal/draft/domain"
)

func (s *Server) ListDrafts(c *gin.Context) {
	drafts, err := s.draftSvc.ListDrafts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": drafts})
}

func (s *Server) CreateDraft(c *gin.Context) {
	var req draftdomain.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	draft, err := s.draftSvc.CreateDraft(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, draft)
}

func (s *Server) GetDraftByID(c *gin.Context) {
	draft, err := s.draftSvc.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (s *Server) UpdateDraft(c *gin.Context) {
	var req draftdomain.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	draft, err := s.draftSvc.UpdateDraft(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (s *Server) DeleteDraft(c *gin.Context) {
	if err := s.draftSvc.DeleteDraft(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListCoverageTypes(c *gin.Context) {
	groups, err := s.draftSvc.ListCoverageTypes(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coverage_types": groups})
}

func (s *Server) AddCoverageType(c *gin.Context) {
	var req draftdomain.AddCoverageTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	group, err := s.draftSvc.AddCoverageType(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (s *Server) RemoveCoverageType(c *gin.Context) {
	if err := s.draftSvc.RemoveCoverageType(c.Request.Context(), c.Param("id"), c.Param("groupId")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) GetDraftTotals(c *gin.Context) {
	totals, err := s.draftSvc.Totals(c.Request.Context(), c.Param("id"), c.Query("group"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

func (s *Server) GetDraftGroupStats(c *gin.Context) {
	stats, err := s.draftSvc.GroupStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": stats})
}

func (s *Server) GetDraftPaymentPlan(c *gin.Context) {
	plan, err := s.draftSvc.PaymentPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
