package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"patrimonio/internal/models"
)

func (s *Server) handleListSectors(c *gin.Context) {
	sectors, err := s.Reference.ListSectors(c.Request.Context())
	if err != nil {
		s.Log.Errorw("list sectors", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sectors": sectors})
}

func (s *Server) handleListCategories(c *gin.Context) {
	categories, err := s.Reference.ListCategories(c.Request.Context())
	if err != nil {
		s.Log.Errorw("list categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

type categoryRateRequest struct {
	Rate float64 `json:"taxa_depreciacao"`
}

func (s *Server) handleSetCategoryRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req categoryRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if req.Rate < 0 || req.Rate > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_rate"})
		return
	}
	if err := s.Reference.SetCategoryRate(c.Request.Context(), id, req.Rate); err != nil {
		s.Log.Errorw("set category rate", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed"})
		return
	}
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "update", "categorias", id, "taxa_depreciacao")
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (s *Server) handleAuditList(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_limit"})
			return
		}
		limit = parsed
	}
	entries, err := s.Audit.List(c.Request.Context(), strings.TrimSpace(c.Query("table")), limit)
	if err != nil {
		s.Log.Errorw("list audit entries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit": entries, "count": len(entries)})
}

func (s *Server) handleDepreciationReport(c *gin.Context) {
	var categoryID int64
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_category_id"})
			return
		}
		categoryID = id
	}
	status := strings.TrimSpace(c.Query("status"))
	if status != "" {
		if _, ok := models.ParseStatus(status); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status"})
			return
		}
	}

	lines, err := s.Depreciation.Report(c.Request.Context(), categoryID, status)
	if err != nil {
		s.Log.Errorw("depreciation report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": lines, "count": len(lines)})
}
