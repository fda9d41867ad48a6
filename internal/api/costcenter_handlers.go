package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"patrimonio/internal/models"
)

type costCenterRequest struct {
	Code        *string `json:"codigo"`
	Name        string  `json:"nome_centro"`
	Responsible *string `json:"responsavel"`
	Active      *bool   `json:"ativo"`
	Notes       *string `json:"observacoes"`
}

// toModel validates the request. Active defaults to true when omitted.
func (req costCenterRequest) toModel() (models.CostCenter, error) {
	var center models.CostCenter

	center.Name = strings.TrimSpace(req.Name)
	if center.Name == "" {
		return center, errors.New("missing_name")
	}
	center.Code = req.Code
	center.Responsible = req.Responsible
	center.Notes = req.Notes
	center.Active = true
	if req.Active != nil {
		center.Active = *req.Active
	}
	return center, nil
}

func (s *Server) handleListCostCenters(c *gin.Context) {
	centers, err := s.CostCenters.List(c.Request.Context(), strings.TrimSpace(c.Query("search")))
	if err != nil {
		s.Log.Errorw("list cost centers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cost_centers": centers, "count": len(centers)})
}

func (s *Server) handleGetCostCenter(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	center, err := s.CostCenters.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrCostCenterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cost_center_not_found"})
			return
		}
		s.Log.Errorw("get cost center", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
		return
	}
	c.JSON(http.StatusOK, center)
}

func (s *Server) handleCreateCostCenter(c *gin.Context) {
	var req costCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	center, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := s.CostCenters.Create(c.Request.Context(), center)
	if err != nil {
		s.Log.Errorw("create cost center", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create_failed"})
		return
	}
	center.ID = id
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "create", "centro_custo", id, center.Name)
	c.JSON(http.StatusCreated, center)
}

func (s *Server) handleUpdateCostCenter(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req costCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	center, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	center.ID = id

	if err := s.CostCenters.Update(c.Request.Context(), center); err != nil {
		if errors.Is(err, models.ErrCostCenterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cost_center_not_found"})
			return
		}
		s.Log.Errorw("update cost center", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed"})
		return
	}
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "update", "centro_custo", id, center.Name)
	c.JSON(http.StatusOK, center)
}

func (s *Server) handleDeleteCostCenter(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := s.CostCenters.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrCostCenterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cost_center_not_found"})
			return
		}
		s.Log.Errorw("delete cost center", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_failed"})
		return
	}
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "delete", "centro_custo", id, "")
	c.Status(http.StatusNoContent)
}
