package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"patrimonio/internal/middleware"
	"patrimonio/internal/models"
	"patrimonio/internal/services"
)

type maintenanceRequest struct {
	AssetID     int64           `json:"id_patrimonio"`
	Type        string          `json:"tipo_manutencao"`
	StartDate   string          `json:"data_inicio"`
	EndDate     *string         `json:"data_fim"`
	Cost        decimal.Decimal `json:"custo"`
	Company     *string         `json:"empresa"`
	Description *string         `json:"descricao"`
}

// toModel validates the request and derives the record status from the
// end date: a record with an end date is completed, otherwise it stays
// in progress.
func (req maintenanceRequest) toModel() (models.Maintenance, error) {
	var record models.Maintenance

	if req.AssetID <= 0 {
		return record, errors.New("missing_asset")
	}
	record.AssetID = req.AssetID

	kind, ok := models.ParseMaintenanceType(req.Type)
	if !ok {
		return record, errors.New("invalid_maintenance_type")
	}
	record.Type = kind

	start, err := parseAPIDate(req.StartDate)
	if err != nil {
		return record, errors.New("invalid_start_date")
	}
	record.StartDate = start

	if req.EndDate != nil && strings.TrimSpace(*req.EndDate) != "" {
		end, err := parseAPIDate(*req.EndDate)
		if err != nil {
			return record, errors.New("invalid_end_date")
		}
		if end.Before(start) {
			return record, errors.New("end_before_start")
		}
		record.EndDate = &end
	}

	if req.Cost.Sign() < 0 {
		return record, errors.New("negative_cost")
	}
	record.Cost = req.Cost
	record.Company = req.Company
	record.Description = req.Description
	record.Status = models.MaintenanceStatusFor(record.EndDate)
	return record, nil
}

func (s *Server) handleListMaintenance(c *gin.Context) {
	filter := services.MaintenanceFilter{
		Status: strings.TrimSpace(c.Query("status")),
	}
	if raw := c.Query("asset_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_asset_id"})
			return
		}
		filter.AssetID = id
	}

	records, err := s.Maintenance.List(c.Request.Context(), filter)
	if err != nil {
		s.Log.Errorw("list maintenance", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"maintenance": records, "count": len(records)})
}

func (s *Server) handleGetMaintenance(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	record, err := s.Maintenance.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrMaintenanceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "maintenance_not_found"})
			return
		}
		s.Log.Errorw("get maintenance", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleCreateMaintenance(c *gin.Context) {
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	record, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := s.Maintenance.Create(c.Request.Context(), record)
	if err != nil {
		if errors.Is(err, models.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset_not_found"})
			return
		}
		s.Log.Errorw("create maintenance", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create_failed"})
		return
	}
	record.ID = id
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "create", "manutencoes", id, string(record.Type))
	c.JSON(http.StatusCreated, record)
}

func (s *Server) handleUpdateMaintenance(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	record, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record.ID = id

	if err := s.Maintenance.Update(c.Request.Context(), record); err != nil {
		if errors.Is(err, models.ErrMaintenanceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "maintenance_not_found"})
			return
		}
		s.Log.Errorw("update maintenance", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed"})
		return
	}
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "update", "manutencoes", id, string(record.Type))
	c.JSON(http.StatusOK, record)
}

// handleDeleteMaintenance is restricted to administrators: maintenance
// history backs warranty and cost disputes.
func (s *Server) handleDeleteMaintenance(c *gin.Context) {
	if !sessionIsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin_required"})
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := s.Maintenance.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrMaintenanceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "maintenance_not_found"})
			return
		}
		s.Log.Errorw("delete maintenance", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_failed"})
		return
	}
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "delete", "manutencoes", id, "")
	c.Status(http.StatusNoContent)
}

func sessionIsAdmin(c *gin.Context) bool {
	session, ok := middleware.SessionFrom(c)
	return ok && session.User.AccessLevel == "admin"
}
