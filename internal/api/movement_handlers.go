package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"patrimonio/internal/models"
	"patrimonio/internal/services"
)

type movementRequest struct {
	AssetID             int64   `json:"id_patrimonio"`
	Type                string  `json:"tipo_movimentacao"`
	DestinationSectorID int64   `json:"id_setor_destino"`
	Date                string  `json:"data_movimentacao"`
	Responsible         *string `json:"responsavel"`
	Notes               *string `json:"observacoes"`
}

// toModel validates the request. The movement date defaults to now when
// the client omits it.
func (req movementRequest) toModel() (models.Movement, error) {
	var movement models.Movement

	if req.AssetID <= 0 {
		return movement, errors.New("missing_asset")
	}
	movement.AssetID = req.AssetID

	kind, ok := models.ParseMovementType(req.Type)
	if !ok {
		return movement, errors.New("invalid_movement_type")
	}
	movement.Type = kind

	if req.DestinationSectorID <= 0 {
		return movement, errors.New("missing_destination")
	}

	if strings.TrimSpace(req.Date) == "" {
		movement.When = time.Now()
	} else {
		when, err := parseAPIDate(req.Date)
		if err != nil {
			return movement, errors.New("invalid_movement_date")
		}
		movement.When = when
	}

	movement.Responsible = req.Responsible
	movement.Notes = req.Notes
	return movement, nil
}

func (s *Server) handleListMovements(c *gin.Context) {
	filter := services.MovementFilter{}
	if raw := c.Query("asset_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_asset_id"})
			return
		}
		filter.AssetID = id
	}
	if raw := c.Query("from"); raw != "" {
		from, err := parseAPIDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_from_date"})
			return
		}
		filter.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := parseAPIDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_to_date"})
			return
		}
		// inclusive upper bound: the whole final day
		filter.To = to.Add(24*time.Hour - time.Nanosecond)
	}

	movements, err := s.Movements.List(c.Request.Context(), filter)
	if err != nil {
		s.Log.Errorw("list movements", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": movements, "count": len(movements)})
}

func (s *Server) handleCreateMovement(c *gin.Context) {
	var req movementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	movement, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	movement.UserID = sessionUserID(c)

	id, err := s.Movements.Register(c.Request.Context(), movement, req.DestinationSectorID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAssetNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "asset_not_found"})
		case errors.Is(err, models.ErrSectorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "sector_not_found"})
		default:
			s.Log.Errorw("create movement", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create_failed"})
		}
		return
	}
	movement.ID = id
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "create", "movimentacoes", id, string(movement.Type))
	c.JSON(http.StatusCreated, movement)
}
