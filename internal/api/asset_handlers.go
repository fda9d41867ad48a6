package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"patrimonio/internal/models"
	"patrimonio/internal/services"
)

type assetRequest struct {
	Name            string          `json:"nome"`
	Description     *string         `json:"descricao"`
	SerialNumber    *string         `json:"numero_serie"`
	AcquisitionDate string          `json:"data_aquisicao"`
	PurchaseValue   decimal.Decimal `json:"valor_compra"`
	Quantity        int             `json:"quantidade"`
	InvoiceNumber   *string         `json:"numero_nota"`
	Condition       string          `json:"estado_conservacao"`
	CategoryID      int64           `json:"id_categoria"`
	SupplierID      int64           `json:"id_fornecedor"`
	SectorID        int64           `json:"id_setor_local"`
	Status          string          `json:"status"`
}

var apiDateLayouts = []string{"2006-01-02", "02/01/2006"}

func parseAPIDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range apiDateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

func (req assetRequest) toModel() (models.Asset, error) {
	var asset models.Asset

	asset.Name = strings.TrimSpace(req.Name)
	if asset.Name == "" {
		return asset, errors.New("missing_name")
	}
	date, err := parseAPIDate(req.AcquisitionDate)
	if err != nil {
		return asset, errors.New("invalid_acquisition_date")
	}
	asset.AcquisitionDate = date
	if req.PurchaseValue.Sign() < 0 {
		return asset, errors.New("negative_purchase_value")
	}
	asset.PurchaseValue = req.PurchaseValue
	asset.Quantity = req.Quantity
	if asset.Quantity == 0 {
		asset.Quantity = 1
	}
	if asset.Quantity < 0 {
		return asset, errors.New("invalid_quantity")
	}

	condition := models.ConditionGood
	if strings.TrimSpace(req.Condition) != "" {
		parsed, ok := models.ParseCondition(req.Condition)
		if !ok {
			return asset, errors.New("invalid_condition")
		}
		condition = parsed
	}
	asset.Condition = condition

	status, ok := models.ParseStatus(req.Status)
	if !ok {
		return asset, errors.New("invalid_status")
	}
	asset.Status = status

	if req.CategoryID <= 0 || req.SupplierID <= 0 || req.SectorID <= 0 {
		return asset, errors.New("missing_references")
	}
	asset.CategoryID = req.CategoryID
	asset.SupplierID = req.SupplierID
	asset.SectorID = req.SectorID

	asset.Description = req.Description
	asset.SerialNumber = req.SerialNumber
	asset.InvoiceNumber = req.InvoiceNumber
	return asset, nil
}

func (s *Server) handleListAssets(c *gin.Context) {
	filter := services.AssetFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Status: strings.TrimSpace(c.Query("status")),
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_category_id"})
			return
		}
		filter.CategoryID = id
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_limit"})
			return
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_offset"})
			return
		}
		filter.Offset = offset
	}

	assets, err := s.Assets.List(c.Request.Context(), filter)
	if err != nil {
		s.Log.Errorw("list assets", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assets": assets, "count": len(assets)})
}

func (s *Server) handleGetAsset(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	asset, err := s.Assets.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset_not_found"})
			return
		}
		s.Log.Errorw("get asset", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (s *Server) handleCreateAsset(c *gin.Context) {
	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	asset, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := s.Assets.Create(c.Request.Context(), asset)
	if err != nil {
		s.Log.Errorw("create asset", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create_failed"})
		return
	}
	asset.ID = id
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "create", "patrimonios", id, asset.Name)
	c.JSON(http.StatusCreated, asset)
}

func (s *Server) handleUpdateAsset(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	asset, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	asset.ID = id

	if err := s.Assets.Update(c.Request.Context(), asset); err != nil {
		if errors.Is(err, models.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset_not_found"})
			return
		}
		s.Log.Errorw("update asset", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed"})
		return
	}
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "update", "patrimonios", id, asset.Name)
	c.JSON(http.StatusOK, asset)
}

func (s *Server) handleDeleteAsset(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := s.Assets.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset_not_found"})
			return
		}
		s.Log.Errorw("delete asset", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_failed"})
		return
	}
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "delete", "patrimonios", id, "")
	c.Status(http.StatusNoContent)
}
