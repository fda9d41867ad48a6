package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"patrimonio/internal/auth"
	"patrimonio/internal/config"
	"patrimonio/internal/middleware"
	"patrimonio/internal/services"
)

// Server wires handlers to the database-backed services and the
// session manager.
type Server struct {
	DB       *sql.DB
	Cfg      config.Config
	Log      *zap.SugaredLogger
	Sessions *auth.Manager

	Users        *services.UserService
	Assets       *services.AssetService
	Suppliers    *services.SupplierService
	Reference    *services.ReferenceService
	Maintenance  *services.MaintenanceService
	Movements    *services.MovementService
	CostCenters  *services.CostCenterService
	Invoices     *services.InvoiceService
	Depreciation *services.DepreciationService
	Audit        *services.AuditService
	Imports      *services.ImportTaskService
	Store        *services.AssetStore
}

// RegisterRoutes attaches handlers to the gin engine.
func (s *Server) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", s.handleHealth)

	router.POST("/api/login", s.handleLogin)

	secured := router.Group("/api")
	secured.Use(middleware.RequireSession(s.Sessions))
	{
		secured.POST("/logout", s.handleLogout)
		secured.GET("/me", s.handleMe)

		secured.GET("/assets", s.handleListAssets)
		secured.GET("/assets/:id", s.handleGetAsset)
		secured.POST("/assets", s.handleCreateAsset)
		secured.PUT("/assets/:id", s.handleUpdateAsset)
		secured.DELETE("/assets/:id", s.handleDeleteAsset)

		secured.GET("/suppliers", s.handleListSuppliers)
		secured.GET("/suppliers/:id", s.handleGetSupplier)
		secured.POST("/suppliers", s.handleCreateSupplier)
		secured.PUT("/suppliers/:id", s.handleUpdateSupplier)
		secured.DELETE("/suppliers/:id", s.handleDeleteSupplier)

		secured.GET("/maintenance", s.handleListMaintenance)
		secured.GET("/maintenance/:id", s.handleGetMaintenance)
		secured.POST("/maintenance", s.handleCreateMaintenance)
		secured.PUT("/maintenance/:id", s.handleUpdateMaintenance)
		secured.DELETE("/maintenance/:id", s.handleDeleteMaintenance)

		secured.GET("/movements", s.handleListMovements)
		secured.POST("/movements", s.handleCreateMovement)

		secured.GET("/cost-centers", s.handleListCostCenters)
		secured.GET("/cost-centers/:id", s.handleGetCostCenter)
		secured.POST("/cost-centers", s.handleCreateCostCenter)
		secured.PUT("/cost-centers/:id", s.handleUpdateCostCenter)
		secured.DELETE("/cost-centers/:id", s.handleDeleteCostCenter)

		secured.GET("/invoices", s.handleListInvoices)
		secured.GET("/invoices/:id", s.handleGetInvoice)
		secured.POST("/invoices", s.handleCreateInvoice)
		secured.PUT("/invoices/:id", s.handleUpdateInvoice)
		secured.DELETE("/invoices/:id", s.handleDeleteInvoice)
		secured.POST("/invoices/:id/items", s.handleAddInvoiceItem)
		secured.PUT("/invoices/:id/items/:item_id", s.handleUpdateInvoiceItem)
		secured.DELETE("/invoices/:id/items/:item_id", s.handleDeleteInvoiceItem)

		secured.GET("/sectors", s.handleListSectors)
		secured.GET("/categories", s.handleListCategories)
		secured.PUT("/categories/:id/depreciation-rate", s.handleSetCategoryRate)

		secured.GET("/reports/depreciation", s.handleDepreciationReport)
		secured.GET("/audit", s.handleAuditList)

		secured.GET("/import/template", s.handleImportTemplate)
		secured.POST("/import", s.handleImportUpload)
		secured.GET("/import/:id", s.handleImportStatus)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	payload := gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)}
	if s.DB != nil {
		if err := s.DB.PingContext(c.Request.Context()); err != nil {
			payload["database"] = gin.H{"status": "unavailable", "error": err.Error()}
		} else {
			payload["database"] = gin.H{"status": "ok"}
		}
	}
	c.JSON(http.StatusOK, payload)
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return 0, false
	}
	return id, true
}
