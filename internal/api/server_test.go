package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"patrimonio/internal/auth"
	"patrimonio/internal/models"
)

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	server := &Server{
		Log:      zap.NewNop().Sugar(),
		Sessions: auth.NewManager(time.Hour),
	}
	return server, NewRouter(server, server.Log)
}

func issueSession(t *testing.T, server *Server) *auth.Session {
	t.Helper()
	session, err := server.Sessions.Issue(models.User{ID: 1, Name: "Tester", Email: "tester@example.com", Active: true})
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	return session
}

func TestHealthEndpoint(t *testing.T) {
	_, router := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health body: %s", rec.Body.String())
	}
}

func TestSecuredRoutesRequireSession(t *testing.T) {
	_, router := newTestServer(t)

	paths := []string{
		"/api/assets", "/api/suppliers", "/api/import/template",
		"/api/maintenance", "/api/movements", "/api/cost-centers", "/api/invoices",
	}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without a session, got %d", path, rec.Code)
		}
	}
}

func TestImportTemplateDownload(t *testing.T) {
	server, router := newTestServer(t)
	session := issueSession(t, server)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/import/template", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, templateFileName) {
		t.Fatalf("expected attachment disposition, got %q", disposition)
	}
	if rec.Body.Len() == 0 {
		t.Fatalf("expected a non-empty workbook")
	}
}

func TestLoginRejectsMalformedRequests(t *testing.T) {
	_, router := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader("not-json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"","password":""}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty credentials, got %d", rec.Code)
	}
}

func TestMeReturnsSessionUser(t *testing.T) {
	server, router := newTestServer(t)
	session := issueSession(t, server)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "tester@example.com") {
		t.Fatalf("expected session user in body: %s", rec.Body.String())
	}
}

func TestAssetRequestValidation(t *testing.T) {
	base := assetRequest{
		Name:            "Notebook",
		AcquisitionDate: "2024-03-15",
		Status:          "active",
		CategoryID:      1,
		SupplierID:      1,
		SectorID:        1,
	}

	asset, err := base.toModel()
	if err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if asset.Quantity != 1 {
		t.Fatalf("expected quantity to default to 1, got %d", asset.Quantity)
	}
	if asset.Condition != models.ConditionGood {
		t.Fatalf("expected condition to default to good, got %s", asset.Condition)
	}

	bad := base
	bad.Status = "archived"
	if _, err := bad.toModel(); err == nil || err.Error() != "invalid_status" {
		t.Fatalf("expected invalid_status, got %v", err)
	}

	bad = base
	bad.AcquisitionDate = "15-2024-03"
	if _, err := bad.toModel(); err == nil || err.Error() != "invalid_acquisition_date" {
		t.Fatalf("expected invalid_acquisition_date, got %v", err)
	}

	bad = base
	bad.SupplierID = 0
	if _, err := bad.toModel(); err == nil || err.Error() != "missing_references" {
		t.Fatalf("expected missing_references, got %v", err)
	}
}

func TestMaintenanceRequestValidation(t *testing.T) {
	base := maintenanceRequest{
		AssetID:   1,
		Type:      "corrective",
		StartDate: "2024-05-10",
	}

	record, err := base.toModel()
	if err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if record.Status != models.MaintenanceInProgress {
		t.Fatalf("expected open record to be in_progress, got %s", record.Status)
	}

	end := "2024-05-20"
	closed := base
	closed.EndDate = &end
	record, err = closed.toModel()
	if err != nil {
		t.Fatalf("closed request rejected: %v", err)
	}
	if record.Status != models.MaintenanceCompleted {
		t.Fatalf("expected ended record to be completed, got %s", record.Status)
	}

	early := "2024-05-01"
	bad := base
	bad.EndDate = &early
	if _, err := bad.toModel(); err == nil || err.Error() != "end_before_start" {
		t.Fatalf("expected end_before_start, got %v", err)
	}

	bad = base
	bad.Type = "tune-up"
	if _, err := bad.toModel(); err == nil || err.Error() != "invalid_maintenance_type" {
		t.Fatalf("expected invalid_maintenance_type, got %v", err)
	}

	bad = base
	bad.Cost = decimal.NewFromInt(-50)
	if _, err := bad.toModel(); err == nil || err.Error() != "negative_cost" {
		t.Fatalf("expected negative_cost, got %v", err)
	}

	bad = base
	bad.AssetID = 0
	if _, err := bad.toModel(); err == nil || err.Error() != "missing_asset" {
		t.Fatalf("expected missing_asset, got %v", err)
	}
}

func TestMaintenanceDeleteRequiresAdmin(t *testing.T) {
	server, router := newTestServer(t)
	session := issueSession(t, server)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/maintenance/1", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin delete, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "admin_required") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestMovementRequestValidation(t *testing.T) {
	base := movementRequest{
		AssetID:             1,
		Type:                "transfer",
		DestinationSectorID: 2,
	}

	movement, err := base.toModel()
	if err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if movement.When.IsZero() {
		t.Fatalf("expected omitted date to default to now")
	}

	bad := base
	bad.Type = "teleport"
	if _, err := bad.toModel(); err == nil || err.Error() != "invalid_movement_type" {
		t.Fatalf("expected invalid_movement_type, got %v", err)
	}

	bad = base
	bad.DestinationSectorID = 0
	if _, err := bad.toModel(); err == nil || err.Error() != "missing_destination" {
		t.Fatalf("expected missing_destination, got %v", err)
	}

	bad = base
	bad.Date = "10-2024-05"
	if _, err := bad.toModel(); err == nil || err.Error() != "invalid_movement_date" {
		t.Fatalf("expected invalid_movement_date, got %v", err)
	}
}

func TestCostCenterRequestValidation(t *testing.T) {
	req := costCenterRequest{Name: "Engenharia"}
	center, err := req.toModel()
	if err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if !center.Active {
		t.Fatalf("expected active to default to true")
	}

	inactive := false
	req = costCenterRequest{Name: "Engenharia", Active: &inactive}
	center, err = req.toModel()
	if err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if center.Active {
		t.Fatalf("expected explicit active=false to be kept")
	}

	req = costCenterRequest{Name: "   "}
	if _, err := req.toModel(); err == nil || err.Error() != "missing_name" {
		t.Fatalf("expected missing_name, got %v", err)
	}
}

func TestInvoiceRequestValidation(t *testing.T) {
	base := invoiceRequest{
		Number:     "123-45/2024",
		IssueDate:  "2024-06-01",
		SupplierID: 1,
	}

	if _, err := base.toModel(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	bad := base
	bad.Number = "NF 12"
	if _, err := bad.toModel(); err == nil || err.Error() != "invalid_invoice_number" {
		t.Fatalf("expected invalid_invoice_number, got %v", err)
	}

	bad = base
	bad.SupplierID = 0
	if _, err := bad.toModel(); err == nil || err.Error() != "missing_supplier" {
		t.Fatalf("expected missing_supplier, got %v", err)
	}

	bad = base
	bad.Total = decimal.NewFromInt(-1)
	if _, err := bad.toModel(); err == nil || err.Error() != "negative_total" {
		t.Fatalf("expected negative_total, got %v", err)
	}
}

func TestInvoiceItemRequestValidation(t *testing.T) {
	base := invoiceItemRequest{Description: "Notebook Dell"}

	item, err := base.toModel()
	if err != nil {
		t.Fatalf("valid item rejected: %v", err)
	}
	if item.Quantity != 1 {
		t.Fatalf("expected quantity to default to 1, got %d", item.Quantity)
	}

	ncm := "8471.30.12"
	withCodes := base
	withCodes.NCM = &ncm
	item, err = withCodes.toModel()
	if err != nil {
		t.Fatalf("valid ncm rejected: %v", err)
	}
	if item.NCM == nil {
		t.Fatalf("expected ncm to be kept")
	}

	badNCM := "8471"
	bad := base
	bad.NCM = &badNCM
	if _, err := bad.toModel(); err == nil || err.Error() != "invalid_ncm" {
		t.Fatalf("expected invalid_ncm, got %v", err)
	}

	badCFOP := "51"
	bad = base
	bad.CFOP = &badCFOP
	if _, err := bad.toModel(); err == nil || err.Error() != "invalid_cfop" {
		t.Fatalf("expected invalid_cfop, got %v", err)
	}

	bad = base
	bad.Description = " "
	if _, err := bad.toModel(); err == nil || err.Error() != "missing_description" {
		t.Fatalf("expected missing_description, got %v", err)
	}
}

func TestSupplierRequestValidation(t *testing.T) {
	cnpj := "11.222.333/0001-81"
	req := supplierRequest{Name: "Acme", CNPJ: &cnpj}
	supplier, err := req.toModel()
	if err != nil {
		t.Fatalf("valid supplier rejected: %v", err)
	}
	if supplier.CNPJ == nil || *supplier.CNPJ != "11222333000181" {
		t.Fatalf("expected normalized cnpj, got %v", supplier.CNPJ)
	}

	badCNPJ := "11.222.333/0001-82"
	req = supplierRequest{Name: "Acme", CNPJ: &badCNPJ}
	if _, err := req.toModel(); err == nil || err.Error() != "invalid_cnpj" {
		t.Fatalf("expected invalid_cnpj, got %v", err)
	}

	req = supplierRequest{Name: "   "}
	if _, err := req.toModel(); err == nil || err.Error() != "missing_name" {
		t.Fatalf("expected missing_name, got %v", err)
	}
}
