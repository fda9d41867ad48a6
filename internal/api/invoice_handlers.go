package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"patrimonio/internal/models"
	"patrimonio/internal/validators"
)

type invoiceRequest struct {
	Number         string          `json:"numero_nota"`
	IssueDate      string          `json:"data_emissao"`
	Total          decimal.Decimal `json:"valor_total"`
	SupplierID     int64           `json:"id_fornecedor"`
	CostCenterID   *int64          `json:"id_centro_custo"`
	AttachmentPath *string         `json:"caminho_arquivo_nf"`
}

func (req invoiceRequest) toModel() (models.Invoice, error) {
	var invoice models.Invoice

	invoice.Number = strings.TrimSpace(req.Number)
	if err := validators.InvoiceNumber(invoice.Number); err != nil {
		return invoice, errors.New("invalid_invoice_number")
	}
	date, err := parseAPIDate(req.IssueDate)
	if err != nil {
		return invoice, errors.New("invalid_issue_date")
	}
	invoice.IssueDate = date
	if req.Total.Sign() < 0 {
		return invoice, errors.New("negative_total")
	}
	invoice.Total = req.Total
	if req.SupplierID <= 0 {
		return invoice, errors.New("missing_supplier")
	}
	invoice.SupplierID = req.SupplierID
	invoice.CostCenterID = req.CostCenterID
	invoice.AttachmentPath = req.AttachmentPath
	return invoice, nil
}

type invoiceItemRequest struct {
	Description string          `json:"descricao"`
	Quantity    int             `json:"quantidade"`
	Value       decimal.Decimal `json:"valor"`
	NCM         *string         `json:"ncm"`
	CFOP        *string         `json:"cfop"`
}

// toModel validates the line item. Quantity defaults to 1; NCM and
// CFOP are optional but checked for shape when present.
func (req invoiceItemRequest) toModel() (models.InvoiceItem, error) {
	var item models.InvoiceItem

	item.Description = strings.TrimSpace(req.Description)
	if item.Description == "" {
		return item, errors.New("missing_description")
	}
	item.Quantity = req.Quantity
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if item.Quantity < 0 {
		return item, errors.New("invalid_quantity")
	}
	if req.Value.Sign() < 0 {
		return item, errors.New("negative_value")
	}
	item.Value = req.Value
	if req.NCM != nil && strings.TrimSpace(*req.NCM) != "" {
		if err := validators.NCM(*req.NCM); err != nil {
			return item, errors.New("invalid_ncm")
		}
		item.NCM = req.NCM
	}
	if req.CFOP != nil && strings.TrimSpace(*req.CFOP) != "" {
		if err := validators.CFOP(*req.CFOP); err != nil {
			return item, errors.New("invalid_cfop")
		}
		item.CFOP = req.CFOP
	}
	return item, nil
}

func (s *Server) handleListInvoices(c *gin.Context) {
	invoices, err := s.Invoices.List(c.Request.Context(), strings.TrimSpace(c.Query("search")))
	if err != nil {
		s.Log.Errorw("list invoices", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices, "count": len(invoices)})
}

func (s *Server) handleGetInvoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	invoice, err := s.Invoices.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrInvoiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice_not_found"})
			return
		}
		s.Log.Errorw("get invoice", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (s *Server) handleCreateInvoice(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	invoice, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := s.Invoices.Create(c.Request.Context(), invoice)
	if err != nil {
		s.Log.Errorw("create invoice", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create_failed"})
		return
	}
	invoice.ID = id
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "create", "notas_fiscais", id, invoice.Number)
	c.JSON(http.StatusCreated, invoice)
}

func (s *Server) handleUpdateInvoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	invoice, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	invoice.ID = id

	if err := s.Invoices.Update(c.Request.Context(), invoice); err != nil {
		if errors.Is(err, models.ErrInvoiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice_not_found"})
			return
		}
		s.Log.Errorw("update invoice", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed"})
		return
	}
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "update", "notas_fiscais", id, invoice.Number)
	c.JSON(http.StatusOK, invoice)
}

func (s *Server) handleDeleteInvoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := s.Invoices.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrInvoiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice_not_found"})
			return
		}
		s.Log.Errorw("delete invoice", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_failed"})
		return
	}
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "delete", "notas_fiscais", id, "")
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAddInvoiceItem(c *gin.Context) {
	invoiceID, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req invoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	item, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item.InvoiceID = invoiceID

	id, err := s.Invoices.AddItem(c.Request.Context(), item)
	if err != nil {
		if errors.Is(err, models.ErrInvoiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice_not_found"})
			return
		}
		s.Log.Errorw("add invoice item", "invoice", invoiceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create_failed"})
		return
	}
	item.ID = id
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "create", "itens_nota", id, item.Description)
	c.JSON(http.StatusCreated, item)
}

func (s *Server) handleUpdateInvoiceItem(c *gin.Context) {
	invoiceID, ok := parseIDParam(c)
	if !ok {
		return
	}
	itemID, ok := parseItemIDParam(c)
	if !ok {
		return
	}
	var req invoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	item, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item.ID = itemID
	item.InvoiceID = invoiceID

	if err := s.Invoices.UpdateItem(c.Request.Context(), item); err != nil {
		if errors.Is(err, models.ErrInvoiceItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice_item_not_found"})
			return
		}
		s.Log.Errorw("update invoice item", "invoice", invoiceID, "item", itemID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed"})
		return
	}
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "update", "itens_nota", itemID, item.Description)
	c.JSON(http.StatusOK, item)
}

func (s *Server) handleDeleteInvoiceItem(c *gin.Context) {
	invoiceID, ok := parseIDParam(c)
	if !ok {
		return
	}
	itemID, ok := parseItemIDParam(c)
	if !ok {
		return
	}
	if err := s.Invoices.DeleteItem(c.Request.Context(), invoiceID, itemID); err != nil {
		if errors.Is(err, models.ErrInvoiceItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice_item_not_found"})
			return
		}
		s.Log.Errorw("delete invoice item", "invoice", invoiceID, "item", itemID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_failed"})
		return
	}
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "delete", "itens_nota", itemID, "")
	c.Status(http.StatusNoContent)
}

func parseItemIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_item_id"})
		return 0, false
	}
	return id, true
}
