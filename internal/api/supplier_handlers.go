package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"patrimonio/internal/models"
	"patrimonio/internal/validators"
)

type supplierRequest struct {
	Name              string  `json:"nome_fornecedor"`
	CNPJ              *string `json:"cnpj"`
	Phone             *string `json:"telefone"`
	Email             *string `json:"email"`
	StateRegistration *string `json:"inscricao_estadual"`
	Contact           *string `json:"contato"`
	Notes             *string `json:"observacoes"`
}

func (req supplierRequest) toModel() (models.Supplier, error) {
	var supplier models.Supplier
	supplier.Name = strings.TrimSpace(req.Name)
	if supplier.Name == "" {
		return supplier, errors.New("missing_name")
	}
	if req.CNPJ != nil && strings.TrimSpace(*req.CNPJ) != "" {
		if err := validators.CNPJ(*req.CNPJ); err != nil {
			return supplier, errors.New("invalid_cnpj")
		}
		digits := validators.DigitsOnly(*req.CNPJ)
		supplier.CNPJ = &digits
	}
	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" {
		if err := validators.Phone(*req.Phone); err != nil {
			return supplier, errors.New("invalid_phone")
		}
		supplier.Phone = req.Phone
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		if err := validators.Email(*req.Email); err != nil {
			return supplier, errors.New("invalid_email")
		}
		supplier.Email = req.Email
	}
	supplier.StateRegistration = req.StateRegistration
	supplier.Contact = req.Contact
	supplier.Notes = req.Notes
	return supplier, nil
}

func (s *Server) handleListSuppliers(c *gin.Context) {
	suppliers, err := s.Suppliers.List(c.Request.Context(), strings.TrimSpace(c.Query("search")))
	if err != nil {
		s.Log.Errorw("list suppliers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers, "count": len(suppliers)})
}

func (s *Server) handleGetSupplier(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	supplier, err := s.Suppliers.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrSupplierNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "supplier_not_found"})
			return
		}
		s.Log.Errorw("get supplier", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (s *Server) handleCreateSupplier(c *gin.Context) {
	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	supplier, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := s.Suppliers.Create(c.Request.Context(), supplier)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateCNPJ) || errors.Is(err, models.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		s.Log.Errorw("create supplier", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create_failed"})
		return
	}
	supplier.ID = id
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "create", "fornecedores", id, supplier.Name)
	c.JSON(http.StatusCreated, supplier)
}

func (s *Server) handleUpdateSupplier(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	supplier, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	supplier.ID = id

	if err := s.Suppliers.Update(c.Request.Context(), supplier); err != nil {
		switch {
		case errors.Is(err, models.ErrSupplierNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "supplier_not_found"})
		case errors.Is(err, models.ErrDuplicateCNPJ), errors.Is(err, models.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			s.Log.Errorw("update supplier", "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed"})
		}
		return
	}
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "update", "fornecedores", id, supplier.Name)
	c.JSON(http.StatusOK, supplier)
}

func (s *Server) handleDeleteSupplier(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := s.Suppliers.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrSupplierNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "supplier_not_found"})
			return
		}
		s.Log.Errorw("delete supplier", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_failed"})
		return
	}
	s.Audit.Record(c.Request.Context(), sessionUserID(c), "delete", "fornecedores", id, "")
	c.Status(http.StatusNoContent)
}
