package api

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"patrimonio/internal/importer"
	"patrimonio/internal/xlsx"
)

const templateFileName = "import_template.xlsx"

var importExtensions = map[string]bool{".csv": true, ".xls": true, ".xlsx": true}

func (s *Server) handleImportTemplate(c *gin.Context) {
	data, err := xlsx.Template()
	if err != nil {
		s.Log.Errorw("build import template", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "template_failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+templateFileName+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (s *Server) handleImportUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_file"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !importExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported_file_type"})
		return
	}
	if s.Cfg.ImportMaxBytes > 0 && header.Size > s.Cfg.ImportMaxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file_too_large"})
		return
	}

	payloadPath, err := savePayload(file, ext)
	if err != nil {
		s.Log.Errorw("save import payload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload_failed"})
		return
	}

	rawRows, err := importer.ReadSpreadsheet(payloadPath)
	if err != nil {
		os.Remove(payloadPath)
		var missing *importer.MissingColumnsError
		if errors.As(err, &missing) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "missing_columns", "columns": missing.Columns})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable_file", "detail": err.Error()})
		return
	}

	rows, validationErrors := importer.ValidateRows(rawRows)
	if len(validationErrors) > 0 {
		os.Remove(payloadPath)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "errors": validationErrors})
		return
	}
	if len(rows) == 0 {
		os.Remove(payloadPath)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "empty_file"})
		return
	}

	task, err := s.Imports.CreateTask(c.Request.Context(), payloadPath)
	if err != nil {
		os.Remove(payloadPath)
		s.Log.Errorw("create import task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "task_failed"})
		return
	}

	imp := importer.New(s.Store, s.Log)
	userID := sessionUserID(c)
	go func() {
		ctx := context.Background()
		s.Imports.Process(ctx, task, imp, rows)
		s.Audit.Record(ctx, userID, "import", "patrimonios", 0, task.ID)
	}()

	c.JSON(http.StatusAccepted, gin.H{"task_id": task.ID, "status": task.Status, "total_rows": len(rows)})
}

func (s *Server) handleImportStatus(c *gin.Context) {
	task, err := s.Imports.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task_not_found"})
			return
		}
		s.Log.Errorw("get import task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func savePayload(src io.Reader, ext string) (string, error) {
	tmp, err := os.CreateTemp("", "patrimonio-import-*"+ext)
	if err != nil {
		return "", err
	}
	defer tmp.Close()
	if _, err := io.Copy(tmp, src); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
