package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"patrimonio/internal/models"
)

// AuditService appends mutating actions to the auditorias table. A
// failed audit write is logged and swallowed so it never fails the
// operation being audited.
type AuditService struct {
	DB  *sql.DB
	Log *zap.SugaredLogger
}

func NewAuditService(db *sql.DB, log *zap.SugaredLogger) *AuditService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &AuditService{DB: db, Log: log}
}

// Record writes one audit row. Action is one of create, update, delete
// or import; details is free text. Anonymous actions (userID 0) are
// not recorded.
func (s *AuditService) Record(ctx context.Context, userID int64, action, table string, recordID int64, details string) {
	if userID == 0 {
		return
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO auditorias (data_auditoria, tabela_afetada, id_registro_afetado, acao, id_usuario, detalhes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, time.Now(), table, recordID, action, userID, details)
	if err != nil {
		s.Log.Warnw("audit write failed", "action", action, "table", table, "error", err)
	}
}

// List returns the most recent audit entries, newest first, optionally
// narrowed to one table.
func (s *AuditService) List(ctx context.Context, table string, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `
		SELECT id_auditoria, data_auditoria, tabela_afetada, id_registro_afetado,
			acao, COALESCE(id_usuario, 0), COALESCE(detalhes, '')
		FROM auditorias`
	args := []interface{}{}
	if table != "" {
		query += ` WHERE tabela_afetada = $1`
		args = append(args, table)
	}
	query += fmt.Sprintf(` ORDER BY data_auditoria DESC, id_auditoria DESC LIMIT %d`, limit)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.AuditEntry
	for rows.Next() {
		var entry models.AuditEntry
		if err := rows.Scan(&entry.ID, &entry.When, &entry.Table, &entry.RecordID,
			&entry.Action, &entry.UserID, &entry.Details); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
