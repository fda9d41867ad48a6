package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"patrimonio/internal/models"
)

// MaintenanceFilter narrows maintenance listings.
type MaintenanceFilter struct {
	AssetID int64
	Status  string
	Limit   int
}

// MaintenanceService provides CRUD over the manutencoes table.
type MaintenanceService struct {
	DB *sql.DB
}

func NewMaintenanceService(db *sql.DB) *MaintenanceService {
	return &MaintenanceService{DB: db}
}

const maintenanceColumns = `m.id_manutencao, m.id_patrimonio, p.nome, m.tipo_manutencao,
	m.data_inicio, m.data_fim, m.custo, m.empresa, m.descricao, m.status`

func (s *MaintenanceService) List(ctx context.Context, filter MaintenanceFilter) ([]models.Maintenance, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	pos := 1
	if filter.AssetID > 0 {
		where = append(where, fmt.Sprintf("m.id_patrimonio = $%d", pos))
		args = append(args, filter.AssetID)
		pos++
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("m.status = $%d", pos))
		args = append(args, filter.Status)
		pos++
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM manutencoes m
		JOIN patrimonios p ON p.id_patrimonio = m.id_patrimonio
		WHERE %s
		ORDER BY m.data_inicio DESC, m.id_manutencao DESC
		LIMIT $%d`, maintenanceColumns, strings.Join(where, " AND "), pos)
	args = append(args, limit)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Maintenance
	for rows.Next() {
		record, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *MaintenanceService) Get(ctx context.Context, id int64) (*models.Maintenance, error) {
	row := s.DB.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM manutencoes m
		JOIN patrimonios p ON p.id_patrimonio = m.id_patrimonio
		WHERE m.id_manutencao = $1`, maintenanceColumns), id)
	record, err := scanMaintenance(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrMaintenanceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *MaintenanceService) Create(ctx context.Context, record models.Maintenance) (int64, error) {
	if err := s.assetExists(ctx, record.AssetID); err != nil {
		return 0, err
	}
	var id int64
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO manutencoes (id_patrimonio, tipo_manutencao, data_inicio, data_fim, custo, empresa, descricao, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id_manutencao
	`, record.AssetID, string(record.Type), record.StartDate, record.EndDate, record.Cost,
		record.Company, record.Description, string(record.Status)).Scan(&id)
	return id, err
}

func (s *MaintenanceService) Update(ctx context.Context, record models.Maintenance) error {
	result, err := s.DB.ExecContext(ctx, `
		UPDATE manutencoes
		SET id_patrimonio=$1, tipo_manutencao=$2, data_inicio=$3, data_fim=$4,
			custo=$5, empresa=$6, descricao=$7, status=$8
		WHERE id_manutencao=$9
	`, record.AssetID, string(record.Type), record.StartDate, record.EndDate,
		record.Cost, record.Company, record.Description, string(record.Status), record.ID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrMaintenanceNotFound
	}
	return nil
}

func (s *MaintenanceService) Delete(ctx context.Context, id int64) error {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM manutencoes WHERE id_manutencao = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrMaintenanceNotFound
	}
	return nil
}

func (s *MaintenanceService) assetExists(ctx context.Context, assetID int64) error {
	var id int64
	err := s.DB.QueryRowContext(ctx,
		`SELECT id_patrimonio FROM patrimonios WHERE id_patrimonio = $1`, assetID).Scan(&id)
	if err == sql.ErrNoRows {
		return models.ErrAssetNotFound
	}
	return err
}

func scanMaintenance(row rowScanner) (models.Maintenance, error) {
	var record models.Maintenance
	var end sql.NullTime
	var kind, status string
	var company, description sql.NullString
	err := row.Scan(
		&record.ID, &record.AssetID, &record.AssetName, &kind,
		&record.StartDate, &end, &record.Cost, &company, &description, &status,
	)
	if err != nil {
		return record, err
	}
	if end.Valid {
		record.EndDate = &end.Time
	}
	record.Company = nullable(company)
	record.Description = nullable(description)
	record.Type = models.MaintenanceType(kind)
	record.Status = models.MaintenanceStatus(status)
	return record, nil
}
