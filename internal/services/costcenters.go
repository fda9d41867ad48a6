package services

import (
	"context"
	"database/sql"
	"fmt"

	"patrimonio/internal/models"
)

// CostCenterService provides CRUD over the centro_custo table.
type CostCenterService struct {
	DB *sql.DB
}

func NewCostCenterService(db *sql.DB) *CostCenterService {
	return &CostCenterService{DB: db}
}

const costCenterColumns = `id_centro_custo, codigo, nome_centro, responsavel, ativo, observacoes`

func (s *CostCenterService) List(ctx context.Context, search string) ([]models.CostCenter, error) {
	query := fmt.Sprintf(`SELECT %s FROM centro_custo`, costCenterColumns)
	args := []interface{}{}
	if search != "" {
		query += ` WHERE nome_centro ILIKE '%' || $1 || '%' OR codigo ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}
	query += ` ORDER BY nome_centro`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.CostCenter
	for rows.Next() {
		center, err := scanCostCenter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, center)
	}
	return out, rows.Err()
}

func (s *CostCenterService) Get(ctx context.Context, id int64) (*models.CostCenter, error) {
	row := s.DB.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM centro_custo WHERE id_centro_custo = $1`, costCenterColumns), id)
	center, err := scanCostCenter(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrCostCenterNotFound
	}
	if err != nil {
		return nil, err
	}
	return &center, nil
}

func (s *CostCenterService) Create(ctx context.Context, center models.CostCenter) (int64, error) {
	var id int64
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO centro_custo (codigo, nome_centro, responsavel, ativo, observacoes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id_centro_custo
	`, center.Code, center.Name, center.Responsible, center.Active, center.Notes).Scan(&id)
	return id, err
}

func (s *CostCenterService) Update(ctx context.Context, center models.CostCenter) error {
	result, err := s.DB.ExecContext(ctx, `
		UPDATE centro_custo
		SET codigo=$1, nome_centro=$2, responsavel=$3, ativo=$4, observacoes=$5
		WHERE id_centro_custo=$6
	`, center.Code, center.Name, center.Responsible, center.Active, center.Notes, center.ID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrCostCenterNotFound
	}
	return nil
}

func (s *CostCenterService) Delete(ctx context.Context, id int64) error {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM centro_custo WHERE id_centro_custo = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrCostCenterNotFound
	}
	return nil
}

func scanCostCenter(row rowScanner) (models.CostCenter, error) {
	var center models.CostCenter
	var code, responsible, notes sql.NullString
	err := row.Scan(&center.ID, &code, &center.Name, &responsible, &center.Active, &notes)
	if err != nil {
		return center, err
	}
	center.Code = nullable(code)
	center.Responsible = nullable(responsible)
	center.Notes = nullable(notes)
	return center, nil
}
