package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"patrimonio/internal/models"
)

// AssetFilter narrows asset listings.
type AssetFilter struct {
	Search     string
	CategoryID int64
	Status     string
	Limit      int
	Offset     int
}

// AssetService provides CRUD over the patrimonios table.
type AssetService struct {
	DB    *sql.DB
	Store *AssetStore
}

func NewAssetService(db *sql.DB) *AssetService {
	return &AssetService{DB: db, Store: NewAssetStore(db)}
}

const assetColumns = `id_patrimonio, nome, descricao, numero_serie, data_aquisicao, valor_compra,
	quantidade, numero_nota, estado_conservacao, id_categoria, id_fornecedor, id_setor_local, status`

func (s *AssetService) List(ctx context.Context, filter AssetFilter) ([]models.Asset, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	pos := 1
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(nome ILIKE '%%' || $%d || '%%' OR numero_serie ILIKE '%%' || $%d || '%%')", pos, pos))
		args = append(args, filter.Search)
		pos++
	}
	if filter.CategoryID > 0 {
		where = append(where, fmt.Sprintf("id_categoria = $%d", pos))
		args = append(args, filter.CategoryID)
		pos++
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", pos))
		args = append(args, filter.Status)
		pos++
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := fmt.Sprintf(
		`SELECT %s FROM patrimonios WHERE %s ORDER BY nome LIMIT $%d OFFSET $%d`,
		assetColumns, strings.Join(where, " AND "), pos, pos+1,
	)
	args = append(args, limit, filter.Offset)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, asset)
	}
	return out, rows.Err()
}

func (s *AssetService) Get(ctx context.Context, id int64) (*models.Asset, error) {
	row := s.DB.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM patrimonios WHERE id_patrimonio = $1`, assetColumns), id)
	asset, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (s *AssetService) Create(ctx context.Context, asset models.Asset) (int64, error) {
	return s.Store.CreateAsset(ctx, asset)
}

func (s *AssetService) Update(ctx context.Context, asset models.Asset) error {
	result, err := s.DB.ExecContext(ctx, `
		UPDATE patrimonios
		SET nome=$1, descricao=$2, numero_serie=$3, data_aquisicao=$4, valor_compra=$5,
			quantidade=$6, numero_nota=$7, estado_conservacao=$8, id_categoria=$9,
			id_fornecedor=$10, id_setor_local=$11, status=$12
		WHERE id_patrimonio=$13
	`, asset.Name, asset.Description, asset.SerialNumber, asset.AcquisitionDate, asset.PurchaseValue,
		asset.Quantity, asset.InvoiceNumber, string(asset.Condition), asset.CategoryID,
		asset.SupplierID, asset.SectorID, string(asset.Status), asset.ID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrAssetNotFound
	}
	return nil
}

func (s *AssetService) Delete(ctx context.Context, id int64) error {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM patrimonios WHERE id_patrimonio = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrAssetNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAsset(row rowScanner) (models.Asset, error) {
	var asset models.Asset
	var description, serial, invoice sql.NullString
	var condition, status string
	err := row.Scan(
		&asset.ID, &asset.Name, &description, &serial, &asset.AcquisitionDate, &asset.PurchaseValue,
		&asset.Quantity, &invoice, &condition, &asset.CategoryID, &asset.SupplierID, &asset.SectorID, &status,
	)
	if err != nil {
		return asset, err
	}
	if description.Valid {
		asset.Description = &description.String
	}
	if serial.Valid {
		asset.SerialNumber = &serial.String
	}
	if invoice.Valid {
		asset.InvoiceNumber = &invoice.String
	}
	asset.Condition = models.AssetCondition(condition)
	asset.Status = models.AssetStatus(status)
	return asset, nil
}
