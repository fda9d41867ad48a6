// Package services implements the database-facing operations of the
// asset registry: CRUD services, the import pipeline's store, audit
// recording and the depreciation report. All SQL is hand-built with
// positional placeholders over database/sql.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"patrimonio/internal/models"
)

// AssetStore is the repository the import pipeline writes through. Each
// insert is auto-commit; entity creation is never rolled back when a
// later insert of the same row fails.
type AssetStore struct {
	DB *sql.DB
}

func NewAssetStore(db *sql.DB) *AssetStore {
	return &AssetStore{DB: db}
}

func (s *AssetStore) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id_fornecedor, nome_fornecedor, cnpj FROM fornecedores`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Supplier
	for rows.Next() {
		var supplier models.Supplier
		var cnpj sql.NullString
		if err := rows.Scan(&supplier.ID, &supplier.Name, &cnpj); err != nil {
			return nil, err
		}
		if cnpj.Valid && cnpj.String != "" {
			supplier.CNPJ = &cnpj.String
		}
		out = append(out, supplier)
	}
	return out, rows.Err()
}

func (s *AssetStore) ListSectors(ctx context.Context) ([]models.Sector, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id_setor_local, nome_setor_local FROM setores_locais`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Sector
	for rows.Next() {
		var sector models.Sector
		if err := rows.Scan(&sector.ID, &sector.Name); err != nil {
			return nil, err
		}
		out = append(out, sector)
	}
	return out, rows.Err()
}

func (s *AssetStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id_categoria, nome_categoria, COALESCE(taxa_depreciacao, 0) FROM categorias`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.DepreciationRate); err != nil {
			return nil, err
		}
		out = append(out, category)
	}
	return out, rows.Err()
}

// CreateSupplier inserts a supplier carrying every optional field the
// caller supplied; absent fields are omitted from the statement.
func (s *AssetStore) CreateSupplier(ctx context.Context, supplier models.Supplier) (int64, error) {
	columns := []string{"nome_fornecedor"}
	values := []interface{}{supplier.Name}
	appendOptional(&columns, &values, "cnpj", supplier.CNPJ)
	appendOptional(&columns, &values, "telefone", supplier.Phone)
	appendOptional(&columns, &values, "email", supplier.Email)
	appendOptional(&columns, &values, "inscricao_estadual", supplier.StateRegistration)
	appendOptional(&columns, &values, "contato", supplier.Contact)
	appendOptional(&columns, &values, "observacoes", supplier.Notes)

	query := fmt.Sprintf(
		`INSERT INTO fornecedores (%s) VALUES (%s) RETURNING id_fornecedor`,
		strings.Join(columns, ", "), placeholders(len(values)),
	)
	var id int64
	if err := s.DB.QueryRowContext(ctx, query, values...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *AssetStore) CreateSector(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO setores_locais (nome_setor_local) VALUES ($1) RETURNING id_setor_local`, name,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *AssetStore) CreateCategory(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO categorias (nome_categoria) VALUES ($1) RETURNING id_categoria`, name,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// CreateAsset inserts one patrimonios row. Optional columns are omitted
// rather than written as nulls.
func (s *AssetStore) CreateAsset(ctx context.Context, asset models.Asset) (int64, error) {
	columns := []string{
		"nome", "data_aquisicao", "valor_compra", "quantidade",
		"estado_conservacao", "id_categoria", "id_fornecedor", "id_setor_local", "status",
	}
	values := []interface{}{
		asset.Name, asset.AcquisitionDate, asset.PurchaseValue, asset.Quantity,
		string(asset.Condition), asset.CategoryID, asset.SupplierID, asset.SectorID, string(asset.Status),
	}
	appendOptional(&columns, &values, "descricao", asset.Description)
	appendOptional(&columns, &values, "numero_serie", asset.SerialNumber)
	appendOptional(&columns, &values, "numero_nota", asset.InvoiceNumber)

	query := fmt.Sprintf(
		`INSERT INTO patrimonios (%s) VALUES (%s) RETURNING id_patrimonio`,
		strings.Join(columns, ", "), placeholders(len(values)),
	)
	var id int64
	if err := s.DB.QueryRowContext(ctx, query, values...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func appendOptional(columns *[]string, values *[]interface{}, column string, value *string) {
	if value == nil || *value == "" {
		return
	}
	*columns = append(*columns, column)
	*values = append(*values, *value)
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}
