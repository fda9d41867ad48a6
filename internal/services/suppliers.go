package services

import (
	"context"
	"database/sql"
	"fmt"

	"patrimonio/internal/models"
	"patrimonio/internal/validators"
)

// SupplierService provides CRUD over the fornecedores table with
// duplicate guards on CNPJ and e-mail.
type SupplierService struct {
	DB    *sql.DB
	Store *AssetStore
}

func NewSupplierService(db *sql.DB) *SupplierService {
	return &SupplierService{DB: db, Store: NewAssetStore(db)}
}

const supplierColumns = `id_fornecedor, nome_fornecedor, cnpj, telefone, email,
	inscricao_estadual, contato, observacoes`

func (s *SupplierService) List(ctx context.Context, search string) ([]models.Supplier, error) {
	query := fmt.Sprintf(`SELECT %s FROM fornecedores`, supplierColumns)
	args := []interface{}{}
	if search != "" {
		query += ` WHERE nome_fornecedor ILIKE '%' || $1 || '%' OR cnpj ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}
	query += ` ORDER BY nome_fornecedor`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Supplier
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, supplier)
	}
	return out, rows.Err()
}

func (s *SupplierService) Get(ctx context.Context, id int64) (*models.Supplier, error) {
	row := s.DB.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM fornecedores WHERE id_fornecedor = $1`, supplierColumns), id)
	supplier, err := scanSupplier(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrSupplierNotFound
	}
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// Create inserts a supplier after checking CNPJ and e-mail uniqueness,
// so the caller gets an immediate duplicate diagnosis instead of a
// constraint violation.
func (s *SupplierService) Create(ctx context.Context, supplier models.Supplier) (int64, error) {
	if err := s.checkDuplicates(ctx, supplier, 0); err != nil {
		return 0, err
	}
	return s.Store.CreateSupplier(ctx, supplier)
}

func (s *SupplierService) Update(ctx context.Context, supplier models.Supplier) error {
	if err := s.checkDuplicates(ctx, supplier, supplier.ID); err != nil {
		return err
	}
	result, err := s.DB.ExecContext(ctx, `
		UPDATE fornecedores
		SET nome_fornecedor=$1, cnpj=$2, telefone=$3, email=$4,
			inscricao_estadual=$5, contato=$6, observacoes=$7
		WHERE id_fornecedor=$8
	`, supplier.Name, normalizedCNPJ(supplier.CNPJ), supplier.Phone, supplier.Email,
		supplier.StateRegistration, supplier.Contact, supplier.Notes, supplier.ID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrSupplierNotFound
	}
	return nil
}

func (s *SupplierService) Delete(ctx context.Context, id int64) error {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM fornecedores WHERE id_fornecedor = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrSupplierNotFound
	}
	return nil
}

// checkDuplicates rejects a CNPJ or e-mail already registered to a
// different supplier. excludeID skips the supplier being edited.
func (s *SupplierService) checkDuplicates(ctx context.Context, supplier models.Supplier, excludeID int64) error {
	if cnpj := normalizedCNPJ(supplier.CNPJ); cnpj != nil {
		var existing int64
		err := s.DB.QueryRowContext(ctx,
			`SELECT id_fornecedor FROM fornecedores WHERE cnpj = $1 AND id_fornecedor <> $2`,
			*cnpj, excludeID,
		).Scan(&existing)
		if err == nil {
			return models.ErrDuplicateCNPJ
		}
		if err != sql.ErrNoRows {
			return err
		}
	}
	if supplier.Email != nil && *supplier.Email != "" {
		var existing int64
		err := s.DB.QueryRowContext(ctx,
			`SELECT id_fornecedor FROM fornecedores WHERE email = $1 AND id_fornecedor <> $2`,
			*supplier.Email, excludeID,
		).Scan(&existing)
		if err == nil {
			return models.ErrDuplicateEmail
		}
		if err != sql.ErrNoRows {
			return err
		}
	}
	return nil
}

func normalizedCNPJ(cnpj *string) *string {
	if cnpj == nil || *cnpj == "" {
		return nil
	}
	digits := validators.DigitsOnly(*cnpj)
	return &digits
}

func scanSupplier(row rowScanner) (models.Supplier, error) {
	var supplier models.Supplier
	var cnpj, phone, email, registration, contact, notes sql.NullString
	err := row.Scan(&supplier.ID, &supplier.Name, &cnpj, &phone, &email, &registration, &contact, &notes)
	if err != nil {
		return supplier, err
	}
	supplier.CNPJ = nullable(cnpj)
	supplier.Phone = nullable(phone)
	supplier.Email = nullable(email)
	supplier.StateRegistration = nullable(registration)
	supplier.Contact = nullable(contact)
	supplier.Notes = nullable(notes)
	return supplier, nil
}

func nullable(value sql.NullString) *string {
	if !value.Valid || value.String == "" {
		return nil
	}
	return &value.String
}
