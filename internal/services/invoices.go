package services

import (
	"context"
	"database/sql"
	"fmt"

	"patrimonio/internal/models"
)

// InvoiceService provides CRUD over notas_fiscais and their itens_nota
// line items. The invoice total is recomputed from the items after
// every item mutation.
type InvoiceService struct {
	DB *sql.DB
}

func NewInvoiceService(db *sql.DB) *InvoiceService {
	return &InvoiceService{DB: db}
}

const invoiceColumns = `n.id_nota_fiscal, n.numero_nota, n.data_emissao, n.valor_total,
	n.id_fornecedor, f.nome_fornecedor, n.id_centro_custo, n.caminho_arquivo_nf`

func (s *InvoiceService) List(ctx context.Context, search string) ([]models.Invoice, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM notas_fiscais n
		JOIN fornecedores f ON f.id_fornecedor = n.id_fornecedor`, invoiceColumns)
	args := []interface{}{}
	if search != "" {
		query += ` WHERE n.numero_nota ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}
	query += ` ORDER BY n.data_emissao DESC, n.id_nota_fiscal DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, invoice)
	}
	return out, rows.Err()
}

// Get loads one invoice together with its line items.
func (s *InvoiceService) Get(ctx context.Context, id int64) (*models.Invoice, error) {
	row := s.DB.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM notas_fiscais n
		JOIN fornecedores f ON f.id_fornecedor = n.id_fornecedor
		WHERE n.id_nota_fiscal = $1`, invoiceColumns), id)
	invoice, err := scanInvoice(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	items, err := s.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	invoice.Items = items
	return &invoice, nil
}

func (s *InvoiceService) Create(ctx context.Context, invoice models.Invoice) (int64, error) {
	var id int64
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO notas_fiscais (numero_nota, data_emissao, valor_total, id_fornecedor, id_centro_custo, caminho_arquivo_nf)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id_nota_fiscal
	`, invoice.Number, invoice.IssueDate, invoice.Total, invoice.SupplierID,
		invoice.CostCenterID, invoice.AttachmentPath).Scan(&id)
	return id, err
}

func (s *InvoiceService) Update(ctx context.Context, invoice models.Invoice) error {
	result, err := s.DB.ExecContext(ctx, `
		UPDATE notas_fiscais
		SET numero_nota=$1, data_emissao=$2, valor_total=$3, id_fornecedor=$4,
			id_centro_custo=$5, caminho_arquivo_nf=$6
		WHERE id_nota_fiscal=$7
	`, invoice.Number, invoice.IssueDate, invoice.Total, invoice.SupplierID,
		invoice.CostCenterID, invoice.AttachmentPath, invoice.ID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrInvoiceNotFound
	}
	return nil
}

// Delete removes the invoice and its line items in one transaction.
func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM itens_nota WHERE id_nota_fiscal = $1`, id); err != nil {
		tx.Rollback()
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM notas_fiscais WHERE id_nota_fiscal = $1`, id)
	if err != nil {
		tx.Rollback()
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if affected == 0 {
		tx.Rollback()
		return models.ErrInvoiceNotFound
	}
	return tx.Commit()
}

func (s *InvoiceService) AddItem(ctx context.Context, item models.InvoiceItem) (int64, error) {
	if err := s.invoiceExists(ctx, item.InvoiceID); err != nil {
		return 0, err
	}
	var id int64
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO itens_nota (id_nota_fiscal, descricao, quantidade, valor, ncm, cfop)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id_item
	`, item.InvoiceID, item.Description, item.Quantity, item.Value, item.NCM, item.CFOP).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, s.refreshTotal(ctx, item.InvoiceID)
}

func (s *InvoiceService) UpdateItem(ctx context.Context, item models.InvoiceItem) error {
	result, err := s.DB.ExecContext(ctx, `
		UPDATE itens_nota
		SET descricao=$1, quantidade=$2, valor=$3, ncm=$4, cfop=$5
		WHERE id_item=$6 AND id_nota_fiscal=$7
	`, item.Description, item.Quantity, item.Value, item.NCM, item.CFOP, item.ID, item.InvoiceID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrInvoiceItemNotFound
	}
	return s.refreshTotal(ctx, item.InvoiceID)
}

func (s *InvoiceService) DeleteItem(ctx context.Context, invoiceID, itemID int64) error {
	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM itens_nota WHERE id_item = $1 AND id_nota_fiscal = $2`, itemID, invoiceID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrInvoiceItemNotFound
	}
	return s.refreshTotal(ctx, invoiceID)
}

func (s *InvoiceService) listItems(ctx context.Context, invoiceID int64) ([]models.InvoiceItem, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id_item, id_nota_fiscal, descricao, quantidade, valor, ncm, cfop
		FROM itens_nota
		WHERE id_nota_fiscal = $1
		ORDER BY id_item`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.InvoiceItem
	for rows.Next() {
		var item models.InvoiceItem
		var ncm, cfop sql.NullString
		err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity, &item.Value, &ncm, &cfop)
		if err != nil {
			return nil, err
		}
		item.NCM = nullable(ncm)
		item.CFOP = nullable(cfop)
		out = append(out, item)
	}
	return out, rows.Err()
}

// refreshTotal rewrites valor_total as the sum of quantity times unit
// value over the remaining items.
func (s *InvoiceService) refreshTotal(ctx context.Context, invoiceID int64) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE notas_fiscais
		SET valor_total = COALESCE(
			(SELECT SUM(quantidade * valor) FROM itens_nota WHERE id_nota_fiscal = $1), 0)
		WHERE id_nota_fiscal = $1`, invoiceID)
	return err
}

func (s *InvoiceService) invoiceExists(ctx context.Context, invoiceID int64) error {
	var id int64
	err := s.DB.QueryRowContext(ctx,
		`SELECT id_nota_fiscal FROM notas_fiscais WHERE id_nota_fiscal = $1`, invoiceID).Scan(&id)
	if err == sql.ErrNoRows {
		return models.ErrInvoiceNotFound
	}
	return err
}

func scanInvoice(row rowScanner) (models.Invoice, error) {
	var invoice models.Invoice
	var costCenter sql.NullInt64
	var attachment sql.NullString
	err := row.Scan(
		&invoice.ID, &invoice.Number, &invoice.IssueDate, &invoice.Total,
		&invoice.SupplierID, &invoice.SupplierName, &costCenter, &attachment,
	)
	if err != nil {
		return invoice, err
	}
	if costCenter.Valid {
		invoice.CostCenterID = &costCenter.Int64
	}
	invoice.AttachmentPath = nullable(attachment)
	return invoice, nil
}
