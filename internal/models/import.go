package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportRow is one validated spreadsheet line ready to be imported.
// A value of this type has already passed every field-level check;
// downstream stages never re-validate it. Optional fields are nil when
// the source cell was empty.
type ImportRow struct {
	Line            int
	Name            string
	Description     *string
	SerialNumber    *string
	AcquisitionDate time.Time
	PurchaseValue   decimal.Decimal
	Quantity        int
	InvoiceNumber   *string
	Condition       AssetCondition
	Category        string
	SupplierName    string
	SectorLocation  string
	Status          AssetStatus

	SupplierCNPJ              *string
	SupplierPhone             *string
	SupplierEmail             *string
	SupplierStateRegistration *string
	SupplierContact           *string
	SupplierNotes             *string
}

// ImportResult aggregates the outcome of one import run. It is fully
// populated even on partial failure; Success is true iff Errors is empty.
type ImportResult struct {
	Success           bool     `json:"sucesso"`
	TotalRows         int      `json:"total_linhas"`
	Imported          int      `json:"importados"`
	Errors            []string `json:"erros"`
	SuppliersCreated  int      `json:"fornecedores_criados"`
	SectorsCreated    int      `json:"setores_criados"`
	CategoriesCreated int      `json:"categorias_criadas"`
}

type ImportTaskStatus string

const (
	ImportPending ImportTaskStatus = "pending"
	ImportRunning ImportTaskStatus = "running"
	ImportSuccess ImportTaskStatus = "success"
	ImportPartial ImportTaskStatus = "partial"
	ImportFailed  ImportTaskStatus = "failed"
)

// ImportTask tracks one asynchronous import run (table import_tasks).
type ImportTask struct {
	ID          string           `json:"id" db:"id"`
	Status      ImportTaskStatus `json:"status" db:"status"`
	Progress    int              `json:"progress" db:"progress"`
	Error       string           `json:"error,omitempty" db:"error"`
	PayloadPath string           `json:"payloadPath,omitempty" db:"payload_path"`
	Result      *ImportResult    `json:"result,omitempty" db:"result"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time        `json:"updatedAt" db:"updated_at"`
}
