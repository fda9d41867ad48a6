package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrAssetNotFound is returned when an asset cannot be located.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrSupplierNotFound is returned when a supplier cannot be located.
	ErrSupplierNotFound = errors.New("supplier not found")
	// ErrDuplicateCNPJ indicates the CNPJ is already registered to another supplier.
	ErrDuplicateCNPJ = errors.New("cnpj_already_registered")
	// ErrDuplicateEmail indicates the e-mail is already registered.
	ErrDuplicateEmail = errors.New("email_already_registered")
	// ErrInvalidCredentials indicates e-mail or password validation failed.
	ErrInvalidCredentials = errors.New("invalid_credentials")
	// ErrUserInactive indicates the account exists but has been disabled.
	ErrUserInactive = errors.New("user_inactive")
	// ErrSectorNotFound is returned when a sector cannot be located.
	ErrSectorNotFound = errors.New("sector not found")
	// ErrMaintenanceNotFound is returned when a maintenance record cannot be located.
	ErrMaintenanceNotFound = errors.New("maintenance record not found")
	// ErrCostCenterNotFound is returned when a cost center cannot be located.
	ErrCostCenterNotFound = errors.New("cost center not found")
	// ErrInvoiceNotFound is returned when a fiscal invoice cannot be located.
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrInvoiceItemNotFound is returned when an invoice line item cannot be located.
	ErrInvoiceItemNotFound = errors.New("invoice item not found")
)

// AssetStatus represents the lifecycle state of an asset.
type AssetStatus string

const (
	StatusActive           AssetStatus = "active"
	StatusDecommissioned   AssetStatus = "decommissioned"
	StatusUnderMaintenance AssetStatus = "under_maintenance"
	StatusMissing          AssetStatus = "missing"
)

// ValidStatuses lists the accepted asset statuses in a stable order.
var ValidStatuses = []AssetStatus{StatusActive, StatusDecommissioned, StatusUnderMaintenance, StatusMissing}

// ParseStatus normalizes and validates a status value.
func ParseStatus(value string) (AssetStatus, bool) {
	normalized := AssetStatus(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range ValidStatuses {
		if status == normalized {
			return status, true
		}
	}
	return "", false
}

// AssetCondition represents the physical state of an asset.
type AssetCondition string

const (
	ConditionNew     AssetCondition = "new"
	ConditionGood    AssetCondition = "good"
	ConditionRegular AssetCondition = "regular"
	ConditionPoor    AssetCondition = "poor"
)

// ValidConditions lists the accepted conditions in a stable order.
var ValidConditions = []AssetCondition{ConditionNew, ConditionGood, ConditionRegular, ConditionPoor}

// ParseCondition normalizes and validates a condition value.
func ParseCondition(value string) (AssetCondition, bool) {
	normalized := AssetCondition(strings.ToLower(strings.TrimSpace(value)))
	for _, condition := range ValidConditions {
		if condition == normalized {
			return condition, true
		}
	}
	return "", false
}

// Asset is one registered item of the fixed-asset ledger (table patrimonios).
type Asset struct {
	ID              int64           `json:"id"`
	Name            string          `json:"nome"`
	Description     *string         `json:"descricao,omitempty"`
	SerialNumber    *string         `json:"numero_serie,omitempty"`
	AcquisitionDate time.Time       `json:"data_aquisicao"`
	PurchaseValue   decimal.Decimal `json:"valor_compra"`
	Quantity        int             `json:"quantidade"`
	InvoiceNumber   *string         `json:"numero_nota,omitempty"`
	Condition       AssetCondition  `json:"estado_conservacao"`
	CategoryID      int64           `json:"id_categoria"`
	SupplierID      int64           `json:"id_fornecedor"`
	SectorID        int64           `json:"id_setor_local"`
	Status          AssetStatus     `json:"status"`
}

// Supplier is a fornecedores row.
type Supplier struct {
	ID                int64   `json:"id"`
	Name              string  `json:"nome_fornecedor"`
	CNPJ              *string `json:"cnpj,omitempty"`
	Phone             *string `json:"telefone,omitempty"`
	Email             *string `json:"email,omitempty"`
	StateRegistration *string `json:"inscricao_estadual,omitempty"`
	Contact           *string `json:"contato,omitempty"`
	Notes             *string `json:"observacoes,omitempty"`
}

// Sector is a setores_locais row.
type Sector struct {
	ID   int64  `json:"id"`
	Name string `json:"nome_setor_local"`
}

// Category is a categorias row. DepreciationRate is the annual
// straight-line rate as a fraction (0.10 = 10% per year).
type Category struct {
	ID               int64   `json:"id"`
	Name             string  `json:"nome_categoria"`
	DepreciationRate float64 `json:"taxa_depreciacao"`
}

// User represents an operator account (table usuarios).
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"nome"`
	Email       string `json:"email"`
	AccessLevel string `json:"nivel_acesso"`
	Active      bool   `json:"ativo"`
}

// MaintenanceType classifies a maintenance intervention.
type MaintenanceType string

const (
	MaintenancePreventive MaintenanceType = "preventive"
	MaintenanceCorrective MaintenanceType = "corrective"
	MaintenancePredictive MaintenanceType = "predictive"
	MaintenanceEmergency  MaintenanceType = "emergency"
	MaintenanceWarranty   MaintenanceType = "warranty"
	MaintenanceOther      MaintenanceType = "other"
)

// ValidMaintenanceTypes lists the accepted maintenance types in a stable order.
var ValidMaintenanceTypes = []MaintenanceType{
	MaintenancePreventive, MaintenanceCorrective, MaintenancePredictive,
	MaintenanceEmergency, MaintenanceWarranty, MaintenanceOther,
}

// ParseMaintenanceType normalizes and validates a maintenance type value.
func ParseMaintenanceType(value string) (MaintenanceType, bool) {
	normalized := MaintenanceType(strings.ToLower(strings.TrimSpace(value)))
	for _, kind := range ValidMaintenanceTypes {
		if kind == normalized {
			return kind, true
		}
	}
	return "", false
}

// MaintenanceStatus is derived from the end date, never set directly.
type MaintenanceStatus string

const (
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
)

// MaintenanceStatusFor derives the record status: completed once an end
// date is recorded, in progress otherwise.
func MaintenanceStatusFor(end *time.Time) MaintenanceStatus {
	if end != nil {
		return MaintenanceCompleted
	}
	return MaintenanceInProgress
}

// Maintenance is one intervention on an asset (table manutencoes).
// AssetName is filled on reads by joining patrimonios.
type Maintenance struct {
	ID          int64             `json:"id"`
	AssetID     int64             `json:"id_patrimonio"`
	AssetName   string            `json:"nome_patrimonio,omitempty"`
	Type        MaintenanceType   `json:"tipo_manutencao"`
	StartDate   time.Time         `json:"data_inicio"`
	EndDate     *time.Time        `json:"data_fim,omitempty"`
	Cost        decimal.Decimal   `json:"custo"`
	Company     *string           `json:"empresa,omitempty"`
	Description *string           `json:"descricao,omitempty"`
	Status      MaintenanceStatus `json:"status"`
}

// MovementType classifies a movement between sectors.
type MovementType string

const (
	MovementTransfer MovementType = "transfer"
	MovementLoan     MovementType = "loan"
	MovementReturn   MovementType = "return"
	MovementDisposal MovementType = "disposal"
)

// ValidMovementTypes lists the accepted movement types in a stable order.
var ValidMovementTypes = []MovementType{MovementTransfer, MovementLoan, MovementReturn, MovementDisposal}

// ParseMovementType normalizes and validates a movement type value.
func ParseMovementType(value string) (MovementType, bool) {
	normalized := MovementType(strings.ToLower(strings.TrimSpace(value)))
	for _, kind := range ValidMovementTypes {
		if kind == normalized {
			return kind, true
		}
	}
	return "", false
}

// Movement is one relocation of an asset (table movimentacoes). Origin
// and Destination store the sector names at movement time, so history
// stays readable even after sectors are renamed. AssetName and UserName
// are filled on reads by joining patrimonios and usuarios.
type Movement struct {
	ID          int64        `json:"id"`
	AssetID     int64        `json:"id_patrimonio"`
	AssetName   string       `json:"nome_patrimonio,omitempty"`
	UserID      int64        `json:"id_usuario"`
	UserName    string       `json:"nome_usuario,omitempty"`
	When        time.Time    `json:"data_movimentacao"`
	Type        MovementType `json:"tipo_movimentacao"`
	Origin      string       `json:"origem"`
	Destination string       `json:"destino"`
	Responsible *string      `json:"responsavel,omitempty"`
	Notes       *string      `json:"observacoes,omitempty"`
}

// CostCenter is a centro_custo row.
type CostCenter struct {
	ID          int64   `json:"id"`
	Code        *string `json:"codigo,omitempty"`
	Name        string  `json:"nome_centro"`
	Responsible *string `json:"responsavel,omitempty"`
	Active      bool    `json:"ativo"`
	Notes       *string `json:"observacoes,omitempty"`
}

// Invoice is a notas_fiscais row. Total is recomputed from the line
// items whenever an item changes.
type Invoice struct {
	ID             int64           `json:"id"`
	Number         string          `json:"numero_nota"`
	IssueDate      time.Time       `json:"data_emissao"`
	Total          decimal.Decimal `json:"valor_total"`
	SupplierID     int64           `json:"id_fornecedor"`
	SupplierName   string          `json:"nome_fornecedor,omitempty"`
	CostCenterID   *int64          `json:"id_centro_custo,omitempty"`
	AttachmentPath *string         `json:"caminho_arquivo_nf,omitempty"`
	Items          []InvoiceItem   `json:"itens,omitempty"`
}

// InvoiceItem is an itens_nota row.
type InvoiceItem struct {
	ID          int64           `json:"id"`
	InvoiceID   int64           `json:"id_nota_fiscal"`
	Description string          `json:"descricao"`
	Quantity    int             `json:"quantidade"`
	Value       decimal.Decimal `json:"valor"`
	NCM         *string         `json:"ncm,omitempty"`
	CFOP        *string         `json:"cfop,omitempty"`
}

// AuditEntry records one mutating action (table auditorias).
type AuditEntry struct {
	ID       int64     `json:"id"`
	When     time.Time `json:"data_auditoria"`
	Table    string    `json:"tabela_afetada"`
	RecordID int64     `json:"id_registro_afetado"`
	Action   string    `json:"acao"`
	UserID   int64     `json:"id_usuario"`
	Details  string    `json:"detalhes,omitempty"`
}
