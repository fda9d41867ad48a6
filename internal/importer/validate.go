package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"patrimonio/internal/models"
	"patrimonio/internal/validators"
)

// dateLayouts are the accepted acquisition date formats, tried in order.
var dateLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006", "02/01/06"}

// ValidateRows converts raw rows into typed ImportRows. Every row is
// checked before any of them proceeds to the database, so the caller can
// surface all problems at once. Each failing row contributes exactly one
// "Line N: reason" entry to the returned error list.
func ValidateRows(rows []RawRow) ([]models.ImportRow, []string) {
	var valid []models.ImportRow
	var errs []string
	for _, raw := range rows {
		row, err := validateRow(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Line %d: %s", raw.Line, err))
			continue
		}
		valid = append(valid, row)
	}
	return valid, errs
}

// validateRow converts one raw row, aborting at the first failing field.
func validateRow(raw RawRow) (models.ImportRow, error) {
	var row models.ImportRow
	row.Line = raw.Line

	row.Name = strings.TrimSpace(raw.Fields["name"])
	if row.Name == "" {
		return row, fmt.Errorf("name is required")
	}

	date, err := parseDate(raw.Fields["acquisition_date"])
	if err != nil {
		return row, fmt.Errorf("invalid acquisition date")
	}
	row.AcquisitionDate = date

	value, err := parseMoney(raw.Fields["purchase_value"])
	if err != nil || value.IsNegative() {
		return row, fmt.Errorf("invalid purchase value")
	}
	row.PurchaseValue = value

	quantity, err := parseQuantity(raw.Fields["quantity"])
	if err != nil {
		return row, err
	}
	row.Quantity = quantity

	row.Category = strings.TrimSpace(raw.Fields["category"])
	if row.Category == "" {
		return row, fmt.Errorf("category is required")
	}
	row.SupplierName = strings.TrimSpace(raw.Fields["supplier_name"])
	if row.SupplierName == "" {
		return row, fmt.Errorf("supplier name is required")
	}
	row.SectorLocation = strings.TrimSpace(raw.Fields["sector_location"])
	if row.SectorLocation == "" {
		return row, fmt.Errorf("sector/location is required")
	}

	status, ok := models.ParseStatus(raw.Fields["status"])
	if !ok {
		return row, fmt.Errorf("invalid status %q, valid values: %s",
			strings.TrimSpace(raw.Fields["status"]), joinStatuses())
	}
	row.Status = status

	if trimmed := strings.TrimSpace(raw.Fields["condition"]); trimmed == "" {
		row.Condition = models.ConditionGood
	} else {
		condition, ok := models.ParseCondition(trimmed)
		if !ok {
			return row, fmt.Errorf("invalid condition %q, valid values: %s", trimmed, joinConditions())
		}
		row.Condition = condition
	}

	if cnpj := strings.TrimSpace(raw.Fields["supplier_tax_id"]); cnpj != "" {
		if err := validators.CNPJ(cnpj); err != nil {
			return row, fmt.Errorf("invalid supplier tax id %q: %s", cnpj, err)
		}
		row.SupplierCNPJ = ptr(validators.DigitsOnly(cnpj))
	}
	if phone := strings.TrimSpace(raw.Fields["supplier_phone"]); phone != "" {
		if err := validators.Phone(phone); err != nil {
			return row, fmt.Errorf("invalid supplier phone %q: %s", phone, err)
		}
		row.SupplierPhone = ptr(phone)
	}
	if email := strings.TrimSpace(raw.Fields["supplier_email"]); email != "" {
		if err := validators.Email(email); err != nil {
			return row, fmt.Errorf("invalid supplier e-mail %q: %s", email, err)
		}
		row.SupplierEmail = ptr(email)
	}

	row.Description = optional(raw.Fields["description"])
	row.SerialNumber = optional(raw.Fields["serial_number"])
	row.InvoiceNumber = optional(raw.Fields["invoice_number"])
	row.SupplierStateRegistration = optional(raw.Fields["supplier_state_registration"])
	row.SupplierContact = optional(raw.Fields["supplier_contact"])
	row.SupplierNotes = optional(raw.Fields["supplier_notes"])

	return row, nil
}

func parseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no layout matched %q", trimmed)
}

// parseMoney accepts both Brazilian ("R$ 1.234,56") and plain ("3500.00")
// notation. When a comma is present it is the decimal separator and dots
// are thousands separators; otherwise the dot keeps its usual meaning.
func parseMoney(value string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.ReplaceAll(cleaned, "R$", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty value")
	}
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	return decimal.NewFromString(cleaned)
}

func parseQuantity(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 1, nil
	}
	quantity, err := strconv.Atoi(trimmed)
	if err != nil {
		// Spreadsheet numeric cells may round-trip as "2.0".
		f, ferr := strconv.ParseFloat(trimmed, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, fmt.Errorf("invalid quantity %q", trimmed)
		}
		quantity = int(f)
	}
	if quantity <= 0 {
		return 0, fmt.Errorf("quantity must be greater than zero")
	}
	return quantity, nil
}

func joinStatuses() string {
	parts := make([]string, len(models.ValidStatuses))
	for i, s := range models.ValidStatuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func joinConditions() string {
	parts := make([]string, len(models.ValidConditions))
	for i, c := range models.ValidConditions {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func ptr(value string) *string {
	return &value
}
