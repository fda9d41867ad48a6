package importer

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"patrimonio/internal/models"
)

func rawRow(line int, overrides map[string]string) RawRow {
	fields := map[string]string{
		"name":             "Laptop",
		"acquisition_date": "01/01/2024",
		"purchase_value":   "3500.00",
		"category":         "IT",
		"supplier_name":    "Acme",
		"sector_location":  "HQ",
		"status":           "active",
	}
	for k, v := range overrides {
		fields[k] = v
	}
	return RawRow{Line: line, Fields: fields}
}

func TestValidateRowMoneyFormats(t *testing.T) {
	cases := map[string]string{
		"R$ 1.234,56": "1234.56",
		"3500.00":     "3500",
		"1000":        "1000",
		"0":           "0",
	}
	for input, want := range cases {
		row, err := validateRow(rawRow(2, map[string]string{"purchase_value": input}))
		if err != nil {
			t.Fatalf("value %q: unexpected error %v", input, err)
		}
		expected := decimal.RequireFromString(want)
		if !row.PurchaseValue.Equal(expected) {
			t.Fatalf("value %q: expected %s, got %s", input, expected, row.PurchaseValue)
		}
	}
	for _, input := range []string{"", "abc", "-10"} {
		if _, err := validateRow(rawRow(2, map[string]string{"purchase_value": input})); err == nil {
			t.Fatalf("value %q: expected error", input)
		}
	}
}

func TestValidateRowDateFormats(t *testing.T) {
	for _, input := range []string{"15/11/2025", "2025-11-15", "15-11-2025", "15/11/25"} {
		row, err := validateRow(rawRow(2, map[string]string{"acquisition_date": input}))
		if err != nil {
			t.Fatalf("date %q: unexpected error %v", input, err)
		}
		if row.AcquisitionDate.Year() != 2025 || int(row.AcquisitionDate.Month()) != 11 || row.AcquisitionDate.Day() != 15 {
			t.Fatalf("date %q: parsed to %s", input, row.AcquisitionDate)
		}
	}
	if _, err := validateRow(rawRow(2, map[string]string{"acquisition_date": "not-a-date"})); err == nil {
		t.Fatalf("expected unparsable date to be rejected")
	}
}

func TestValidateRowStatusEnumeration(t *testing.T) {
	_, err := validateRow(rawRow(2, map[string]string{"status": "pending"}))
	if err == nil {
		t.Fatalf("expected status outside the enumeration to be rejected")
	}
	for _, status := range models.ValidStatuses {
		if !strings.Contains(err.Error(), string(status)) {
			t.Fatalf("expected error to name %q, got: %v", status, err)
		}
	}

	row, err := validateRow(rawRow(2, map[string]string{"status": " ACTIVE "}))
	if err != nil {
		t.Fatalf("expected case-insensitive status, got %v", err)
	}
	if row.Status != models.StatusActive {
		t.Fatalf("expected normalized status, got %q", row.Status)
	}
}

func TestValidateRowDefaults(t *testing.T) {
	row, err := validateRow(rawRow(2, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %d", row.Quantity)
	}
	if row.Condition != models.ConditionGood {
		t.Fatalf("expected default condition good, got %q", row.Condition)
	}
	if row.Description != nil || row.SupplierCNPJ != nil {
		t.Fatalf("expected absent optionals to stay nil")
	}
}

func TestValidateRowQuantity(t *testing.T) {
	row, err := validateRow(rawRow(2, map[string]string{"quantity": "2.0"}))
	if err != nil {
		t.Fatalf("expected numeric cell round-trip to be accepted, got %v", err)
	}
	if row.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", row.Quantity)
	}
	for _, input := range []string{"0", "-1", "abc", "1.5"} {
		if _, err := validateRow(rawRow(2, map[string]string{"quantity": input})); err == nil {
			t.Fatalf("quantity %q: expected error", input)
		}
	}
}

func TestValidateRowSupplierFields(t *testing.T) {
	row, err := validateRow(rawRow(2, map[string]string{
		"supplier_tax_id": "11.222.333/0001-81",
		"supplier_phone":  "(11) 98765-4321",
		"supplier_email":  "vendas@acme.com.br",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.SupplierCNPJ == nil || *row.SupplierCNPJ != "11222333000181" {
		t.Fatalf("expected cnpj stored without mask, got %v", row.SupplierCNPJ)
	}

	if _, err := validateRow(rawRow(2, map[string]string{"supplier_tax_id": "11.222.333/0001-82"})); err == nil {
		t.Fatalf("expected invalid cnpj to be rejected")
	}
	if _, err := validateRow(rawRow(2, map[string]string{"supplier_email": "not-an-email"})); err == nil {
		t.Fatalf("expected invalid e-mail to be rejected")
	}
	if _, err := validateRow(rawRow(2, map[string]string{"supplier_phone": "123"})); err == nil {
		t.Fatalf("expected invalid phone to be rejected")
	}
}

func TestValidateRowsCollectsOneErrorPerBadRow(t *testing.T) {
	rows := []RawRow{
		rawRow(2, nil),
		rawRow(3, map[string]string{"name": "", "status": "pending"}),
		rawRow(4, map[string]string{"acquisition_date": "bad"}),
	}
	valid, errs := ValidateRows(rows)
	if len(valid) != 1 {
		t.Fatalf("expected 1 valid row, got %d", len(valid))
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if !strings.HasPrefix(errs[0], "Line 3:") || !strings.HasPrefix(errs[1], "Line 4:") {
		t.Fatalf("expected line-tagged errors in file order, got %v", errs)
	}
	// Row on line 3 has two problems; only the first failing rule is reported.
	if !strings.Contains(errs[0], "name") || strings.Contains(errs[0], "status") {
		t.Fatalf("expected only the first failing rule for line 3, got %q", errs[0])
	}
}
