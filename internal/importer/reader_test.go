package importer

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestReadSpreadsheetRejectsMissingFile(t *testing.T) {
	if _, err := ReadSpreadsheet(filepath.Join(t.TempDir(), "nope.csv")); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestReadSpreadsheetRejectsUnknownExtension(t *testing.T) {
	path := writeTempFile(t, "assets.txt", "name\n")
	if _, err := ReadSpreadsheet(path); !errors.Is(err, ErrInvalidFileKind) {
		t.Fatalf("expected ErrInvalidFileKind, got %v", err)
	}
}

func TestReadCSVReportsEveryMissingColumn(t *testing.T) {
	path := writeTempFile(t, "assets.csv", "name,acquisition_date,category,supplier_name\nLaptop,01/01/2024,IT,Acme\n")
	_, err := ReadSpreadsheet(path)
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnsError, got %v", err)
	}
	want := []string{"purchase_value", "sector_location", "status"}
	if len(missing.Columns) != len(want) {
		t.Fatalf("expected %d missing columns, got %v", len(want), missing.Columns)
	}
	for i, column := range want {
		if missing.Columns[i] != column {
			t.Fatalf("expected missing column %q at position %d, got %v", column, i, missing.Columns)
		}
	}
}

func TestReadCSVSkipsBlankRowsAndKeepsLineNumbers(t *testing.T) {
	content := "Name,Acquisition_Date,PURCHASE_VALUE,category,supplier_name,sector_location,status\n" +
		"Laptop,01/01/2024,3500.00,IT,Acme,HQ,active\n" +
		",,,,,,\n" +
		"Monitor,02/01/2024,900,IT,Acme,HQ,active\n"
	path := writeTempFile(t, "assets.csv", content)
	rows, err := ReadSpreadsheet(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after skipping blanks, got %d", len(rows))
	}
	if rows[0].Line != 2 || rows[1].Line != 4 {
		t.Fatalf("expected source lines 2 and 4, got %d and %d", rows[0].Line, rows[1].Line)
	}
	if rows[0].Fields["name"] != "Laptop" {
		t.Fatalf("expected lowercased header mapping, got %v", rows[0].Fields)
	}
}

func TestReadCSVStripsByteOrderMark(t *testing.T) {
	content := "\xEF\xBB\xBFname,acquisition_date,purchase_value,category,supplier_name,sector_location,status\n" +
		"Laptop,01/01/2024,3500.00,IT,Acme,HQ,active\n"
	path := writeTempFile(t, "assets.csv", content)
	rows, err := ReadSpreadsheet(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rows[0].Fields["name"] != "Laptop" {
		t.Fatalf("expected BOM to be stripped from first header, got %v", rows[0].Fields)
	}
}

func TestReadCSVEmptySheet(t *testing.T) {
	path := writeTempFile(t, "assets.csv", "name,acquisition_date,purchase_value,category,supplier_name,sector_location,status\n")
	if _, err := ReadSpreadsheet(path); !errors.Is(err, ErrEmptySheet) {
		t.Fatalf("expected ErrEmptySheet, got %v", err)
	}
}

func TestReadCSVEmptyFile(t *testing.T) {
	path := writeTempFile(t, "assets.csv", "")
	if _, err := ReadSpreadsheet(path); !errors.Is(err, ErrEmptySheet) {
		t.Fatalf("expected ErrEmptySheet, got %v", err)
	}
}

func TestReadCSVMalformedHeaderIsNotEmptySheet(t *testing.T) {
	path := writeTempFile(t, "assets.csv", "name,\"acquisition_date\nLaptop,01/01/2024\n")
	_, err := ReadSpreadsheet(path)
	if err == nil {
		t.Fatal("expected a read error for malformed quoting")
	}
	if errors.Is(err, ErrEmptySheet) {
		t.Fatalf("malformed header must not be reported as an empty sheet: %v", err)
	}
	if !errors.Is(err, csv.ErrQuote) {
		t.Fatalf("expected the csv quoting error to be wrapped, got %v", err)
	}
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.xlsx")
	f := excelize.NewFile()
	header := []interface{}{"name", "acquisition_date", "purchase_value", "category", "supplier_name", "sector_location", "status"}
	if err := f.SetSheetRow("Sheet1", "A1", &header); err != nil {
		t.Fatalf("set header: %v", err)
	}
	row := []interface{}{"Laptop", "01/01/2024", "3500.00", "IT", "Acme", "HQ", "active"}
	if err := f.SetSheetRow("Sheet1", "A2", &row); err != nil {
		t.Fatalf("set row: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}

	rows, err := ReadSpreadsheet(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Line != 2 {
		t.Fatalf("expected first data row on line 2, got %d", rows[0].Line)
	}
	if rows[0].Fields["supplier_name"] != "Acme" {
		t.Fatalf("unexpected field mapping: %v", rows[0].Fields)
	}
}
