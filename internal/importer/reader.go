// Package importer implements the bulk asset import pipeline: spreadsheet
// reading, row validation, supplier/sector/category resolution and asset
// creation, with per-row error accumulation and progress reporting.
package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrFileNotFound is returned when the source path does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidFileKind is returned for extensions other than .csv, .xls and .xlsx.
	ErrInvalidFileKind = errors.New("unsupported file format, use .xlsx, .xls or .csv")
	// ErrEmptySheet is returned when no data rows remain after skipping blanks.
	ErrEmptySheet = errors.New("no data rows found")
)

// RequiredColumns must all be present in the header row.
var RequiredColumns = []string{
	"name",
	"acquisition_date",
	"purchase_value",
	"category",
	"supplier_name",
	"sector_location",
	"status",
}

// OptionalColumns complete the canonical header set of the template.
var OptionalColumns = []string{
	"description",
	"serial_number",
	"quantity",
	"invoice_number",
	"condition",
	"supplier_tax_id",
	"supplier_phone",
	"supplier_email",
	"supplier_state_registration",
	"supplier_contact",
	"supplier_notes",
}

// MissingColumnsError names every required column absent from the header.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// RawRow is one non-blank spreadsheet line before validation. Fields maps
// lowercased header names to raw cell text. Line is 1-based and counts
// the header as line 1, matching spreadsheet editors.
type RawRow struct {
	Line   int
	Fields map[string]string
}

// ReadSpreadsheet loads every non-blank data row of a .csv, .xls or
// .xlsx file. Read-only: no database access happens here.
func ReadSpreadsheet(path string) ([]RawRow, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, ErrFileNotFound
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xls", ".xlsx":
		return readXLSX(path)
	default:
		return nil, ErrInvalidFileKind
	}
}

func readCSV(path string) ([]RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(stripBOM(f))
	reader.FieldsPerRecord = -1
	record, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptySheet
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	headers := normalizeHeaders(record)
	if err := checkRequired(headers); err != nil {
		return nil, err
	}

	var rows []RawRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++
		if row, ok := buildRow(headers, record, line); ok {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	return rows, nil
}

func readXLSX(path string) ([]RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	iter, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	defer iter.Close()

	var headers []string
	var rows []RawRow
	line := 0
	for iter.Next() {
		cells, err := iter.Columns()
		if err != nil {
			return nil, fmt.Errorf("read workbook row: %w", err)
		}
		line++
		if line == 1 {
			headers = normalizeHeaders(cells)
			if err := checkRequired(headers); err != nil {
				return nil, err
			}
			continue
		}
		if row, ok := buildRow(headers, cells, line); ok {
			rows = append(rows, row)
		}
	}
	if len(headers) == 0 {
		return nil, ErrEmptySheet
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	return rows, nil
}

func normalizeHeaders(cells []string) []string {
	headers := make([]string, len(cells))
	for i, cell := range cells {
		headers[i] = strings.ToLower(strings.TrimSpace(cell))
	}
	return headers
}

func checkRequired(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var missing []string
	for _, required := range RequiredColumns {
		if !present[required] {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

// buildRow maps cells onto headers by position. Returns ok=false for
// rows whose every cell is blank; those are skipped silently.
func buildRow(headers, cells []string, line int) (RawRow, bool) {
	fields := make(map[string]string, len(headers))
	blank := true
	for i, header := range headers {
		if header == "" || i >= len(cells) {
			continue
		}
		fields[header] = cells[i]
		if strings.TrimSpace(cells[i]) != "" {
			blank = false
		}
	}
	if blank {
		return RawRow{}, false
	}
	return RawRow{Line: line, Fields: fields}, true
}

// stripBOM removes a leading UTF-8 byte order mark, common in CSV files
// exported by Excel.
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if lead, err := br.Peek(3); err == nil && lead[0] == 0xEF && lead[1] == 0xBB && lead[2] == 0xBF {
		_, _ = br.Discard(3)
	}
	return br
}
