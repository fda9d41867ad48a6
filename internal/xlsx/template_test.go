package xlsx

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestTemplateHeadersInOrder(t *testing.T) {
	data, err := Template()
	if err != nil {
		t.Fatalf("Template: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open generated workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) < 2 {
		t.Fatalf("expected header and example rows, got %d rows", len(rows))
	}
	if len(rows[0]) != len(TemplateHeaders) {
		t.Fatalf("expected %d header cells, got %d", len(TemplateHeaders), len(rows[0]))
	}
	for i, want := range TemplateHeaders {
		if rows[0][i] != want {
			t.Fatalf("header %d: expected %q, got %q", i, want, rows[0][i])
		}
	}
	if rows[1][0] == "" {
		t.Fatalf("example row should populate the name column")
	}
}
