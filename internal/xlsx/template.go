package xlsx

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

// TemplateHeaders is the canonical column order of the import template.
// Downloaded templates and uploaded spreadsheets share this vocabulary,
// though uploads may reorder or omit the optional columns.
var TemplateHeaders = []string{
	"name",
	"description",
	"serial_number",
	"acquisition_date",
	"purchase_value",
	"quantity",
	"invoice_number",
	"condition",
	"category",
	"supplier_name",
	"supplier_tax_id",
	"supplier_phone",
	"supplier_email",
	"supplier_state_registration",
	"supplier_contact",
	"supplier_notes",
	"sector_location",
	"status",
}

var exampleRow = []string{
	"Dell Latitude 5420 notebook",
	"14in, 16GB RAM, 512GB SSD",
	"SN-2024-00123",
	"15/03/2024",
	"4500.00",
	"1",
	"NF-12345",
	"new",
	"IT Equipment",
	"Dell Computadores do Brasil",
	"72.381.189/0001-10",
	"(11) 4004-0000",
	"vendas@dell.com",
	"",
	"Carlos Souza",
	"",
	"IT Department - 2nd floor",
	"active",
}

const sheetName = "Assets"

// Template builds the downloadable import template: header row, one
// example row and readable column widths.
func Template() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	if err := f.SetSheetRow(sheetName, "A1", &TemplateHeaders); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheetName, "A2", &exampleRow); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.ColumnNumberToName(len(TemplateHeaders))
		_ = f.SetCellStyle(sheetName, "A1", last+"1", headerStyle)
	}

	for i, header := range TemplateHeaders {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		width := float64(len(header)) + 6
		if width < 14 {
			width = 14
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
