package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"optlisting/internal/models"
)

// GenerateXLSX renders the same schema as GenerateCSV into a styled
// worksheet, for tools that take spreadsheet uploads instead of raw CSV.
// Column semantics are identical; only the container differs.
func GenerateXLSX(listings []models.Listing, spec *models.CsvFormatSpec) ([]byte, error) {
	columns, err := orderedColumns(spec)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Export"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col.Header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)

		name, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, name, name, 20)
	}

	for r := range listings {
		for c, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, columnValue(&listings[r], col))
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
