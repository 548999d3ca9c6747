// Package export serializes deletion candidates into the exact file
// schemas downstream listing tools import. Column order and header
// names come from the configured format spec; reordering either breaks
// position-based parsers silently, so the spec is applied verbatim.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"optlisting/internal/models"
)

// GenerateCSV renders the selected listings into the tool schema
// described by spec. The header row is always emitted, so an empty
// selection yields a valid header-only file. Rows are never dropped:
// a listing the user selected for deletion is exported even when some
// of its fields are empty.
func GenerateCSV(listings []models.Listing, spec *models.CsvFormatSpec) ([]byte, error) {
	columns, err := orderedColumns(spec)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Header
	}
	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(columns))
	for i := range listings {
		for j, col := range columns {
			row[j] = columnValue(&listings[i], col)
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename returns the download name for an export, e.g.
// autods_2026-08-30.csv
func Filename(spec *models.CsvFormatSpec, date string, suffix string) string {
	if suffix == "" {
		suffix = spec.FileSuffix
	}
	if suffix == "" {
		suffix = "csv"
	}
	return fmt.Sprintf("%s_%s.%s", spec.Name, date, suffix)
}

func orderedColumns(spec *models.CsvFormatSpec) ([]models.ExportColumn, error) {
	if spec == nil || len(spec.Columns) == 0 {
		return nil, fmt.Errorf("format spec has no columns")
	}
	columns := make([]models.ExportColumn, len(spec.Columns))
	copy(columns, spec.Columns)
	sort.SliceStable(columns, func(i, j int) bool { return columns[i].Position < columns[j].Position })
	return columns, nil
}

// columnValue resolves one cell. A fixed literal wins outright; else the
// source field, else the fallback field, else empty. A partially
// populated row beats silently dropping a selected listing.
func columnValue(l *models.Listing, col models.ExportColumn) string {
	if col.FixedValue != "" {
		return col.FixedValue
	}
	if v := fieldValue(l, col.SourceField); v != "" {
		return v
	}
	if col.FallbackField != "" {
		return fieldValue(l, col.FallbackField)
	}
	return ""
}

func fieldValue(l *models.Listing, field string) string {
	switch field {
	case "item_id":
		return l.ItemID
	case "sku":
		return l.SKU
	case "title":
		return l.Title
	case "upc":
		return l.UPC
	case "brand":
		return l.Brand
	case "image_url":
		return l.ImageURL
	case "supplier_name":
		return l.SupplierName
	case "management_hub":
		return l.ManagementHub
	case "price":
		return strconv.FormatFloat(l.Price, 'f', 2, 64)
	case "zombie_score":
		return strconv.FormatFloat(l.ZombieScore, 'f', 1, 64)
	default:
		return ""
	}
}
