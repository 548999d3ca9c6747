package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"optlisting/internal/models"
)

func specByName(t *testing.T, name string) *models.CsvFormatSpec {
	t.Helper()
	for _, s := range models.DefaultFormatSpecs() {
		if s.Name == name {
			spec := s
			return &spec
		}
	}
	t.Fatalf("no default spec named %q", name)
	return nil
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestGenerateCSVEmptyInputHeaderOnly(t *testing.T) {
	data, err := GenerateCSV(nil, specByName(t, "autods"))
	require.NoError(t, err)

	rows := parseCSV(t, data)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Source ID", "File Action"}, rows[0])
}

func TestGenerateCSVColumnOrderMatchesSpecForAllSchemas(t *testing.T) {
	listing := models.Listing{ItemID: "255012345678", SKU: "AMZ-B08XYZ1234"}

	for _, spec := range models.DefaultFormatSpecs() {
		spec := spec
		t.Run(spec.Name, func(t *testing.T) {
			data, err := GenerateCSV([]models.Listing{listing}, &spec)
			require.NoError(t, err)

			rows := parseCSV(t, data)
			require.Len(t, rows, 2)

			// header position-by-position against the spec's order
			require.Len(t, rows[0], len(spec.Columns))
			for i, col := range spec.Columns {
				assert.Equal(t, col.Header, rows[0][i], "column %d of %s", i, spec.Name)
			}
		})
	}
}

func TestGenerateCSVFixedValueIgnoresListingData(t *testing.T) {
	listing := models.Listing{ItemID: "111222333"}

	data, err := GenerateCSV([]models.Listing{listing}, specByName(t, "ebay_file_exchange"))
	require.NoError(t, err)

	rows := parseCSV(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Action", "ItemID"}, rows[0])
	assert.Equal(t, []string{"End", "111222333"}, rows[1])
}

func TestGenerateCSVFallbackField(t *testing.T) {
	spec := specByName(t, "wholesale2b") // SKU falls back to item_id

	withSKU := models.Listing{ItemID: "100", SKU: "WM-1"}
	withoutSKU := models.Listing{ItemID: "200"}

	data, err := GenerateCSV([]models.Listing{withSKU, withoutSKU}, spec)
	require.NoError(t, err)

	rows := parseCSV(t, data)
	require.Len(t, rows, 3)
	assert.Equal(t, "WM-1", rows[1][0])
	assert.Equal(t, "200", rows[2][0])
}

func TestGenerateCSVEmptyFieldsEmitEmptyString(t *testing.T) {
	// a listing with nothing but an internal id still gets a row;
	// partial rows beat dropping a selected listing
	spec := &models.CsvFormatSpec{
		Name: "test",
		Columns: []models.ExportColumn{
			{Position: 0, Header: "SKU", SourceField: "sku"},
			{Position: 1, Header: "UPC", SourceField: "upc"},
		},
	}

	data, err := GenerateCSV([]models.Listing{{}}, spec)
	require.NoError(t, err)

	rows := parseCSV(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"", ""}, rows[1])
}

func TestGenerateCSVColumnsSortedByPosition(t *testing.T) {
	// spec rows loaded out of order still serialize in position order
	spec := &models.CsvFormatSpec{
		Name: "test",
		Columns: []models.ExportColumn{
			{Position: 1, Header: "Second", FixedValue: "b"},
			{Position: 0, Header: "First", FixedValue: "a"},
		},
	}

	data, err := GenerateCSV([]models.Listing{{}}, spec)
	require.NoError(t, err)

	rows := parseCSV(t, data)
	assert.Equal(t, []string{"First", "Second"}, rows[0])
	assert.Equal(t, []string{"a", "b"}, rows[1])
}

func TestGenerateCSVNoColumnsIsError(t *testing.T) {
	_, err := GenerateCSV(nil, &models.CsvFormatSpec{Name: "empty"})
	assert.Error(t, err)

	_, err = GenerateCSV(nil, nil)
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	spec := specByName(t, "autods")
	assert.Equal(t, "autods_2026-08-30.csv", Filename(spec, "2026-08-30", ""))
	assert.Equal(t, "autods_2026-08-30.xlsx", Filename(spec, "2026-08-30", "xlsx"))
}

func TestGenerateXLSXMatchesCSVSemantics(t *testing.T) {
	listing := models.Listing{ItemID: "255012345678", SKU: "AMZ-B08XYZ1234"}
	spec := specByName(t, "autods")

	data, err := GenerateXLSX([]models.Listing{listing}, spec)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Export")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Source ID", "File Action"}, rows[0])
	assert.Equal(t, []string{"255012345678", "delete"}, rows[1])
}
