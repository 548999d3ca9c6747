package models

import "time"

// CsvFormatSpec describes one downstream tool's bulk-action file schema.
// Downstream tools parse by position or exact header name, so column
// order is part of the contract.
type CsvFormatSpec struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"unique;not null"` // autods, yaballe, ...
	DisplayName string         `json:"display_name"`
	FileSuffix  string         `json:"file_suffix" gorm:"default:'csv'"`
	Columns     []ExportColumn `json:"columns" gorm:"foreignKey:SpecID;references:ID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ExportColumn maps one output column. FixedValue wins over SourceField;
// FallbackField is consulted when the source field is empty.
type ExportColumn struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	SpecID        uint   `json:"spec_id" gorm:"index;not null"`
	Position      int    `json:"position" gorm:"not null"`
	Header        string `json:"header" gorm:"not null"`
	SourceField   string `json:"source_field"`
	FallbackField string `json:"fallback_field"`
	FixedValue    string `json:"fixed_value"`
}

// DefaultFormatSpecs returns the built-in export schemas used to seed an
// empty database. Adding a tool is a new row set, never a code change.
func DefaultFormatSpecs() []CsvFormatSpec {
	return []CsvFormatSpec{
		{
			Name:        "autods",
			DisplayName: "AutoDS",
			Columns: []ExportColumn{
				{Position: 0, Header: "Source ID", SourceField: "item_id"},
				{Position: 1, Header: "File Action", FixedValue: "delete"},
			},
		},
		{
			Name:        "yaballe",
			DisplayName: "Yaballe",
			Columns: []ExportColumn{
				{Position: 0, Header: "Monitor ID", SourceField: "item_id"},
				{Position: 1, Header: "Action", FixedValue: "Delete"},
			},
		},
		{
			Name:        "ebay_file_exchange",
			DisplayName: "eBay File Exchange",
			Columns: []ExportColumn{
				{Position: 0, Header: "Action", FixedValue: "End"},
				{Position: 1, Header: "ItemID", SourceField: "item_id"},
			},
		},
		{
			Name:        "wholesale2b",
			DisplayName: "Wholesale2B",
			Columns: []ExportColumn{
				{Position: 0, Header: "SKU", SourceField: "sku", FallbackField: "item_id"},
				{Position: 1, Header: "Action", FixedValue: "delete"},
			},
		},
		{
			Name:        "shopify_matrixify",
			DisplayName: "Shopify Matrixify",
			Columns: []ExportColumn{
				{Position: 0, Header: "ID", SourceField: "item_id"},
				{Position: 1, Header: "Command", FixedValue: "DELETE"},
			},
		},
		{
			Name:        "shopify_tagging",
			DisplayName: "Shopify Tagging",
			Columns: []ExportColumn{
				{Position: 0, Header: "Handle", SourceField: "sku", FallbackField: "item_id"},
				{Position: 1, Header: "Tags", FixedValue: "optlisting-delete"},
			},
		},
	}
}
