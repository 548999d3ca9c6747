package models

import "time"

// Signal types for supplier detection, in priority order
const (
	SignalSKUPrefix    = "SKU_PREFIX"
	SignalImageDomain  = "IMAGE_DOMAIN"
	SignalTitleKeyword = "TITLE_KEYWORD"
)

// SupplierSignal is one detection rule. Rules live in the database so
// adding a supplier is a data change, not a deploy. Priority orders rows
// within a signal type; for IMAGE_DOMAIN more specific domains must come
// before generic ones.
type SupplierSignal struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Pattern        string    `json:"pattern" gorm:"not null"`
	SupplierName   string    `json:"supplier_name" gorm:"not null;index"`
	SignalType     string    `json:"signal_type" gorm:"not null;index"`
	ConfidenceTier string    `json:"confidence_tier" gorm:"not null"`
	Priority       int       `json:"priority" gorm:"default:100;index"`
	Enabled        bool      `json:"enabled" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DefaultSupplierSignals returns the built-in rule table used to seed an
// empty database.
func DefaultSupplierSignals() []SupplierSignal {
	signals := []SupplierSignal{
		// SKU prefixes
		{Pattern: "AMZ-", SupplierName: "Amazon", SignalType: SignalSKUPrefix, ConfidenceTier: ConfidenceHigh, Priority: 10},
		{Pattern: "AMZN-", SupplierName: "Amazon", SignalType: SignalSKUPrefix, ConfidenceTier: ConfidenceHigh, Priority: 11},
		{Pattern: "WM-", SupplierName: "Walmart", SignalType: SignalSKUPrefix, ConfidenceTier: ConfidenceHigh, Priority: 20},
		{Pattern: "AE-", SupplierName: "AliExpress", SignalType: SignalSKUPrefix, ConfidenceTier: ConfidenceHigh, Priority: 30},
		{Pattern: "ALI-", SupplierName: "AliExpress", SignalType: SignalSKUPrefix, ConfidenceTier: ConfidenceHigh, Priority: 31},
		{Pattern: "CJ-", SupplierName: "CJDropshipping", SignalType: SignalSKUPrefix, ConfidenceTier: ConfidenceHigh, Priority: 40},
		{Pattern: "BG-", SupplierName: "Banggood", SignalType: SignalSKUPrefix, ConfidenceTier: ConfidenceHigh, Priority: 50},
		{Pattern: "DH-", SupplierName: "DHgate", SignalType: SignalSKUPrefix, ConfidenceTier: ConfidenceHigh, Priority: 60},
		{Pattern: "HD-", SupplierName: "HomeDepot", SignalType: SignalSKUPrefix, ConfidenceTier: ConfidenceHigh, Priority: 70},

		// Image CDN domains; specific hosts before generic substrings
		{Pattern: "images-na.ssl-images-amazon.com", SupplierName: "Amazon", SignalType: SignalImageDomain, ConfidenceTier: ConfidenceHigh, Priority: 10},
		{Pattern: "ssl-images-amazon.com", SupplierName: "Amazon", SignalType: SignalImageDomain, ConfidenceTier: ConfidenceHigh, Priority: 11},
		{Pattern: "media-amazon.com", SupplierName: "Amazon", SignalType: SignalImageDomain, ConfidenceTier: ConfidenceHigh, Priority: 12},
		{Pattern: "i5.walmartimages.com", SupplierName: "Walmart", SignalType: SignalImageDomain, ConfidenceTier: ConfidenceHigh, Priority: 20},
		{Pattern: "walmartimages.com", SupplierName: "Walmart", SignalType: SignalImageDomain, ConfidenceTier: ConfidenceHigh, Priority: 21},
		{Pattern: "ae01.alicdn.com", SupplierName: "AliExpress", SignalType: SignalImageDomain, ConfidenceTier: ConfidenceHigh, Priority: 30},
		{Pattern: "alicdn.com", SupplierName: "AliExpress", SignalType: SignalImageDomain, ConfidenceTier: ConfidenceHigh, Priority: 31},
		{Pattern: "cf.cjdropshipping.com", SupplierName: "CJDropshipping", SignalType: SignalImageDomain, ConfidenceTier: ConfidenceHigh, Priority: 40},
		{Pattern: "imgaz.staticbg.com", SupplierName: "Banggood", SignalType: SignalImageDomain, ConfidenceTier: ConfidenceHigh, Priority: 50},
		{Pattern: "dhresource.com", SupplierName: "DHgate", SignalType: SignalImageDomain, ConfidenceTier: ConfidenceHigh, Priority: 60},
		{Pattern: "homedepot-static.com", SupplierName: "HomeDepot", SignalType: SignalImageDomain, ConfidenceTier: ConfidenceHigh, Priority: 70},

		// Title keywords; capped at MEDIUM, titles are unreliable
		{Pattern: "amazon basics", SupplierName: "Amazon", SignalType: SignalTitleKeyword, ConfidenceTier: ConfidenceMedium, Priority: 10},
		{Pattern: "amazonbasics", SupplierName: "Amazon", SignalType: SignalTitleKeyword, ConfidenceTier: ConfidenceMedium, Priority: 11},
		{Pattern: "walmart", SupplierName: "Walmart", SignalType: SignalTitleKeyword, ConfidenceTier: ConfidenceMedium, Priority: 20},
		{Pattern: "aliexpress", SupplierName: "AliExpress", SignalType: SignalTitleKeyword, ConfidenceTier: ConfidenceMedium, Priority: 30},
		{Pattern: "banggood", SupplierName: "Banggood", SignalType: SignalTitleKeyword, ConfidenceTier: ConfidenceLow, Priority: 50},
		{Pattern: "dhgate", SupplierName: "DHgate", SignalType: SignalTitleKeyword, ConfidenceTier: ConfidenceLow, Priority: 60},
	}
	for i := range signals {
		signals[i].Enabled = true
	}
	return signals
}
