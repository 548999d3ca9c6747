package models

import (
	"time"

	"gorm.io/gorm"
)

// Supplier confidence tiers. HIGH and MEDIUM require at least one
// deterministic signal (SKU prefix or CDN domain match).
const (
	ConfidenceHigh       = "HIGH"
	ConfidenceMedium     = "MEDIUM"
	ConfidenceLow        = "LOW"
	ConfidenceUnverified = "UNVERIFIED"
)

// User represents a tenant account
type User struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Email          string         `json:"email" gorm:"unique;not null"`
	Plan           string         `json:"plan" gorm:"default:'free'"` // free, starter, pro
	EbayUserID     string         `json:"ebay_user_id"`
	EbayToken      string         `json:"-"`
	TokenExpiresAt *time.Time     `json:"token_expires_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// Listing represents one eBay listing snapshot for a tenant.
// item_id is unique per user, not globally: two tenants may carry the
// same external item independently.
type Listing struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_listings_user_item"`
	User   User   `json:"-" gorm:"foreignKey:UserID"`
	ItemID string `json:"item_id" gorm:"not null;uniqueIndex:idx_listings_user_item"`
	SKU    string `json:"sku" gorm:"index"`

	Title      string    `json:"title"`
	ImageURL   string    `json:"image_url"`
	Brand      string    `json:"brand"`
	UPC        string    `json:"upc" gorm:"index"`
	Price      float64   `json:"price"`
	DateListed time.Time `json:"date_listed"`

	// Engagement metrics, normalized at ingestion; never negative
	Sales       int `json:"sales" gorm:"default:0"`
	Watches     int `json:"watches" gorm:"default:0"`
	Impressions int `json:"impressions" gorm:"default:0"`
	Views       int `json:"views" gorm:"default:0"`

	// Annotations written by the analysis engine
	SupplierName       string  `json:"supplier_name"`
	SupplierConfidence string  `json:"supplier_confidence" gorm:"default:'UNVERIFIED'"`
	ManagementHub      string  `json:"management_hub"`
	IsZombie           bool    `json:"is_zombie" gorm:"default:false"`
	ZombieScore        float64 `json:"zombie_score" gorm:"default:0"`
	IsGlobalWinner     bool    `json:"is_global_winner" gorm:"default:false"`
	IsActiveElsewhere  bool    `json:"is_active_elsewhere" gorm:"default:false"`

	LastAnalyzedAt *time.Time     `json:"last_analyzed_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// AnalysisRun stores one analysis pass for auditing
type AnalysisRun struct {
	ID              string     `json:"id" gorm:"primaryKey;size:36"`
	UserID          uint       `json:"user_id" gorm:"index;not null"`
	MinDaysListed   int        `json:"min_days_listed"`
	MaxSales        int        `json:"max_sales"`
	MaxWatchCount   int        `json:"max_watch_count"`
	MaxImpressions  *int       `json:"max_impressions"`
	MaxViews        *int       `json:"max_views"`
	TotalScanned    int        `json:"total_scanned"`
	TotalZombies    int        `json:"total_zombies"`
	TotalUnverified int        `json:"total_unverified"`
	Status          string     `json:"status" gorm:"default:'completed'"` // running, completed, failed
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at"`
	CreatedAt       time.Time  `json:"created_at"`
}
