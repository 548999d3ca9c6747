package ebay

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"optlisting/internal/models"
)

const defaultBaseURL = "https://api.ebay.com/sell/inventory/v1"

// SyncService pulls a tenant's active listings from eBay. It is the
// input collaborator for the analysis engine: it only delivers raw
// listing snapshots, all classification happens downstream.
type SyncService struct {
	appID   string
	baseURL string
	client  *resty.Client
}

// RawListing is one listing as delivered by the sync API, before
// ingestion normalization. Engagement metrics arrive as a loose map
// because field names differ between eBay API flavors.
type RawListing struct {
	ItemID     string                 `json:"item_id"`
	SKU        string                 `json:"sku"`
	Title      string                 `json:"title"`
	ImageURL   string                 `json:"image_url"`
	Brand      string                 `json:"brand"`
	UPC        string                 `json:"upc"`
	Price      float64                `json:"price"`
	DateListed time.Time              `json:"date_listed"`
	Metrics    map[string]interface{} `json:"metrics"`
}

type listingPageResponse struct {
	Total    int          `json:"total"`
	Limit    int          `json:"limit"`
	Offset   int          `json:"offset"`
	Listings []RawListing `json:"listings"`
}

func NewSyncService(appID string) *SyncService {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(2)

	return &SyncService{
		appID:   appID,
		baseURL: defaultBaseURL,
		client:  client,
	}
}

// SetBaseURL points the client at a different endpoint, used by tests
// and sandbox environments
func (s *SyncService) SetBaseURL(u string) {
	s.baseURL = u
}

// FetchActiveListings retrieves one page of the user's active listings.
// Returns the page plus the total count reported upstream.
func (s *SyncService) FetchActiveListings(userToken string, offset, limit int) ([]RawListing, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var page listingPageResponse
	resp, err := s.client.R().
		// upstream occasionally omits the JSON content type; force
		// unmarshaling so a 200 never silently yields zero listings
		ForceContentType("application/json").
		SetHeader("Authorization", "Bearer "+userToken).
		SetHeader("X-EBAY-C-MARKETPLACE-ID", "EBAY_US").
		SetQueryParams(map[string]string{
			"offset": fmt.Sprintf("%d", offset),
			"limit":  fmt.Sprintf("%d", limit),
		}).
		SetResult(&page).
		Get(s.baseURL + "/listing")
	if err != nil {
		return nil, 0, fmt.Errorf("fetch listings: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, 0, fmt.Errorf("fetch listings: upstream status %d", resp.StatusCode())
	}

	return page.Listings, page.Total, nil
}

// ToListing normalizes a raw sync record into the typed model. This is
// the single place loose metric maps become well-typed integers; the
// analysis core never re-validates.
func ToListing(userID uint, raw RawListing) models.Listing {
	m := models.NormalizeMetrics(raw.Metrics)
	return models.Listing{
		UserID:      userID,
		ItemID:      raw.ItemID,
		SKU:         raw.SKU,
		Title:       raw.Title,
		ImageURL:    raw.ImageURL,
		Brand:       raw.Brand,
		UPC:         raw.UPC,
		Price:       raw.Price,
		DateListed:  raw.DateListed,
		Sales:       m.Sales,
		Watches:     m.Watches,
		Impressions: m.Impressions,
		Views:       m.Views,
	}
}
