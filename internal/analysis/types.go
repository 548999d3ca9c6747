package analysis

import "fmt"

// FilterParams are the user-supplied thresholds for one analysis run.
// All bounds are inclusive; a listing must satisfy every provided bound
// to qualify (logical AND).
type FilterParams struct {
	MinDaysListed  int  `json:"min_days_listed"`
	MaxSales       int  `json:"max_sales"`
	MaxWatchCount  int  `json:"max_watch_count"`
	MaxImpressions *int `json:"max_impressions"`
	MaxViews       *int `json:"max_views"`
}

// Validate rejects negative thresholds. A negative bound is an
// integration mistake, not dirty data, so it surfaces as an error
// instead of being clamped.
func (f FilterParams) Validate() error {
	if f.MinDaysListed < 0 {
		return fmt.Errorf("min_days_listed must be >= 0, got %d", f.MinDaysListed)
	}
	if f.MaxSales < 0 {
		return fmt.Errorf("max_sales must be >= 0, got %d", f.MaxSales)
	}
	if f.MaxWatchCount < 0 {
		return fmt.Errorf("max_watch_count must be >= 0, got %d", f.MaxWatchCount)
	}
	if f.MaxImpressions != nil && *f.MaxImpressions < 0 {
		return fmt.Errorf("max_impressions must be >= 0, got %d", *f.MaxImpressions)
	}
	if f.MaxViews != nil && *f.MaxViews < 0 {
		return fmt.Errorf("max_views must be >= 0, got %d", *f.MaxViews)
	}
	return nil
}

// ScoreWeights are the engagement penalties in the zombie score.
// The exact values are tunable policy; the hard contract is the
// monotonicity direction (age up => score up, engagement up => score
// down), which holds for any non-negative weights.
type ScoreWeights struct {
	Sales       float64 `json:"sales"`
	Watches     float64 `json:"watches"`
	Views       float64 `json:"views"`
	Impressions float64 `json:"impressions"`
}

// DefaultScoreWeights weights a sale far above a watch: a sale is
// unambiguous evidence the listing still earns its slot.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Sales:       25,
		Watches:     5,
		Views:       0.5,
		Impressions: 0.05,
	}
}

// Detection is the outcome of supplier inference for one listing.
type Detection struct {
	SupplierName  string `json:"supplier_name"`
	Confidence    string `json:"confidence"`
	ManagementHub string `json:"management_hub"`
	MatchedRule   string `json:"matched_rule"` // pattern that fired, for diagnostics
}
