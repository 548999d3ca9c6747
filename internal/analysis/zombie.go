package analysis

import (
	"time"

	"optlisting/internal/models"
)

// DaysSinceListed returns the whole-day difference between now and the
// listing date on UTC-normalized timestamps. Partial days are never
// rounded up. A date_listed in the future (clock skew, bad sync data)
// clamps to zero: the listing is "too new to qualify", not an error.
func DaysSinceListed(dateListed, now time.Time) int {
	days := int(now.UTC().Sub(dateListed.UTC()).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Classify decides whether a listing qualifies as a zombie candidate
// under the given thresholds and computes its ranking score. Every
// provided bound must hold (AND); any unmet threshold disqualifies.
// The score is returned for qualifying and non-qualifying listings
// alike, so callers can inspect near-misses.
func Classify(listing *models.Listing, filters FilterParams, weights ScoreWeights, now time.Time) (bool, float64) {
	days := DaysSinceListed(listing.DateListed, now)
	score := Score(listing, weights, days)

	if days < filters.MinDaysListed {
		return false, score
	}
	if listing.Sales > filters.MaxSales {
		return false, score
	}
	if listing.Watches > filters.MaxWatchCount {
		return false, score
	}
	if filters.MaxImpressions != nil && listing.Impressions > *filters.MaxImpressions {
		return false, score
	}
	if filters.MaxViews != nil && listing.Views > *filters.MaxViews {
		return false, score
	}
	return true, score
}

// Score ranks deletion candidates: oldest with the least engagement
// first. Strictly increasing in age, strictly decreasing in every
// engagement metric with non-zero weight.
func Score(listing *models.Listing, weights ScoreWeights, daysListed int) float64 {
	penalty := float64(listing.Sales)*weights.Sales +
		float64(listing.Watches)*weights.Watches +
		float64(listing.Views)*weights.Views +
		float64(listing.Impressions)*weights.Impressions
	return float64(daysListed) - penalty
}
