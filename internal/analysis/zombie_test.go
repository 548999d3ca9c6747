package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"optlisting/internal/models"
)

func intPtr(v int) *int { return &v }

func TestDaysSinceListed(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 90, DaysSinceListed(now.AddDate(0, 0, -90), now))
	assert.Equal(t, 0, DaysSinceListed(now, now))
	// partial days are not rounded up
	assert.Equal(t, 0, DaysSinceListed(now.Add(-23*time.Hour), now))
	assert.Equal(t, 1, DaysSinceListed(now.Add(-25*time.Hour), now))
	// future date clamps to zero, never negative
	assert.Equal(t, 0, DaysSinceListed(now.AddDate(0, 0, 1), now))
}

func TestClassifyQualifyingListing(t *testing.T) {
	now := time.Now().UTC()
	listing := &models.Listing{
		SKU:        "AMZ-B08XYZ1234",
		DateListed: now.AddDate(0, 0, -90),
	}
	filters := FilterParams{MinDaysListed: 60, MaxSales: 0, MaxWatchCount: 5}

	isZombie, score := Classify(listing, filters, DefaultScoreWeights(), now)
	assert.True(t, isZombie)
	assert.Greater(t, score, 0.0)
}

func TestClassifyAnySaleDisqualifiesUnderZeroMax(t *testing.T) {
	now := time.Now().UTC()
	listing := &models.Listing{
		DateListed: now.AddDate(0, 0, -90),
		Sales:      3,
	}
	filters := FilterParams{MinDaysListed: 60, MaxSales: 0, MaxWatchCount: 5}

	isZombie, _ := Classify(listing, filters, DefaultScoreWeights(), now)
	assert.False(t, isZombie)
}

func TestClassifyThresholdsAreANDed(t *testing.T) {
	now := time.Now().UTC()
	base := models.Listing{DateListed: now.AddDate(0, 0, -120)}
	filters := FilterParams{
		MinDaysListed:  60,
		MaxSales:       2,
		MaxWatchCount:  5,
		MaxImpressions: intPtr(100),
		MaxViews:       intPtr(50),
	}

	tests := []struct {
		name   string
		mutate func(*models.Listing)
		want   bool
	}{
		{"all bounds met", func(l *models.Listing) {}, true},
		{"bounds are inclusive", func(l *models.Listing) {
			l.Sales, l.Watches, l.Impressions, l.Views = 2, 5, 100, 50
		}, true},
		{"too young", func(l *models.Listing) { l.DateListed = now.AddDate(0, 0, -10) }, false},
		{"too many sales", func(l *models.Listing) { l.Sales = 3 }, false},
		{"too many watches", func(l *models.Listing) { l.Watches = 6 }, false},
		{"too many impressions", func(l *models.Listing) { l.Impressions = 101 }, false},
		{"too many views", func(l *models.Listing) { l.Views = 51 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := base
			tt.mutate(&l)
			got, _ := Classify(&l, filters, DefaultScoreWeights(), now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyOptionalBoundsSkippedWhenAbsent(t *testing.T) {
	now := time.Now().UTC()
	listing := &models.Listing{
		DateListed:  now.AddDate(0, 0, -90),
		Impressions: 100000,
		Views:       50000,
	}
	filters := FilterParams{MinDaysListed: 60, MaxSales: 0, MaxWatchCount: 5}

	isZombie, _ := Classify(listing, filters, DefaultScoreWeights(), now)
	assert.True(t, isZombie)
}

func TestClassifySalesMonotonicity(t *testing.T) {
	// turning sales from 0 to any positive value can only flip
	// is_zombie true -> false, never false -> true
	now := time.Now().UTC()
	filters := FilterParams{MinDaysListed: 30, MaxSales: 0, MaxWatchCount: 10}

	for _, ageDays := range []int{0, 10, 30, 90, 365} {
		zero := &models.Listing{DateListed: now.AddDate(0, 0, -ageDays)}
		zeroZombie, _ := Classify(zero, filters, DefaultScoreWeights(), now)

		for _, sales := range []int{1, 2, 10, 500} {
			withSales := &models.Listing{DateListed: zero.DateListed, Sales: sales}
			salesZombie, _ := Classify(withSales, filters, DefaultScoreWeights(), now)
			if !zeroZombie {
				assert.False(t, salesZombie, "age %d sales %d", ageDays, sales)
			}
		}
	}
}

func TestClassifyFutureDateListedClampedNotNegative(t *testing.T) {
	now := time.Now().UTC()
	listing := &models.Listing{DateListed: now.AddDate(0, 0, 1)}
	filters := FilterParams{MinDaysListed: 1, MaxSales: 0, MaxWatchCount: 5}

	isZombie, score := Classify(listing, filters, DefaultScoreWeights(), now)
	assert.False(t, isZombie, "future-dated listing is too new to qualify")
	assert.GreaterOrEqual(t, score, 0.0)
}

func TestScoreMonotonicity(t *testing.T) {
	weights := DefaultScoreWeights()
	base := &models.Listing{}

	// age up => score up
	assert.Greater(t, Score(base, weights, 90), Score(base, weights, 60))

	// each engagement metric up => score down
	for name, mutate := range map[string]func(*models.Listing){
		"sales":       func(l *models.Listing) { l.Sales++ },
		"watches":     func(l *models.Listing) { l.Watches++ },
		"views":       func(l *models.Listing) { l.Views++ },
		"impressions": func(l *models.Listing) { l.Impressions++ },
	} {
		l := models.Listing{}
		before := Score(&l, weights, 90)
		mutate(&l)
		assert.Less(t, Score(&l, weights, 90), before, name)
	}

	// a sale costs far more than a watch
	sold := &models.Listing{Sales: 1}
	watched := &models.Listing{Watches: 1}
	assert.Less(t, Score(sold, weights, 90), Score(watched, weights, 90))
}

func TestFilterParamsValidate(t *testing.T) {
	assert.NoError(t, FilterParams{}.Validate())
	assert.NoError(t, FilterParams{MinDaysListed: 60, MaxSales: 0, MaxWatchCount: 5}.Validate())

	assert.Error(t, FilterParams{MinDaysListed: -1}.Validate())
	assert.Error(t, FilterParams{MaxSales: -1}.Validate())
	assert.Error(t, FilterParams{MaxWatchCount: -2}.Validate())
	assert.Error(t, FilterParams{MaxImpressions: intPtr(-1)}.Validate())
	assert.Error(t, FilterParams{MaxViews: intPtr(-5)}.Validate())
}
