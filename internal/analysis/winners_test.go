package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"optlisting/internal/models"
)

func TestAnnotateGlobalWinnersByUPC(t *testing.T) {
	now := time.Now().UTC()
	a := &models.Listing{ItemID: "111", UPC: "012345678905", Sales: 50, DateListed: now.AddDate(0, 0, -30)}
	b := &models.Listing{ItemID: "222", UPC: "012345678905", Sales: 0, IsZombie: true, DateListed: now.AddDate(0, 0, -200)}

	AnnotateGlobalWinners([]*models.Listing{a, b})

	assert.True(t, a.IsGlobalWinner)
	assert.False(t, a.IsActiveElsewhere)
	assert.False(t, b.IsGlobalWinner)
	assert.True(t, b.IsActiveElsewhere)
	// winner annotation never touches the zombie decision
	assert.True(t, b.IsZombie)
}

func TestAnnotateGlobalWinnersExactlyOneWinnerPerGroup(t *testing.T) {
	group := []*models.Listing{
		{ItemID: "1", UPC: "u1", Sales: 5},
		{ItemID: "2", UPC: "u1", Sales: 9},
		{ItemID: "3", UPC: "u1", Sales: 9, Watches: 4},
		{ItemID: "4", UPC: "u1", Sales: 2},
	}

	AnnotateGlobalWinners(group)

	winners := 0
	for _, l := range group {
		if l.IsGlobalWinner {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
	// ties on sales break by watches
	assert.True(t, group[2].IsGlobalWinner)
	for _, l := range group {
		if !l.IsGlobalWinner {
			assert.True(t, l.IsActiveElsewhere, "item %s", l.ItemID)
		}
	}
}

func TestAnnotateGlobalWinnersTieBreaksByRecency(t *testing.T) {
	now := time.Now().UTC()
	older := &models.Listing{ItemID: "old", UPC: "u2", Sales: 3, Watches: 2, DateListed: now.AddDate(0, 0, -300)}
	newer := &models.Listing{ItemID: "new", UPC: "u2", Sales: 3, Watches: 2, DateListed: now.AddDate(0, 0, -30)}

	AnnotateGlobalWinners([]*models.Listing{older, newer})

	assert.True(t, newer.IsGlobalWinner)
	assert.False(t, older.IsGlobalWinner)
}

func TestAnnotateGlobalWinnersSupplierSKUFallback(t *testing.T) {
	// no UPC; identity falls back to (supplier, sku)
	a := &models.Listing{ItemID: "1", SupplierName: "Amazon", SKU: "AMZ-B01", Sales: 10}
	b := &models.Listing{ItemID: "2", SupplierName: "Amazon", SKU: "AMZ-B01", Sales: 0}
	c := &models.Listing{ItemID: "3", SupplierName: "Walmart", SKU: "AMZ-B01", Sales: 99}

	AnnotateGlobalWinners([]*models.Listing{a, b, c})

	assert.True(t, a.IsGlobalWinner)
	assert.True(t, b.IsActiveElsewhere)
	// different supplier, different product: singleton, untouched
	assert.False(t, c.IsGlobalWinner)
	assert.False(t, c.IsActiveElsewhere)
}

func TestAnnotateGlobalWinnersNoGroupingWithoutIdentity(t *testing.T) {
	// identical-looking listings with no UPC and no supplier stay solo
	a := &models.Listing{ItemID: "1", SKU: "X-1", Sales: 10}
	b := &models.Listing{ItemID: "2", SKU: "X-1", Sales: 0}

	AnnotateGlobalWinners([]*models.Listing{a, b})

	assert.False(t, a.IsGlobalWinner)
	assert.False(t, b.IsActiveElsewhere)
}

func TestAnnotateGlobalWinnersZeroSalesGroupNotActiveElsewhere(t *testing.T) {
	// a group where nothing sells still elects a winner, but none of
	// the copies is "active elsewhere"
	a := &models.Listing{ItemID: "1", UPC: "u3", Watches: 5}
	b := &models.Listing{ItemID: "2", UPC: "u3"}

	AnnotateGlobalWinners([]*models.Listing{a, b})

	assert.True(t, a.IsGlobalWinner)
	assert.False(t, b.IsActiveElsewhere)
}

func TestAnnotateGlobalWinnersRecomputesOnRerun(t *testing.T) {
	a := &models.Listing{ItemID: "1", UPC: "u4", Sales: 1, IsGlobalWinner: false, IsActiveElsewhere: true}
	b := &models.Listing{ItemID: "2", UPC: "u4", Sales: 9, IsGlobalWinner: false, IsActiveElsewhere: true}

	AnnotateGlobalWinners([]*models.Listing{a, b})

	assert.False(t, a.IsGlobalWinner)
	assert.True(t, a.IsActiveElsewhere)
	assert.True(t, b.IsGlobalWinner)
	assert.False(t, b.IsActiveElsewhere)
}
