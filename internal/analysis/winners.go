package analysis

import (
	"fmt"

	"optlisting/internal/models"
)

// AnnotateGlobalWinners cross-references product identity across a
// user's full listing set and flags, per duplicate group, the single
// best-performing copy. Deleting a zombie-looking duplicate is safe
// when the same product is already winning elsewhere; deleting the only
// copy loses the product entirely, and the two flags let the export UI
// tell those cases apart.
//
// Runs after classification and never changes is_zombie. Mutates the
// given listings in place; both flags are recomputed from scratch so
// repeated runs stay consistent.
func AnnotateGlobalWinners(listings []*models.Listing) {
	groups := make(map[string][]*models.Listing)
	for i, l := range listings {
		l.IsGlobalWinner = false
		l.IsActiveElsewhere = false
		key := productKey(l, i)
		groups[key] = append(groups[key], l)
	}

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		winner := group[0]
		hasSales := false
		for _, l := range group {
			if l.Sales > 0 {
				hasSales = true
			}
			if beats(l, winner) {
				winner = l
			}
		}
		winner.IsGlobalWinner = true
		if !hasSales {
			continue
		}
		for _, l := range group {
			if l != winner {
				l.IsActiveElsewhere = true
			}
		}
	}
}

// productKey groups duplicate listings of the same underlying product:
// UPC when present, else (supplier, sku) when the supplier is known,
// else the listing stands alone.
func productKey(l *models.Listing, idx int) string {
	if l.UPC != "" {
		return "upc:" + l.UPC
	}
	if l.SupplierName != "" && l.SKU != "" {
		return "sup:" + l.SupplierName + "|" + l.SKU
	}
	return fmt.Sprintf("solo:%d", idx)
}

// beats reports whether a should replace b as group winner: highest
// sales, ties broken by watches, then by most recent listing date
func beats(a, b *models.Listing) bool {
	if a.Sales != b.Sales {
		return a.Sales > b.Sales
	}
	if a.Watches != b.Watches {
		return a.Watches > b.Watches
	}
	return a.DateListed.After(b.DateListed)
}
