package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"optlisting/internal/analysis"
	"optlisting/internal/config"
	"optlisting/internal/database"
	"optlisting/internal/models"
)

var (
	userID        = flag.Uint("user", 0, "tenant user id (required)")
	minDaysListed = flag.Int("min-days", 60, "minimum days since listed")
	maxSales      = flag.Int("max-sales", 0, "maximum sales")
	maxWatches    = flag.Int("max-watches", 5, "maximum watch count")
	topN          = flag.Int("top", 25, "number of candidates to print")
)

// Offline analysis runner: same pipeline as the API, printed as a
// ranked report. Annotations are not persisted.
func main() {
	flag.Parse()
	if *userID == 0 {
		log.Fatal("missing -user flag")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	var signals []models.SupplierSignal
	if err := db.Where("enabled = ?", true).Order("signal_type, priority").Find(&signals).Error; err != nil {
		log.Fatalf("loading signal table: %v", err)
	}
	rules := analysis.NewRuleSet(signals)

	var listings []models.Listing
	if err := db.Where("user_id = ?", *userID).Find(&listings).Error; err != nil {
		log.Fatalf("loading listings: %v", err)
	}
	if len(listings) == 0 {
		log.Printf("user %d has no listings; run a sync first", *userID)
		return
	}

	filters := analysis.FilterParams{
		MinDaysListed: *minDaysListed,
		MaxSales:      *maxSales,
		MaxWatchCount: *maxWatches,
	}
	if err := filters.Validate(); err != nil {
		log.Fatalf("invalid thresholds: %v", err)
	}

	now := time.Now().UTC()
	weights := analysis.DefaultScoreWeights()
	refs := make([]*models.Listing, len(listings))
	for i := range listings {
		l := &listings[i]
		refs[i] = l
		det := rules.Detect(l)
		l.SupplierName = det.SupplierName
		l.SupplierConfidence = det.Confidence
		l.ManagementHub = det.ManagementHub
		l.IsZombie, l.ZombieScore = analysis.Classify(l, filters, weights, now)
	}
	analysis.AnnotateGlobalWinners(refs)

	candidates := make([]*models.Listing, 0)
	for _, l := range refs {
		if l.IsZombie {
			candidates = append(candidates, l)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ZombieScore > candidates[j].ZombieScore
	})

	fmt.Printf("Scanned %d listings, %d zombie candidates (filters: >=%dd, <=%d sales, <=%d watches)\n\n",
		len(listings), len(candidates), *minDaysListed, *maxSales, *maxWatches)

	n := *topN
	if n > len(candidates) {
		n = len(candidates)
	}
	fmt.Printf("%-14s %-12s %-6s %-6s %-8s %s\n", "ITEM ID", "SUPPLIER", "DAYS", "SALES", "SCORE", "FLAGS")
	for _, l := range candidates[:n] {
		flags := ""
		if l.IsActiveElsewhere {
			flags = "active-elsewhere"
		}
		if l.IsGlobalWinner {
			flags = "GLOBAL-WINNER"
		}
		supplier := l.SupplierName
		if supplier == "" {
			supplier = "(unverified)"
		}
		fmt.Printf("%-14s %-12s %-6d %-6d %-8.1f %s\n",
			l.ItemID, supplier, analysis.DaysSinceListed(l.DateListed, now), l.Sales, l.ZombieScore, flags)
	}
}
