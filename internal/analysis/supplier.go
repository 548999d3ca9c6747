package analysis

import (
	"net/url"
	"sort"
	"strings"

	"optlisting/internal/models"
)

// managementHubPrefixes are intermediary platforms whose routing prefix
// wraps the real supplier prefix, e.g. AUTODS-AMZ-B08XYZ. The wrapper is
// stripped and the remainder re-matched against the SKU prefix table;
// the hub is recorded separately from the supplier.
var managementHubPrefixes = []struct {
	prefix string
	hub    string
}{
	{"AUTODS-", "AutoDS"},
	{"SHOP-", "Shopify"},
	{"YBL-", "Yaballe"},
}

// RuleSet holds the supplier signal table split by signal type and
// ordered by priority. Build one per analysis run from the configured
// rows; it carries no mutable state after construction.
type RuleSet struct {
	skuPrefixes   []models.SupplierSignal
	imageDomains  []models.SupplierSignal
	titleKeywords []models.SupplierSignal
}

// NewRuleSet filters disabled rows and sorts each signal type by
// priority. IMAGE_DOMAIN row order is significant: more specific domains
// must carry lower priority values than generic ones.
func NewRuleSet(signals []models.SupplierSignal) *RuleSet {
	rs := &RuleSet{}
	for _, s := range signals {
		if !s.Enabled {
			continue
		}
		switch s.SignalType {
		case models.SignalSKUPrefix:
			rs.skuPrefixes = append(rs.skuPrefixes, s)
		case models.SignalImageDomain:
			rs.imageDomains = append(rs.imageDomains, s)
		case models.SignalTitleKeyword:
			rs.titleKeywords = append(rs.titleKeywords, s)
		}
	}
	for _, group := range [][]models.SupplierSignal{rs.skuPrefixes, rs.imageDomains, rs.titleKeywords} {
		group := group
		sort.SliceStable(group, func(i, j int) bool { return group[i].Priority < group[j].Priority })
	}
	return rs
}

// Detect infers the drop-shipping supplier for one listing. Signals are
// checked in strict priority order and the first match wins; a
// lower-priority signal never overrides a higher one. Detect is total:
// malformed image URLs are non-matches, never errors, so one bad record
// cannot abort a whole-tenant run.
func (rs *RuleSet) Detect(listing *models.Listing) Detection {
	// 1. SKU prefix (HIGH)
	sku := strings.ToUpper(strings.TrimSpace(listing.SKU))
	hub := ""
	for _, h := range managementHubPrefixes {
		if strings.HasPrefix(sku, h.prefix) && len(sku) > len(h.prefix) {
			hub = h.hub
			sku = sku[len(h.prefix):]
			break
		}
	}
	if sku != "" {
		for _, rule := range rs.skuPrefixes {
			if strings.HasPrefix(sku, strings.ToUpper(rule.Pattern)) {
				return Detection{
					SupplierName:  rule.SupplierName,
					Confidence:    rule.ConfidenceTier,
					ManagementHub: hub,
					MatchedRule:   rule.Pattern,
				}
			}
		}
	}

	// 2. Image CDN domain (HIGH)
	if host := imageHost(listing.ImageURL); host != "" {
		for _, rule := range rs.imageDomains {
			if strings.Contains(host, strings.ToLower(rule.Pattern)) {
				return Detection{
					SupplierName:  rule.SupplierName,
					Confidence:    rule.ConfidenceTier,
					ManagementHub: hub,
					MatchedRule:   rule.Pattern,
				}
			}
		}
	}

	// 3. Title keyword, capped at MEDIUM: a title mentioning a brand
	// does not prove sourcing
	title := strings.ToLower(listing.Title)
	if title != "" {
		for _, rule := range rs.titleKeywords {
			if strings.Contains(title, strings.ToLower(rule.Pattern)) {
				return Detection{
					SupplierName:  rule.SupplierName,
					Confidence:    capTier(rule.ConfidenceTier, models.ConfidenceMedium),
					ManagementHub: hub,
					MatchedRule:   rule.Pattern,
				}
			}
		}
	}

	// 4. No match. Not an error: unverified listings stay in the set
	// for manual classification.
	return Detection{Confidence: models.ConfidenceUnverified, ManagementHub: hub}
}

// imageHost extracts the lowercase host from an image URL, returning ""
// for anything unparseable
func imageHost(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

var tierRank = map[string]int{
	models.ConfidenceUnverified: 0,
	models.ConfidenceLow:        1,
	models.ConfidenceMedium:     2,
	models.ConfidenceHigh:       3,
}

// capTier limits a configured tier so a misconfigured rule row cannot
// promote a weak signal above its ceiling. Unrecognized tier strings
// degrade to LOW rather than inheriting the cap.
func capTier(tier, max string) string {
	if _, ok := tierRank[tier]; !ok {
		return models.ConfidenceLow
	}
	if tierRank[tier] > tierRank[max] {
		return max
	}
	return tier
}
