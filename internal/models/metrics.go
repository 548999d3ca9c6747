package models

import (
	"strconv"
	"strings"
)

// Metrics holds the typed engagement counters extracted from a raw sync
// payload. Missing or unparseable values default to zero; negatives are
// clamped so downstream analysis can assume well-formed integers.
type Metrics struct {
	Sales       int `json:"sales"`
	Watches     int `json:"watches"`
	Impressions int `json:"impressions"`
	Views       int `json:"views"`
}

// NormalizeMetrics converts the loose key/value metrics map delivered by
// the sync collaborator into typed counters. Field names vary by data
// source, so common aliases are accepted.
func NormalizeMetrics(raw map[string]interface{}) Metrics {
	return Metrics{
		Sales:       metricValue(raw, "sales", "quantity_sold", "sold"),
		Watches:     metricValue(raw, "watches", "watch_count", "watchers"),
		Impressions: metricValue(raw, "impressions", "impression_count"),
		Views:       metricValue(raw, "views", "page_views", "hit_count"),
	}
}

func metricValue(raw map[string]interface{}, keys ...string) int {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if n, ok := toInt(v); ok {
			if n < 0 {
				return 0
			}
			return n
		}
	}
	return 0
}

func toInt(v interface{}) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		// JSON numbers decode as float64
		return int(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
	}
	return 0, false
}
