package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// CategoryCount is the number of applications for one scholarship category.
type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Count    int    `db:"count" json:"count"`
}

// PlatformStats is the output of the reporting aggregator. Category order is
// unspecified.
type PlatformStats struct {
	TotalUsers             int             `json:"totalUsers"`
	TotalScholarships      int             `json:"totalScholarships"`
	TotalFeesCollected     float64         `json:"totalFeesCollected"`
	ApplicationsByCategory []CategoryCount `json:"applicationsByCategory"`
	GeneratedAt            time.Time       `json:"generatedAt"`
}

// ParseFee converts a stored fee value into a number. Missing or
// non-numeric values count as zero.
func ParseFee(raw *string) float64 {
	if raw == nil {
		return 0
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}
