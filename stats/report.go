// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"math"
	"sort"
)

// EntryBucket is one entry number's share of the total
type EntryBucket struct {
	Entry   int     `json:"entry"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// OtherBucket is one fallback bucket's share of the total
type OtherBucket struct {
	Key     string  `json:"key"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// DigitBucket is one kit-number length's share of the total
type DigitBucket struct {
	Digits  int     `json:"digits"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// EntryReport is the chart-ready form of EntryStats
type EntryReport struct {
	Total   int           `json:"total"`
	Entries []EntryBucket `json:"entries"`
	Other   []OtherBucket `json:"other"`
}

// DigitReport is the chart-ready form of DigitCounts
type DigitReport struct {
	Total   int           `json:"total"`
	Buckets []DigitBucket `json:"buckets"`
}

// NewEntryReport orders entry buckets ascending by entry number and
// other buckets lexicographically by key.
func NewEntryReport(s EntryStats) EntryReport {
	total := s.Total()
	report := EntryReport{
		Total:   total,
		Entries: make([]EntryBucket, 0, len(s.Entries)),
		Other:   make([]OtherBucket, 0, len(s.Other)),
	}

	for entry, count := range s.Entries {
		report.Entries = append(report.Entries, EntryBucket{
			Entry:   entry,
			Count:   count,
			Percent: Percent(count, total),
		})
	}
	sort.Slice(report.Entries, func(i, j int) bool {
		return report.Entries[i].Entry < report.Entries[j].Entry
	})

	for key, count := range s.Other {
		report.Other = append(report.Other, OtherBucket{
			Key:     key,
			Count:   count,
			Percent: Percent(count, total),
		})
	}
	sort.Slice(report.Other, func(i, j int) bool {
		return report.Other[i].Key < report.Other[j].Key
	})

	return report
}

// NewDigitReport orders buckets ascending by digit count
func NewDigitReport(counts map[int]int) DigitReport {
	total := 0
	for _, n := range counts {
		total += n
	}

	report := DigitReport{
		Total:   total,
		Buckets: make([]DigitBucket, 0, len(counts)),
	}
	for digits, count := range counts {
		report.Buckets = append(report.Buckets, DigitBucket{
			Digits:  digits,
			Count:   count,
			Percent: Percent(count, total),
		})
	}
	sort.Slice(report.Buckets, func(i, j int) bool {
		return report.Buckets[i].Digits < report.Buckets[j].Digits
	})

	return report
}

// Percent returns count/total as a percentage rounded to one decimal place.
// A zero total yields 0.
func Percent(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}
