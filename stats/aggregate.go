// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/gala-registration/models"
)

// EntryStats holds registration counts by entry number.
// Kit numbers that match no entry rule are counted in Other,
// keyed by OtherKey of their digit length.
type EntryStats struct {
	Entries map[int]int
	Other   map[string]int
}

// Total returns the number of registrations counted in either map
func (s EntryStats) Total() int {
	total := 0
	for _, n := range s.Entries {
		total += n
	}
	for _, n := range s.Other {
		total += n
	}
	return total
}

// OtherKey labels the fallback bucket for kit numbers of the given length
func OtherKey(length int) string {
	return strconv.Itoa(length) + "-digit-other"
}

// Aggregate counts registrations by entry number.
// Registrations with a blank kit number are skipped.
func Aggregate(regs []models.Registration) EntryStats {
	return aggregateKitNumbers(kitNumbers(regs))
}

// aggregateKitNumbers is Aggregate over bare kit numbers
func aggregateKitNumbers(kits []string) EntryStats {
	stats := EntryStats{
		Entries: make(map[int]int),
		Other:   make(map[string]int),
	}

	for _, kit := range kits {
		trimmed := strings.TrimSpace(kit)
		if trimmed == "" {
			continue
		}

		if entry, ok := Classify(trimmed); ok {
			stats.Entries[entry]++
		} else {
			stats.Other[OtherKey(utf8.RuneCountInString(trimmed))]++
		}
	}

	return stats
}

// DigitCounts counts registrations by the length of their trimmed kit number.
// Registrations with a blank kit number are skipped.
func DigitCounts(regs []models.Registration) map[int]int {
	return digitCountsOf(kitNumbers(regs))
}

// digitCountsOf is DigitCounts over bare kit numbers
func digitCountsOf(kits []string) map[int]int {
	counts := make(map[int]int)
	for _, kit := range kits {
		trimmed := strings.TrimSpace(kit)
		if trimmed == "" {
			continue
		}
		counts[utf8.RuneCountInString(trimmed)]++
	}
	return counts
}

func kitNumbers(regs []models.Registration) []string {
	kits := make([]string, len(regs))
	for i, reg := range regs {
		kits[i] = reg.KitNumber
	}
	return kits
}
