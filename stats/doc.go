// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package stats classifies kit numbers into entry numbers and aggregates
registrations for the admin dashboards.

# Classification

Classify maps a kit number to a small integer entry number:

	entry, ok := stats.Classify("860") // 22, true

One- and two-digit kit numbers (1-80) are entry 1. Three-digit kit numbers
map by their leading digit, except the 86x and 87x blocks which are entries
22 and 23. Four- and five-digit kit numbers whose first two digits are 10-56
use those two digits as the entry number. Anything else, including blank or
non-numeric input, is unclassified (ok == false). Classify never fails.

# Aggregation

Aggregate counts registrations per entry number, routing unclassified kit
numbers to "other" buckets keyed by length ("4-digit-other"). DigitCounts
counts registrations by kit-number length alone. Both skip blank kit numbers,
allocate fresh maps on every call and never modify their input, so they are
safe to call concurrently.

# Reports

NewEntryReport and NewDigitReport turn the maps into sorted slices with
percentages rounded to one decimal place, ready to be served as JSON.
*/
package stats
