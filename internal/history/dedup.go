package history

import "prtlog/internal/domain"

// observationKey is the identity of one logical arrival event: two records
// with the same key describe the same bus reaching the same stop on the same
// service date.
type observationKey struct {
	tripID             string
	stopID             string
	scheduledStartDate string
}

// Deduplicate collapses repeated observations of the same logical arrival
// down to the most recently written one. It scans from the end of the log so
// the first record encountered per key is the authoritative, latest poll.
//
// The header line, and any line that does not parse as an observation (CSV
// error or fewer than 9 fields), is retained verbatim and never considered a
// duplicate candidate. Output keeps the original forward order. Removed is
// the number of discarded earlier duplicates.
func Deduplicate(lines []string) (result []string, removed int) {
	seen := make(map[observationKey]struct{})
	kept := make([]string, 0, len(lines))

	for i := len(lines) - 1; i >= 0; i-- {
		if i == 0 {
			// header row
			kept = append(kept, lines[i])
			continue
		}
		fields, err := domain.ParseRecord(lines[i])
		if err != nil || len(fields) < domain.ObservationFieldCount {
			kept = append(kept, lines[i])
			continue
		}
		key := observationKey{
			tripID:             fields[domain.FieldTripID],
			stopID:             fields[domain.FieldStopID],
			scheduledStartDate: fields[domain.FieldScheduledStartDate],
		}
		if _, dup := seen[key]; dup {
			removed++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, lines[i])
	}

	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept, removed
}
