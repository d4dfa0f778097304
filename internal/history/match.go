package history

import (
	"prtlog/internal/domain"
	"prtlog/internal/timetable"
)

// MatchSchedule appends the scheduled arrival time to every observation that
// still lacks one, using the timetable block index. The header passes through
// verbatim, as does any row already carrying 10 fields (matched on a prior
// run) or any row that is not a well-formed observation.
//
// Observations whose route/direction/start-time resolves to no timetable
// block, or whose stop does not appear in the matched block, are dropped from
// the rewritten log rather than kept unmatched.
func MatchSchedule(lines []string, ix *timetable.Index) (result []string, matched, dropped int) {
	if len(lines) == 0 {
		return lines, 0, 0
	}

	out := make([]string, 0, len(lines))
	out = append(out, lines[0])

	for _, line := range lines[1:] {
		fields, err := domain.ParseRecord(line)
		if err != nil || len(fields) != domain.ObservationFieldCount {
			// already matched, or not an observation at all
			out = append(out, line)
			continue
		}

		direction := domain.ParseDirection(fields[domain.FieldDirection])
		arrival, ok := ix.ScheduledArrival(
			fields[domain.FieldRouteID],
			direction.Code(),
			fields[domain.FieldScheduledStartTime],
			fields[domain.FieldStopID],
		)
		if !ok {
			dropped++
			continue
		}
		out = append(out, domain.FormatRecord(append(fields, arrival)))
		matched++
	}
	return out, matched, dropped
}
