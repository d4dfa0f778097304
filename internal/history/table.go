package history

import (
	"strconv"
	"strings"
	"time"

	"prtlog/internal/domain"
)

// Entry is one finished arrival event from the history log, with scheduled
// and actual times resolved onto real calendar instants.
type Entry struct {
	TripID      string
	RouteID     string
	StopID      string
	StopName    string
	Direction   domain.Direction
	ServiceDate string
	Scheduled   time.Time
	Actual      time.Time
}

// Deviation is the actual arrival minus the scheduled arrival: positive for
// a late bus, negative for an early one.
func (e Entry) Deviation() time.Duration {
	return e.Actual.Sub(e.Scheduled)
}

// Table is a read-only collection of finished history entries, for delay
// analysis over a collected log. Filters return new tables and leave the
// receiver untouched.
type Table struct {
	entries []Entry
}

// NewTable builds a table from history log lines. Only rows carrying all 10
// fields with parseable times qualify; everything else is skipped.
func NewTable(lines []string) *Table {
	var entries []Entry
	for _, line := range lines {
		fields, err := domain.ParseRecord(line)
		if err != nil || len(fields) != domain.MatchedFieldCount {
			continue
		}
		entry, ok := entryFromRecord(fields)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return &Table{entries: entries}
}

// LoadTable reads the log and builds a table from it.
func LoadTable(l *Log) (*Table, error) {
	lines, err := l.Lines()
	if err != nil {
		return nil, err
	}
	return NewTable(lines), nil
}

func (t *Table) Len() int {
	return len(t.entries)
}

func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Table) FilterRoute(routeID string) *Table {
	return t.filter(func(e Entry) bool { return e.RouteID == routeID })
}

func (t *Table) FilterStop(stopID string) *Table {
	return t.filter(func(e Entry) bool { return e.StopID == stopID })
}

func (t *Table) FilterDirection(d domain.Direction) *Table {
	return t.filter(func(e Entry) bool { return e.Direction == d })
}

func (t *Table) FilterServiceDate(date string) *Table {
	return t.filter(func(e Entry) bool { return e.ServiceDate == date })
}

// AverageDeviation is the mean of all entry deviations. The second return is
// false for an empty table.
func (t *Table) AverageDeviation() (time.Duration, bool) {
	if len(t.entries) == 0 {
		return 0, false
	}
	var total time.Duration
	for _, e := range t.entries {
		total += e.Deviation()
	}
	return total / time.Duration(len(t.entries)), true
}

func (t *Table) filter(keep func(Entry) bool) *Table {
	var entries []Entry
	for _, e := range t.entries {
		if keep(e) {
			entries = append(entries, e)
		}
	}
	return &Table{entries: entries}
}

func entryFromRecord(fields []string) (Entry, bool) {
	serviceDate := fields[domain.FieldScheduledStartDate]
	base, err := time.Parse("2006-01-02", serviceDate)
	if err != nil {
		return Entry{}, false
	}
	startMin, ok := minuteOfDay(fields[domain.FieldScheduledStartTime])
	if !ok {
		return Entry{}, false
	}
	schedMin, ok := minuteOfDay(fields[domain.FieldScheduledArrival])
	if !ok {
		return Entry{}, false
	}
	// The scheduled arrival clock is folded to [00:00, 24:00); re-attach it
	// at or after the trip's start on the service date.
	for schedMin < startMin {
		schedMin += 24 * 60
	}
	scheduled := base.Add(time.Duration(schedMin) * time.Minute)

	logTime, err := time.Parse("2006-01-02T15:04", fields[domain.FieldLogTime])
	if err != nil {
		return Entry{}, false
	}
	actualMin, ok := minuteOfDay(fields[domain.FieldActualArrival])
	if !ok {
		return Entry{}, false
	}
	logDay := logTime.Truncate(24 * time.Hour)
	actual := logDay.Add(time.Duration(actualMin) * time.Minute)
	// A prediction near midnight can point at the next calendar day.
	if actual.Before(logTime) && logTime.Sub(actual) > 12*time.Hour {
		actual = actual.AddDate(0, 0, 1)
	}

	return Entry{
		TripID:      fields[domain.FieldTripID],
		RouteID:     fields[domain.FieldRouteID],
		StopID:      fields[domain.FieldStopID],
		StopName:    fields[domain.FieldStopName],
		Direction:   domain.ParseDirection(fields[domain.FieldDirection]),
		ServiceDate: serviceDate,
		Scheduled:   scheduled,
		Actual:      actual,
	}, true
}

// minuteOfDay parses an HH:MM clock, allowing hours >= 24 for post-midnight
// service times.
func minuteOfDay(clock string) (int, bool) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return hour*60 + minute, true
}
