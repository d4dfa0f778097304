package domain

import (
	"encoding/csv"
	"strings"
)

// Direction is the side of a route a trip runs on
type Direction int

const (
	DirectionOutbound Direction = 0
	DirectionInbound  Direction = 1
)

func (d Direction) String() string {
	if d == DirectionOutbound {
		return "OUTBOUND"
	}
	return "INBOUND"
}

// Code returns the GTFS direction_id encoding used by timetable rows.
func (d Direction) Code() string {
	if d == DirectionOutbound {
		return "0"
	}
	return "1"
}

// ParseDirection maps the live feed's direction literal onto Direction.
// Anything other than OUTBOUND is treated as inbound.
func ParseDirection(s string) Direction {
	if s == "OUTBOUND" {
		return DirectionOutbound
	}
	return DirectionInbound
}

// HistoryFields names the history log columns in record order.
var HistoryFields = []string{
	"tatripid",
	"log_time",
	"stop_name",
	"stop_id",
	"route_id",
	"direction",
	"scheduled_start_date",
	"scheduled_start_time",
	"actual_arrival_time",
	"scheduled_arrival_time",
}

// HistoryHeader is the first line of every history log.
var HistoryHeader = strings.Join(HistoryFields, ",")

// Positions of the fields within a history record.
const (
	FieldTripID             = 0
	FieldLogTime            = 1
	FieldStopName           = 2
	FieldStopID             = 3
	FieldRouteID            = 4
	FieldDirection          = 5
	FieldScheduledStartDate = 6
	FieldScheduledStartTime = 7
	FieldActualArrival      = 8
	FieldScheduledArrival   = 9
)

// ObservationFieldCount is the width of a freshly recorded observation;
// MatchedFieldCount is the width after a scheduled arrival has been appended.
const (
	ObservationFieldCount = 9
	MatchedFieldCount     = 10
)

// Observation is a single polled arrival prediction. Immutable once logged,
// except for the later appension of the scheduled arrival time.
type Observation struct {
	TripID             string
	LogTime            string // 2006-01-02T15:04
	StopName           string
	StopID             string
	RouteID            string
	Direction          string // OUTBOUND or INBOUND
	ScheduledStartDate string // 2006-01-02
	ScheduledStartTime string // 15:04, hours 24-27 for post-midnight service
	ActualArrivalTime  string // 15:04
}

// Record returns the observation as history log fields.
func (o Observation) Record() []string {
	return []string{
		o.TripID,
		o.LogTime,
		o.StopName,
		o.StopID,
		o.RouteID,
		o.Direction,
		o.ScheduledStartDate,
		o.ScheduledStartTime,
		o.ActualArrivalTime,
	}
}

// FormatRecord encodes one history line with CSV quoting, so stop names
// containing commas or quotes survive a read-back.
func FormatRecord(fields []string) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(fields)
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// ParseRecord decodes one history line into fields. Callers treat an error as
// "not an observation" and keep the line verbatim.
func ParseRecord(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	return r.Read()
}
