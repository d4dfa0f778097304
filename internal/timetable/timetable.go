package timetable

// Row is one denormalized timetable entry: a stop_times row enriched with its
// trip's route/service/direction and its stop's name and coordinates. All
// fields are kept as text; enrichment fields are empty when the reference
// tables have no match (partial or malformed GTFS feeds, not an error).
type Row struct {
	TripID        string
	RouteID       string
	ServiceID     string
	Direction     string // GTFS direction_id: 0 = outbound, 1 = inbound
	ArrivalTime   string
	DepartureTime string
	StopID        string
	StopName      string
	StopLat       string
	StopLon       string
}

// Header names the timetable artifact columns in Row field order.
var Header = []string{
	"trip_id",
	"route_id",
	"service_id",
	"route_direction",
	"arrival_time",
	"departure_time",
	"stop_id",
	"stop_name",
	"stop_latitude",
	"stop_longitude",
}

func (r Row) fields() []string {
	return []string{
		r.TripID,
		r.RouteID,
		r.ServiceID,
		r.Direction,
		r.ArrivalTime,
		r.DepartureTime,
		r.StopID,
		r.StopName,
		r.StopLat,
		r.StopLon,
	}
}

// StopTime is a raw stop_times row from the timetable source.
type StopTime struct {
	TripID        string
	ArrivalTime   string
	DepartureTime string
	StopID        string
}

// Trip is a raw trips row from the timetable source.
type Trip struct {
	TripID    string
	RouteID   string
	ServiceID string
	Direction string
}

// Stop is a raw stops row from the timetable source.
type Stop struct {
	StopID string
	Name   string
	Lat    string
	Lon    string
}
