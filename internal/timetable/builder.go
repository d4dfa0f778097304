package timetable

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Builder joins the three timetable source tables into denormalized rows.
type Builder struct {
	logger *slog.Logger
}

func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{
		logger: logger.With("component", "timetable_builder"),
	}
}

// Build produces one Row per stop_times entry, in stop_times order. Reference
// lookups are first-seen-wins: when trips or stops repeat an ID, the earliest
// occurrence is the one used.
func (b *Builder) Build(stopTimes []StopTime, trips []Trip, stops []Stop) []Row {
	start := time.Now()

	tripsByID := make(map[string]Trip, len(trips))
	for _, t := range trips {
		if _, ok := tripsByID[t.TripID]; !ok {
			tripsByID[t.TripID] = t
		}
	}
	stopsByID := make(map[string]Stop, len(stops))
	for _, s := range stops {
		if _, ok := stopsByID[s.StopID]; !ok {
			stopsByID[s.StopID] = s
		}
	}

	rows := make([]Row, 0, len(stopTimes))
	missingTrips, missingStops := 0, 0
	for _, st := range stopTimes {
		row := Row{
			TripID:        st.TripID,
			ArrivalTime:   st.ArrivalTime,
			DepartureTime: st.DepartureTime,
			StopID:        st.StopID,
		}
		if trip, ok := tripsByID[st.TripID]; ok {
			row.RouteID = trip.RouteID
			row.ServiceID = trip.ServiceID
			row.Direction = trip.Direction
		} else {
			missingTrips++
		}
		if stop, ok := stopsByID[st.StopID]; ok {
			row.StopName = stop.Name
			row.StopLat = stop.Lat
			row.StopLon = stop.Lon
		} else {
			missingStops++
		}
		rows = append(rows, row)
	}

	b.logger.Info("timetable built",
		"rows", len(rows),
		"trips", len(tripsByID),
		"stops", len(stopsByID),
		"unmatched_trip_refs", missingTrips,
		"unmatched_stop_refs", missingStops,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return rows
}

// WriteArtifact rewrites the timetable file in full: a header row followed by
// one CSV record per Row.
func WriteArtifact(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create timetable artifact: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write timetable header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row.fields()); err != nil {
			return fmt.Errorf("write timetable row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush timetable artifact: %w", err)
	}
	return nil
}
