package timetable

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// FileSource reads the three timetable source tables from a directory of
// GTFS text files. Each file is read wholesale, once per run.
type FileSource struct {
	dir    string
	logger *slog.Logger
}

func NewFileSource(dir string, logger *slog.Logger) *FileSource {
	return &FileSource{
		dir:    dir,
		logger: logger.With("component", "timetable_source"),
	}
}

func (s *FileSource) StopTimes() ([]StopTime, error) {
	var out []StopTime
	err := s.readTable("stop_times.txt", func(record []string, idx map[string]int) {
		out = append(out, StopTime{
			TripID:        getField(record, idx, "trip_id"),
			ArrivalTime:   getField(record, idx, "arrival_time"),
			DepartureTime: getField(record, idx, "departure_time"),
			StopID:        getField(record, idx, "stop_id"),
		})
	})
	return out, err
}

func (s *FileSource) Trips() ([]Trip, error) {
	var out []Trip
	err := s.readTable("trips.txt", func(record []string, idx map[string]int) {
		out = append(out, Trip{
			TripID:    getField(record, idx, "trip_id"),
			RouteID:   getField(record, idx, "route_id"),
			ServiceID: getField(record, idx, "service_id"),
			Direction: getField(record, idx, "direction_id"),
		})
	})
	return out, err
}

func (s *FileSource) Stops() ([]Stop, error) {
	var out []Stop
	err := s.readTable("stops.txt", func(record []string, idx map[string]int) {
		out = append(out, Stop{
			StopID: getField(record, idx, "stop_id"),
			Name:   getField(record, idx, "stop_name"),
			Lat:    getField(record, idx, "stop_lat"),
			Lon:    getField(record, idx, "stop_lon"),
		})
	})
	return out, err
}

func (s *FileSource) readTable(name string, each func(record []string, idx map[string]int)) error {
	start := time.Now()
	path := filepath.Join(s.dir, name)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read %s header: %w", name, err)
	}
	idx := makeIndex(header)

	count := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		each(record, idx)
		count++
	}

	s.logger.Debug("read timetable source table",
		"file", name,
		"rows", count,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}

func getField(record []string, idx map[string]int, field string) string {
	if i, ok := idx[field]; ok && i < len(record) {
		return record[i]
	}
	return ""
}
