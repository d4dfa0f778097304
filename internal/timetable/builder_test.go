package timetable

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestBuildEnrichesRows(t *testing.T) {
	stopTimes := []StopTime{
		{TripID: "t1", ArrivalTime: "06:35:00", DepartureTime: "06:35:00", StopID: "s1"},
		{TripID: "t1", ArrivalTime: "06:42:00", DepartureTime: "06:42:00", StopID: "s2"},
	}
	trips := []Trip{
		{TripID: "t1", RouteID: "61A", ServiceID: "wkdy", Direction: "0"},
	}
	stops := []Stop{
		{StopID: "s1", Name: "Fifth Ave at Market", Lat: "40.44", Lon: "-79.99"},
		{StopID: "s2", Name: "Forbes Ave at Craig", Lat: "40.45", Lon: "-79.95"},
	}

	rows := NewBuilder(testLogger()).Build(stopTimes, trips, stops)
	require.Len(t, rows, 2)

	assert.Equal(t, Row{
		TripID:        "t1",
		RouteID:       "61A",
		ServiceID:     "wkdy",
		Direction:     "0",
		ArrivalTime:   "06:35:00",
		DepartureTime: "06:35:00",
		StopID:        "s1",
		StopName:      "Fifth Ave at Market",
		StopLat:       "40.44",
		StopLon:       "-79.99",
	}, rows[0])
	assert.Equal(t, "Forbes Ave at Craig", rows[1].StopName)
}

func TestBuildMissingReferencesLeaveEmptyFields(t *testing.T) {
	stopTimes := []StopTime{
		{TripID: "ghost", ArrivalTime: "07:00:00", DepartureTime: "07:00:00", StopID: "nowhere"},
	}

	rows := NewBuilder(testLogger()).Build(stopTimes, nil, nil)
	require.Len(t, rows, 1)

	// degenerate feed, not an error: enrichment fields stay empty
	assert.Equal(t, "ghost", rows[0].TripID)
	assert.Empty(t, rows[0].RouteID)
	assert.Empty(t, rows[0].ServiceID)
	assert.Empty(t, rows[0].Direction)
	assert.Empty(t, rows[0].StopName)
	assert.Empty(t, rows[0].StopLat)
	assert.Empty(t, rows[0].StopLon)
}

func TestBuildFirstSeenWins(t *testing.T) {
	stopTimes := []StopTime{
		{TripID: "t1", ArrivalTime: "06:00:00", DepartureTime: "06:00:00", StopID: "s1"},
	}
	trips := []Trip{
		{TripID: "t1", RouteID: "61A", ServiceID: "a", Direction: "0"},
		{TripID: "t1", RouteID: "71C", ServiceID: "b", Direction: "1"},
	}
	stops := []Stop{
		{StopID: "s1", Name: "first name", Lat: "1", Lon: "2"},
		{StopID: "s1", Name: "second name", Lat: "3", Lon: "4"},
	}

	rows := NewBuilder(testLogger()).Build(stopTimes, trips, stops)
	require.Len(t, rows, 1)
	assert.Equal(t, "61A", rows[0].RouteID)
	assert.Equal(t, "first name", rows[0].StopName)
}

func TestBuildPreservesStopTimeOrder(t *testing.T) {
	stopTimes := []StopTime{
		{TripID: "t2", ArrivalTime: "08:00:00", StopID: "s3"},
		{TripID: "t1", ArrivalTime: "06:00:00", StopID: "s1"},
		{TripID: "t1", ArrivalTime: "06:05:00", StopID: "s2"},
	}

	rows := NewBuilder(testLogger()).Build(stopTimes, nil, nil)
	require.Len(t, rows, 3)
	assert.Equal(t, "t2", rows[0].TripID)
	assert.Equal(t, "t1", rows[1].TripID)
	assert.Equal(t, "s2", rows[2].StopID)
}

func TestWriteArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.txt")
	rows := []Row{
		{TripID: "t1", RouteID: "61A", Direction: "0", ArrivalTime: "06:35:00", StopID: "s1", StopName: "Fifth Ave at Market"},
	}

	require.NoError(t, WriteArtifact(path, rows))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, "61A", records[1][1])
	assert.Equal(t, "Fifth Ave at Market", records[1][7])
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("stop_times.txt", "trip_id,arrival_time,departure_time,stop_id,stop_sequence\nt1,06:35:00,06:35:00,s1,1\nt1,06:42:00,06:42:00,s2,2\n")
	write("trips.txt", "route_id,service_id,trip_id,trip_headsign,direction_id\n61A,wkdy,t1,Downtown,0\n")
	write("stops.txt", "stop_id,stop_code,stop_name,stop_desc,stop_lat,stop_lon\ns1,S1,Fifth Ave at Market,,40.44,-79.99\n")

	source := NewFileSource(dir, testLogger())

	stopTimes, err := source.StopTimes()
	require.NoError(t, err)
	require.Len(t, stopTimes, 2)
	assert.Equal(t, StopTime{TripID: "t1", ArrivalTime: "06:35:00", DepartureTime: "06:35:00", StopID: "s1"}, stopTimes[0])

	trips, err := source.Trips()
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, Trip{TripID: "t1", RouteID: "61A", ServiceID: "wkdy", Direction: "0"}, trips[0])

	stops, err := source.Stops()
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, Stop{StopID: "s1", Name: "Fifth Ave at Market", Lat: "40.44", Lon: "-79.99"}, stops[0])
}

func TestFileSourceMissingFile(t *testing.T) {
	source := NewFileSource(t.TempDir(), testLogger())
	_, err := source.StopTimes()
	assert.Error(t, err)
}
