package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleRows lays out two routes: a 61A outbound trip starting 06:35 with
// three stops, then a 71C inbound trip starting 06:40.
func sampleRows() []Row {
	return []Row{
		{TripID: "t1", RouteID: "61A", Direction: "0", ArrivalTime: "06:35:00", StopID: "1000"},
		{TripID: "t1", RouteID: "61A", Direction: "0", ArrivalTime: "06:42:00", StopID: "1177"},
		{TripID: "t1", RouteID: "61A", Direction: "0", ArrivalTime: "06:50:00", StopID: "1200"},
		{TripID: "t2", RouteID: "71C", Direction: "1", ArrivalTime: "06:40:00", StopID: "2000"},
		{TripID: "t2", RouteID: "71C", Direction: "1", ArrivalTime: "06:55:00", StopID: "2001"},
	}
}

func TestScheduledArrival(t *testing.T) {
	ix := NewIndex(sampleRows())

	arrival, ok := ix.ScheduledArrival("61A", "0", "06:35", "1177")
	require.True(t, ok)
	assert.Equal(t, "06:42", arrival)

	arrival, ok = ix.ScheduledArrival("71C", "1", "06:40", "2001")
	require.True(t, ok)
	assert.Equal(t, "06:55", arrival)
}

func TestScheduledArrivalNoBlock(t *testing.T) {
	ix := NewIndex(sampleRows())

	// wrong direction, wrong start time, or unknown route: no block
	_, ok := ix.ScheduledArrival("61A", "1", "06:35", "1177")
	assert.False(t, ok)
	_, ok = ix.ScheduledArrival("61A", "0", "07:35", "1177")
	assert.False(t, ok)
	_, ok = ix.ScheduledArrival("28X", "0", "06:35", "1177")
	assert.False(t, ok)
}

func TestScheduledArrivalStopNotInBlock(t *testing.T) {
	ix := NewIndex(sampleRows())

	// stop 2001 belongs to the 71C run, not the matched 61A block
	_, ok := ix.ScheduledArrival("61A", "0", "06:35", "2001")
	assert.False(t, ok)
}

func TestScheduledArrivalFoldsPostMidnightHours(t *testing.T) {
	ix := NewIndex([]Row{
		{TripID: "owl", RouteID: "61A", Direction: "0", ArrivalTime: "24:55:00", StopID: "1000"},
		{TripID: "owl", RouteID: "61A", Direction: "0", ArrivalTime: "25:10:00", StopID: "1177"},
	})

	arrival, ok := ix.ScheduledArrival("61A", "0", "24:55", "1177")
	require.True(t, ok)
	assert.Equal(t, "01:10", arrival)
}

func TestScheduledArrivalMalformedTimeDropped(t *testing.T) {
	ix := NewIndex([]Row{
		{TripID: "t1", RouteID: "61A", Direction: "0", ArrivalTime: "06:35:00", StopID: "1000"},
		{TripID: "t1", RouteID: "61A", Direction: "0", ArrivalTime: "garbage", StopID: "1177"},
	})

	_, ok := ix.ScheduledArrival("61A", "0", "06:35", "1177")
	assert.False(t, ok)
}

// Block boundaries are route_id transitions, so the second of two back-to-back
// trips of the same route is never a candidate block start. This documents the
// inherited block-scan behavior for such feeds rather than correcting it.
func TestConsecutiveSameRouteTripsShareOneBlock(t *testing.T) {
	ix := NewIndex([]Row{
		{TripID: "t1", RouteID: "61A", Direction: "0", ArrivalTime: "06:35:00", StopID: "1000"},
		{TripID: "t1", RouteID: "61A", Direction: "0", ArrivalTime: "06:42:00", StopID: "1177"},
		{TripID: "t2", RouteID: "61A", Direction: "0", ArrivalTime: "07:05:00", StopID: "1000"},
		{TripID: "t2", RouteID: "61A", Direction: "0", ArrivalTime: "07:12:00", StopID: "1177"},
	})

	// t2's start row is mid-run, so its trip start is not found
	_, ok := ix.ScheduledArrival("61A", "0", "07:05", "1000")
	assert.False(t, ok)

	// the whole same-route run is scanned from the first block, so t2's
	// stops resolve only via the 06:35 block, and the first 1177 row wins
	arrival, ok := ix.ScheduledArrival("61A", "0", "06:35", "1177")
	require.True(t, ok)
	assert.Equal(t, "06:42", arrival)
}
