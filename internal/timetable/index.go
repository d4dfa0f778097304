package timetable

import (
	"strings"

	"prtlog/internal/domain"
)

// blockKey identifies the trip-start blocks of one route and direction.
type blockKey struct {
	routeID   string
	direction string
}

// block is a candidate trip-start position: a row whose route differs from
// its predecessor's (or the very first row), together with the end of the
// contiguous run of rows sharing its route.
type block struct {
	start   int
	arrival string // arrival_time of the block's first stop
	end     int    // exclusive end of the same-route run
}

// Index maps (route, direction) to that pair's trip-start blocks, in row
// order, so the matcher can resolve a scheduled arrival without rescanning
// the whole timetable per observation.
//
// Block boundaries are route_id transitions, exactly as the original
// block-scan detected them. Feeds where consecutive trips of the same route
// start at the same minute resolve to the first such block; that tie-break is
// preserved, not corrected.
type Index struct {
	rows   []Row
	blocks map[blockKey][]block
}

// NewIndex builds the block index in one pass over the timetable rows.
func NewIndex(rows []Row) *Index {
	// runEnd[i] is the exclusive end of the contiguous run of rows that
	// share rows[i].RouteID.
	runEnd := make([]int, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		if i == len(rows)-1 || rows[i+1].RouteID != rows[i].RouteID {
			runEnd[i] = i + 1
		} else {
			runEnd[i] = runEnd[i+1]
		}
	}

	blocks := make(map[blockKey][]block)
	for i, r := range rows {
		if i > 0 && rows[i-1].RouteID == r.RouteID {
			continue
		}
		key := blockKey{routeID: r.RouteID, direction: r.Direction}
		blocks[key] = append(blocks[key], block{
			start:   i,
			arrival: r.ArrivalTime,
			end:     runEnd[i],
		})
	}

	return &Index{rows: rows, blocks: blocks}
}

// ScheduledArrival resolves the scheduled arrival of the bus at stopID, on
// the trip of routeID/direction whose first stop departs at startTime.
// direction uses the timetable's 0/1 encoding; startTime is minute precision
// and matches the block's arrival_time by prefix. The result is truncated to
// minutes with hours >= 24 folded back onto the wall clock.
//
// The second return is false when no block matches, when the block has no row
// for stopID, or when the matched arrival time is malformed; callers drop the
// observation in all three cases.
func (ix *Index) ScheduledArrival(routeID, direction, startTime, stopID string) (string, bool) {
	for _, b := range ix.blocks[blockKey{routeID: routeID, direction: direction}] {
		if !strings.HasPrefix(b.arrival, startTime) {
			continue
		}
		for j := b.start + 1; j < b.end; j++ {
			if ix.rows[j].StopID != stopID {
				continue
			}
			arrival, err := domain.ClockMinute(ix.rows[j].ArrivalTime)
			if err != nil {
				return "", false
			}
			return arrival, true
		}
		return "", false
	}
	return "", false
}
