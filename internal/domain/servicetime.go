package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ServiceStart converts a trip's service date plus an offset in seconds past
// midnight (which may exceed 86400) into the date and minute-precision clock
// time logged with every observation.
//
// A result in [00:00, 01:00) rolled into the next calendar day; GTFS
// attributes such service to the prior service day, so it is re-expressed as
// hour 24 on the original date: ("2023-12-11", 60) yields "2023-12-11",
// "24:01".
func ServiceStart(date string, seconds int) (string, string, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", "", fmt.Errorf("parse service date: %w", err)
	}
	at := day.Add(time.Duration(seconds) * time.Second)
	if at.Hour() == 0 {
		return date, fmt.Sprintf("24:%02d", at.Minute()), nil
	}
	return at.Format(dateLayout), at.Format(timeLayout), nil
}

// ClockMinute truncates a GTFS HH:MM:SS time to minute precision, folding
// hours >= 24 back onto the wall clock: "25:10:00" becomes "01:10".
func ClockMinute(gtfsTime string) (string, error) {
	parts := strings.Split(gtfsTime, ":")
	if len(parts) < 2 {
		return "", fmt.Errorf("malformed clock time %q", gtfsTime)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("malformed hour in %q: %w", gtfsTime, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("malformed minute in %q: %w", gtfsTime, err)
	}
	if hour >= 24 {
		hour -= 24
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}
