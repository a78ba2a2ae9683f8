// Package review implements the moderation queue controller: date range
// derivation for queue listings and the polling watcher that feeds the
// review notification stream.
package review

import (
	"fmt"
	"time"

	"centerstage/internal/repository"
)

// Range names accepted by the queue listing.
const (
	RangeAll    = "all"
	Range7Days  = "7d"
	Range30Days = "30d"
	RangeToday  = "today"
	RangeCustom = "custom"
)

const dateLayout = "2006-01-02"

// ParseRange turns a range name plus optional custom bounds into created_at
// filter bounds. now anchors the relative ranges; custom dates are parsed as
// date-only and the end is pushed to the last instant of its day so the bound
// is inclusive.
func ParseRange(name, startStr, endStr string, now time.Time) (start, end *time.Time, err error) {
	switch name {
	case "", RangeAll:
		return nil, nil, nil
	case RangeToday:
		s := startOfDay(now)
		return &s, nil, nil
	case Range7Days:
		s := now.AddDate(0, 0, -7)
		return &s, nil, nil
	case Range30Days:
		s := now.AddDate(0, 0, -30)
		return &s, nil, nil
	case RangeCustom:
		if startStr != "" {
			t, perr := time.ParseInLocation(dateLayout, startStr, now.Location())
			if perr != nil {
				return nil, nil, fmt.Errorf("invalid start date %q", startStr)
			}
			start = &t
		}
		if endStr != "" {
			t, perr := time.ParseInLocation(dateLayout, endStr, now.Location())
			if perr != nil {
				return nil, nil, fmt.Errorf("invalid end date %q", endStr)
			}
			e := endOfDay(t)
			end = &e
		}
		if start != nil && end != nil && end.Before(*start) {
			return nil, nil, fmt.Errorf("end date before start date")
		}
		return start, end, nil
	default:
		return nil, nil, fmt.Errorf("unknown range %q", name)
	}
}

// BuildFilter assembles the repository filter for a queue listing request.
func BuildFilter(query, rangeName, startStr, endStr string, now time.Time) (repository.SubmissionFilter, error) {
	start, end, err := ParseRange(rangeName, startStr, endStr, now)
	if err != nil {
		return repository.SubmissionFilter{}, err
	}
	return repository.SubmissionFilter{Query: query, Start: start, End: end}, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
