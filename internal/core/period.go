package core

import "time"

// Period is a closed set of reporting windows. Every reporting endpoint
// resolves its window through this type so that date math lives in exactly
// one place.
type Period int

const (
	PeriodToday Period = iota
	PeriodYesterday
	PeriodWeek
	PeriodLastWeek
	PeriodMonth
	PeriodLastMonth
	PeriodQuarter
	PeriodYear
	PeriodLastYear
	PeriodLast7Days
	PeriodLast30Days
	PeriodLast90Days
)

var periodNames = map[string]Period{
	"today":        PeriodToday,
	"yesterday":    PeriodYesterday,
	"week":         PeriodWeek,
	"last_week":    PeriodLastWeek,
	"month":        PeriodMonth,
	"last_month":   PeriodLastMonth,
	"quarter":      PeriodQuarter,
	"year":         PeriodYear,
	"last_year":    PeriodLastYear,
	"last_7_days":  PeriodLast7Days,
	"last_30_days": PeriodLast30Days,
	"last_90_days": PeriodLast90Days,
}

// ParsePeriod maps a keyword to its Period. Unknown keywords report false
// rather than erroring; callers fall back per ResolveRange.
func ParsePeriod(s string) (Period, bool) {
	p, ok := periodNames[s]
	return p, ok
}

func (p Period) String() string {
	for name, v := range periodNames {
		if v == p {
			return name
		}
	}
	return "month"
}

// DateRange is an inclusive-inclusive day interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t's calendar day lies inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// DateOf strips the time of day, keeping year/month/day at midnight UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Range resolves p against a reference day.
func (p Period) Range(ref time.Time) DateRange {
	today := DateOf(ref)
	switch p {
	case PeriodToday:
		return DateRange{Start: today, End: today}
	case PeriodYesterday:
		y := today.AddDate(0, 0, -1)
		return DateRange{Start: y, End: y}
	case PeriodWeek:
		start := today.AddDate(0, 0, -mondayOffset(today))
		return DateRange{Start: start, End: start.AddDate(0, 0, 6)}
	case PeriodLastWeek:
		start := today.AddDate(0, 0, -mondayOffset(today)-7)
		return DateRange{Start: start, End: start.AddDate(0, 0, 6)}
	case PeriodMonth:
		return MonthRange(today.Year(), today.Month())
	case PeriodLastMonth:
		prev := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		return MonthRange(prev.Year(), prev.Month())
	case PeriodQuarter:
		// quarter blocks start Jan/Apr/Jul/Oct
		qm := time.Month((int(today.Month())-1)/3*3 + 1)
		start := time.Date(today.Year(), qm, 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: start.AddDate(0, 3, -1)}
	case PeriodYear:
		return yearRange(today.Year())
	case PeriodLastYear:
		return yearRange(today.Year() - 1)
	case PeriodLast7Days:
		return DateRange{Start: today.AddDate(0, 0, -7), End: today}
	case PeriodLast30Days:
		return DateRange{Start: today.AddDate(0, 0, -30), End: today}
	case PeriodLast90Days:
		return DateRange{Start: today.AddDate(0, 0, -90), End: today}
	}
	return MonthRange(today.Year(), today.Month())
}

// mondayOffset returns days elapsed since the Monday of t's ISO week.
func mondayOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// MonthRange returns the first through last day of a calendar month.
func MonthRange(year int, month time.Month) DateRange {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return DateRange{Start: start, End: start.AddDate(0, 1, -1)}
}

func yearRange(year int) DateRange {
	return DateRange{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// ResolveRange turns request parameters into a window. A recognized
// keyword wins; otherwise a well-formed explicit start/end pair passes
// through verbatim; anything else falls back to the current month rather
// than erroring.
func ResolveRange(keyword, startStr, endStr string, ref time.Time) DateRange {
	if p, ok := ParsePeriod(keyword); ok {
		return p.Range(ref)
	}
	if startStr != "" && endStr != "" {
		start, errS := time.Parse("2006-01-02", startStr)
		end, errE := time.Parse("2006-01-02", endStr)
		if errS == nil && errE == nil {
			return DateRange{Start: DateOf(start), End: DateOf(end)}
		}
	}
	return PeriodMonth.Range(ref)
}
