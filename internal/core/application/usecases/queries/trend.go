package queries

import (
	"time"
)

// Trend bucketing is pure calendar arithmetic, kept separate from the
// database reads so the zero-fill guarantees are testable on their own.

const (
	dayLabelFormat   = "01-02"
	monthLabelFormat = "2006-01"
)

// TrendLabel formats the bucket label a timestamp falls into for the
// given period: "MM-DD" for daily buckets, "YYYY-MM" for monthly ones.
func TrendLabel(period Period, t time.Time) string {
	if period == PeriodYear {
		return t.Format(monthLabelFormat)
	}
	return t.Format(dayLabelFormat)
}

// TrendBuckets returns the zero-filled buckets for a period ending at
// now, oldest first: 7 daily buckets for a week, 30 for a month, and 12
// monthly buckets for a year. Periods with no activity keep every bucket
// at zero; buckets are never dropped.
func TrendBuckets(period Period, now time.Time) []TrendPoint {
	switch period {
	case PeriodYear:
		buckets := make([]TrendPoint, 0, 12)
		anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		for i := 11; i >= 0; i-- {
			buckets = append(buckets, TrendPoint{
				Bucket: anchor.AddDate(0, -i, 0).Format(monthLabelFormat),
			})
		}
		return buckets
	case PeriodMonth:
		return dailyBuckets(now.AddDate(0, 0, -29), now)
	default:
		return dailyBuckets(now.AddDate(0, 0, -6), now)
	}
}

// TrendStart returns the inclusive lower time bound of the trend window:
// midnight of the oldest daily bucket, or the first day of the oldest
// monthly bucket.
func TrendStart(period Period, now time.Time) time.Time {
	switch period {
	case PeriodYear:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)
	case PeriodMonth:
		return midnight(now.AddDate(0, 0, -29))
	default:
		return midnight(now.AddDate(0, 0, -6))
	}
}

// DailyBuckets returns one zero-filled "MM-DD" bucket per calendar day
// from start through end, oldest first.
func DailyBuckets(start, end time.Time) []TrendPoint {
	return dailyBuckets(start, end)
}

func dailyBuckets(start, end time.Time) []TrendPoint {
	buckets := make([]TrendPoint, 0, 31)
	for day := midnight(start); !day.After(end); day = day.AddDate(0, 0, 1) {
		buckets = append(buckets, TrendPoint{Bucket: day.Format(dayLabelFormat)})
	}
	return buckets
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
