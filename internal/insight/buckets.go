package insight

import (
	"math"
	"sort"
	"time"

	entrydomain "venue-pulse/backend/internal/entry/domain"
)

// bucketize counts in-type events per time bucket across the full range,
// zero-filling buckets with no events. Granularity follows the range preset:
// hour buckets for a day, day buckets for a week or month, month buckets for
// a year. Custom ranges pick by duration.
func bucketize(entries []*entrydomain.Entry, rng entrydomain.TimeRange) []int {
	if rng.Duration() <= 0 {
		return nil
	}

	switch granularity(rng) {
	case bucketMonth:
		return bucketizeByMonth(entries, rng)
	case bucketDay:
		return bucketizeByDuration(entries, rng, 24*time.Hour)
	default:
		return bucketizeByDuration(entries, rng, time.Hour)
	}
}

type bucketUnit int

const (
	bucketHour bucketUnit = iota
	bucketDay
	bucketMonth
)

func granularity(rng entrydomain.TimeRange) bucketUnit {
	switch rng.Kind {
	case entrydomain.RangeDay:
		return bucketHour
	case entrydomain.RangeWeek, entrydomain.RangeMonth:
		return bucketDay
	case entrydomain.RangeYear:
		return bucketMonth
	}
	switch d := rng.Duration(); {
	case d <= 24*time.Hour:
		return bucketHour
	case d <= 31*24*time.Hour:
		return bucketDay
	default:
		return bucketMonth
	}
}

func bucketizeByDuration(entries []*entrydomain.Entry, rng entrydomain.TimeRange, unit time.Duration) []int {
	n := int(math.Ceil(float64(rng.Duration()) / float64(unit)))
	buckets := make([]int, n)
	for _, e := range entries {
		if e.Kind != entrydomain.KindIn || !rng.Contains(e.Timestamp) {
			continue
		}
		idx := int(e.Timestamp.Sub(rng.Start) / unit)
		if idx >= 0 && idx < n {
			buckets[idx]++
		}
	}
	return buckets
}

func bucketizeByMonth(entries []*entrydomain.Entry, rng entrydomain.TimeRange) []int {
	startIdx := monthIndex(rng.Start)
	// End is exclusive; a range ending exactly at midnight on the first of a
	// month does not touch that month.
	endIdx := monthIndex(rng.End.Add(-time.Nanosecond))
	n := endIdx - startIdx + 1
	if n < 1 {
		n = 1
	}
	buckets := make([]int, n)
	for _, e := range entries {
		if e.Kind != entrydomain.KindIn || !rng.Contains(e.Timestamp) {
			continue
		}
		idx := monthIndex(e.Timestamp) - startIdx
		if idx >= 0 && idx < n {
			buckets[idx]++
		}
	}
	return buckets
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// peakBucket returns the index and count of the busiest bucket, ties broken
// by first occurrence. ok is false for an empty bucket list.
func peakBucket(buckets []int) (idx, count int, ok bool) {
	if len(buckets) == 0 {
		return 0, 0, false
	}
	for i, c := range buckets {
		if c > count {
			idx, count = i, c
		}
	}
	return idx, count, true
}

// topQuartileShare returns the fraction of total volume concentrated in the
// busiest quarter of buckets (ceil(0.25 x buckets), minimum one). Zero when
// the period has no volume.
func topQuartileShare(buckets []int) float64 {
	if len(buckets) == 0 {
		return 0
	}
	total := 0
	counts := make([]int, len(buckets))
	copy(counts, buckets)
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	take := int(math.Ceil(0.25 * float64(len(counts))))
	if take < 1 {
		take = 1
	}
	sum := 0
	for _, c := range counts[:take] {
		sum += c
	}
	return float64(sum) / float64(total)
}
