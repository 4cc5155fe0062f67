// Package timeago renders "N units ago" strings for notifications and job
// postings. The two surfaces use different wording and thresholds, so each
// has its own Style.
package timeago

import (
	"fmt"
	"time"
)

const (
	Day          = 24 * time.Hour
	AverageMonth = time.Duration(30.44 * float64(Day))
	AverageYear  = time.Duration(365.25 * float64(Day))
)

type rule struct {
	below  time.Duration
	render func(elapsed time.Duration) string
}

type Style struct {
	rules []rule
	last  func(elapsed time.Duration) string
}

// NotificationStyle is used by the notification center and request threads.
var NotificationStyle = Style{
	rules: []rule{
		{below: 2 * time.Minute, render: fixed("Just now")},
		{below: time.Hour, render: count(time.Minute, "minutes")},
		{below: 2 * time.Hour, render: fixed("1 hour ago")},
		{below: 2 * Day, render: count(time.Hour, "hours")},
		{below: 2 * AverageMonth, render: count(Day, "days")},
		{below: AverageYear, render: count(AverageMonth, "months")},
		{below: 2 * AverageYear, render: fixed("1 year ago")},
	},
	last: count(AverageYear, "years"),
}

// PostingStyle is used on job cards and posting detail pages.
var PostingStyle = Style{
	rules: []rule{
		{below: 2 * time.Minute, render: fixed("Posted recently")},
		{below: time.Hour, render: count(time.Minute, "minutes")},
		{below: 2 * time.Hour, render: fixed("1 hour ago")},
		{below: Day, render: count(time.Hour, "hours")},
		{below: 2 * Day, render: fixed("1 day ago")},
		{below: 2 * AverageMonth, render: count(Day, "days")},
		{below: AverageYear, render: count(AverageMonth, "months")},
		{below: 2 * AverageYear, render: fixed("1 year ago")},
	},
	last: count(AverageYear, "years"),
}

// Since formats the time elapsed between created and now. Timestamps in the
// future count as zero elapsed.
func (s Style) Since(now, created time.Time) string {
	elapsed := now.Sub(created)
	if elapsed < 0 {
		elapsed = 0
	}
	return s.Elapsed(elapsed)
}

func (s Style) Elapsed(elapsed time.Duration) string {
	for _, r := range s.rules {
		if elapsed < r.below {
			return r.render(elapsed)
		}
	}
	if s.last == nil {
		return ""
	}
	return s.last(elapsed)
}

func fixed(text string) func(time.Duration) string {
	return func(time.Duration) string { return text }
}

func count(unit time.Duration, plural string) func(time.Duration) string {
	return func(elapsed time.Duration) string {
		return fmt.Sprintf("%d %s ago", int64(elapsed/unit), plural)
	}
}
