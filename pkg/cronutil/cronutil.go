// Package cronutil computes next-run times for pipeline schedules.
// Expressions are parsed with the standard five-field cron grammar;
// anything unparsable falls back to one hour from the reference time
// instead of mis-scheduling silently.
package cronutil

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// NextRun returns the first activation of expr strictly after from.
func NextRun(expr string, from time.Time) time.Time {
	sched, err := parser.Parse(expr)
	if err != nil {
		slog.Info("unparsable schedule, falling back to hourly", "expr", expr)
		return from.Add(time.Hour)
	}
	return sched.Next(from)
}

// NextRunIn evaluates expr in loc so "0 9 * * *" means 09:00 in the
// pipeline owner's timezone, not the server's.
func NextRunIn(expr string, from time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return NextRun(expr, from)
	}
	return NextRun(expr, from.In(loc))
}

// Validate reports whether expr is an accepted schedule.
func Validate(expr string) error {
	_, err := parser.Parse(expr)
	return err
}
