package cron

import (
	"time"

	roboCron "github.com/robfig/cron/v3"
)

// DataWorks schedules carry six fields, seconds first, and use '?' for an unset day field
var parser = roboCron.NewParser(
	roboCron.Second | roboCron.Minute | roboCron.Hour | roboCron.Dom | roboCron.Month | roboCron.Dow,
)

type ScheduleSpec struct {
	schd roboCron.Schedule
}

// Next accepts the time and returns the next run time that should
// be used for execution
func (s *ScheduleSpec) Next(t time.Time) time.Time {
	return s.schd.Next(t)
}

// ParseCronSchedule parses a DataWorks cron expression. It requires 6 entries
// representing: second, minute, hour, day of month, month and day of week, in that
// order. It returns a descriptive error if the spec is not valid.
//
// It accepts
//   - DataWorks specs, e.g. "00 00 00 * * ?"
//   - Lists and steps, e.g. "0 */30 8-18 * * 1-5"
func ParseCronSchedule(interval string) (*ScheduleSpec, error) {
	roboCronSchedule, err := parser.Parse(interval)
	if err != nil {
		return nil, err
	}

	return &ScheduleSpec{
		schd: roboCronSchedule,
	}, nil
}
