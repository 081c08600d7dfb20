package utils

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/ethan-root/Dataworks/core/cron"
)

// CronIntervalValidator return a nil value when a valid DataWorks cron string is passed,
// used as an ozzo-validation rule through validation.By
func CronIntervalValidator(val interface{}) error {
	value, ok := val.(string)
	if !ok {
		return fmt.Errorf("invalid crontab entry, not a valid string")
	}
	if _, err := cron.ParseCronSchedule(value); err != nil {
		return errors.Wrap(err, "invalid crontab entry")
	}
	return nil
}
