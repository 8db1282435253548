// Package scheduler runs the daily source check at a configured local time.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

var timeHHMM = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)

type Scheduler struct {
	cron *cron.Cron
}

// New schedules job every day at checkTime (HH:MM) in the given timezone.
// Runs that would start while the previous one is still going are skipped.
func New(checkTime, timezone string, job func()) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", timezone, err)
	}

	hour, minute, err := parseTime(checkTime)
	if err != nil {
		return nil, err
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
	)
	if _, err := c.AddFunc(fmt.Sprintf("%d %d * * *", minute, hour), job); err != nil {
		return nil, fmt.Errorf("add cron job: %w", err)
	}

	slog.Info("daily check scheduled", "time", checkTime, "timezone", timezone)
	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and returns a context that is done once the running
// job, if any, has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func parseTime(value string) (int, int, error) {
	m := timeHHMM.FindStringSubmatch(value)
	if m == nil {
		return 0, 0, fmt.Errorf("invalid check time %q, want HH:MM", value)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return hour, minute, nil
}

// cronLogger routes the cron library's messages through slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, kv ...any) {
	slog.Info(msg, kv...)
}

func (cronLogger) Error(err error, msg string, kv ...any) {
	slog.Error(msg, append(kv, "error", err)...)
}
