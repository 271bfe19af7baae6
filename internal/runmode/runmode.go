// Package runmode turns the CLI run selectors into pipeline plans and drives
// the continuous loop.
package runmode

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hoanghai1803/newsclip/internal/models"
	"github.com/hoanghai1803/newsclip/internal/pipeline"
	"github.com/hoanghai1803/newsclip/internal/search"
)

// Mode names recorded on runs.
const (
	ModeHours = "hours"
	ModeDay   = "day"
	ModeYear  = "year"
	ModeWeek  = "week"
	ModeLoop  = "loop"
)

// KST is the fixed +09:00 zone used when the tz database is unavailable.
var KST = time.FixedZone("KST", 9*60*60)

// HoursWindow returns [now-n hours, open].
func HoursWindow(now time.Time, hours int) pipeline.Window {
	return pipeline.Window{Start: now.Add(-time.Duration(hours) * time.Hour)}
}

// DayWindow returns the calendar day containing day in loc, from 00:00:00
// to 23:59:59.
func DayWindow(day time.Time, loc *time.Location) pipeline.Window {
	d := day.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return pipeline.Window{Start: start, End: start.AddDate(0, 0, 1).Add(-time.Second)}
}

// YearWindow returns Jan 1 00:00:00 to Dec 31 23:59:59 of year in loc.
func YearWindow(year int, loc *time.Location) pipeline.Window {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return pipeline.Window{Start: start, End: start.AddDate(1, 0, 0).Add(-time.Second)}
}

// ParseDay parses a YYYY-MM-DD date in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// Pipeline runs one plan.
type Pipeline interface {
	Run(ctx context.Context, plan pipeline.Plan) (*models.Run, error)
}

// LoopConfig controls continuous mode.
type LoopConfig struct {
	FirstWindowHours int
	WindowHours      int
	Interval         time.Duration
}

// DefaultLoop is a 24-hour first pass, then 2-hour windows every hour.
var DefaultLoop = LoopConfig{FirstWindowHours: 24, WindowHours: 2, Interval: time.Hour}

// Runner builds plans for each run mode.
type Runner struct {
	p     Pipeline
	loc   *time.Location
	loop  LoopConfig
	clock func() time.Time
	sleep pipeline.SleepFunc
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(r *Runner) { r.clock = clock }
}

// WithSleep overrides the wait between loop iterations.
func WithSleep(sleep pipeline.SleepFunc) Option {
	return func(r *Runner) { r.sleep = sleep }
}

// WithLoop overrides the loop schedule.
func WithLoop(cfg LoopConfig) Option {
	return func(r *Runner) { r.loop = cfg }
}

// NewRunner creates a Runner. A nil loc selects KST.
func NewRunner(p Pipeline, loc *time.Location, opts ...Option) *Runner {
	if loc == nil {
		loc = KST
	}
	r := &Runner{
		p:     p,
		loc:   loc,
		loop:  DefaultLoop,
		clock: time.Now,
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Hours processes articles published in the last n hours.
func (r *Runner) Hours(ctx context.Context, n int) (*models.Run, error) {
	if n < 1 {
		return nil, fmt.Errorf("invalid hour count %d: must be >= 1", n)
	}
	return r.p.Run(ctx, pipeline.Plan{Mode: ModeHours, Window: HoursWindow(r.clock(), n)})
}

// Week processes the last 168 hours.
func (r *Runner) Week(ctx context.Context) (*models.Run, error) {
	return r.p.Run(ctx, pipeline.Plan{Mode: ModeWeek, Window: HoursWindow(r.clock(), 7*24)})
}

// Day processes one calendar day.
func (r *Runner) Day(ctx context.Context, day time.Time) (*models.Run, error) {
	return r.p.Run(ctx, pipeline.Plan{Mode: ModeDay, Window: DayWindow(day, r.loc)})
}

// Year processes one calendar year, collecting with both recency and
// relevance orderings and handling the result oldest first.
func (r *Runner) Year(ctx context.Context, year int) (*models.Run, error) {
	return r.p.Run(ctx, pipeline.Plan{
		Mode:          ModeYear,
		Window:        YearWindow(year, r.loc),
		Sorts:         []search.Sort{search.SortDate, search.SortRelevance},
		Chronological: true,
	})
}

// Loop runs a first wide window, then overlapping short windows on a fixed
// interval until ctx is cancelled. Failed runs are logged and the loop
// continues.
func (r *Runner) Loop(ctx context.Context) error {
	hours := r.loop.FirstWindowHours
	for iteration := 1; ; iteration++ {
		slog.Info("starting loop iteration", "iteration", iteration, "window_hours", hours)
		run, err := r.p.Run(ctx, pipeline.Plan{Mode: ModeLoop, Window: HoursWindow(r.clock(), hours)})
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			slog.Error("loop iteration failed", "iteration", iteration, "error", err)
		default:
			slog.Info("loop iteration complete", "iteration", iteration, "persisted", run.Persisted)
		}

		hours = r.loop.WindowHours
		slog.Info("waiting for next iteration", "interval", r.loop.Interval)
		if err := r.sleep(ctx, r.loop.Interval); err != nil {
			return err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
