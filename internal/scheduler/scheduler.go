package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"papersum/internal/ratelimiter"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	DefaultSweepSpec      = "0 * * * *"
	Timezone              = "UTC"
	TimezoneOffsetSeconds = 0
	sweepTimeout          = 5 * time.Minute
)

type Options struct {
	Spec    string
	TempDir string
	// Pattern is the glob of temp files owned by this process.
	Pattern string
	MaxAge  time.Duration
}

// Scheduler periodically removes upload temp files left behind by a crash
// and forgets idle rate limiter clients.
type Scheduler struct {
	ctx     context.Context
	cron    *cron.Cron
	opts    Options
	limiter *ratelimiter.Limiter
	log     *slog.Logger
}

func New(ctx context.Context, opts Options, limiter *ratelimiter.Limiter, log *slog.Logger) *Scheduler {
	if opts.Spec == "" {
		opts.Spec = DefaultSweepSpec
	}

	c := cron.New(cron.WithLocation(time.FixedZone(Timezone, TimezoneOffsetSeconds)))

	return &Scheduler{
		ctx:     ctx,
		cron:    c,
		opts:    opts,
		limiter: limiter,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.opts.Spec, s.sweep); err != nil {
		return fmt.Errorf("add sweep job: %w", err)
	}

	s.cron.Start()

	return nil
}

// Stop waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(s.ctx, sweepTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		s.log.InfoContext(ctx, "Scheduler context is done",
			"error", ctx.Err())
		return
	default:
	}

	removed, err := SweepTempFiles(s.opts.TempDir, s.opts.Pattern, s.opts.MaxAge, time.Now())
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to sweep temp files",
			"error", err,
			"dir", s.opts.TempDir,
			"removed", removed)
	} else if removed > 0 {
		s.log.InfoContext(ctx, "Swept temp files",
			"dir", s.opts.TempDir,
			"removed", removed)
	}

	if pruned := s.limiter.Prune(); pruned > 0 {
		s.log.DebugContext(ctx, "Pruned rate limiter clients",
			"pruned", pruned)
	}
}

// SweepTempFiles removes files in dir matching pattern whose modification
// time is older than maxAge relative to now.
func SweepTempFiles(dir string, pattern string, maxAge time.Duration, now time.Time) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return 0, fmt.Errorf("glob temp files: %w", err)
	}

	var (
		errs    []error
		removed int
	)

	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, fmt.Errorf("stat %s: %w", path, err))
			}
			continue
		}

		if info.IsDir() || now.Sub(info.ModTime()) < maxAge {
			continue
		}

		if err = os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
			continue
		}

		removed++
	}

	return removed, errors.Join(errs...)
}
