package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hinkolas/cobackup/internal/config"
	"github.com/hinkolas/cobackup/internal/fsutil"
	"github.com/hinkolas/cobackup/internal/runlog"
	"go.uber.org/zap"
)

// Summary is everything one run produced.
type Summary struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Statuses []CompanyStatus
	Totals   Totals
	LogText  string
}

// Recorder persists finished runs.
type Recorder interface {
	Record(ctx context.Context, s *Summary) error
}

// Runner processes every company folder below the source root.
type Runner struct {
	cfg      *config.Config
	mapping  *config.Mapping
	logger   *zap.Logger
	now      func() time.Time
	sinks    []runlog.Sink
	recorder Recorder
}

type Option func(*Runner)

// WithClock replaces time.Now, used for banners and archive names.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithSink mirrors the run log to s while it is written.
func WithSink(s runlog.Sink) Option {
	return func(r *Runner) { r.sinks = append(r.sinks, s) }
}

func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

func NewRunner(cfg *config.Config, mapping *config.Mapping, logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		cfg:     cfg,
		mapping: mapping,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one backup run. Step failures are reported in the summary;
// only an unusable destination or log directory is returned as an error.
// Cancellation is checked between companies.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	if err := os.MkdirAll(r.cfg.Destination, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}
	if err := os.MkdirAll(r.cfg.Logs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	log := runlog.New(r.now, r.sinks...)
	summary := &Summary{
		RunID:   uuid.NewString(),
		Started: log.Begin(),
	}
	logger := r.logger.With(zap.String("run", summary.RunID))

	log.Logf("Run ID: %s", summary.RunID)
	if free, err := fsutil.FreeSpace(r.cfg.Destination); err == nil {
		log.Logf("Free space on destination: %s", fsutil.FormatBytes(free))
	} else {
		logger.Debug("free space unavailable", zap.Error(err))
	}

	proc, err := NewProcessor(r.cfg, r.mapping, log, logger, r.now)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.cfg.Source)
	if err != nil {
		log.Logf("ERROR: cannot read source folder %s: %v", r.cfg.Source, err)
		logger.Error("cannot read source folder", zap.String("path", r.cfg.Source), zap.Error(err))
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			log.Logf("Run interrupted: %v", ctx.Err())
			logger.Warn("run interrupted", zap.Error(ctx.Err()))
			break
		}

		if !isCompanyDir(filepath.Join(r.cfg.Source, entry.Name()), entry) {
			log.Logf("Ignoring %s: not a company folder", entry.Name())
			continue
		}

		status := proc.Process(entry.Name())
		summary.Statuses = append(summary.Statuses, status)
		summary.Totals.Add(status)
	}

	log.Raw("")
	log.Raw(RenderTable(summary.Statuses))
	log.Raw("")
	log.Raw(RenderTotals(summary.Totals))
	summary.Finished = log.End()
	summary.LogText = log.Text()

	if err := runlog.Rotate(r.cfg.LogPath(), summary.LogText, r.cfg.KeepRuns); err != nil {
		logger.Error("failed to write run log", zap.String("path", r.cfg.LogPath()), zap.Error(err))
	}

	if r.recorder != nil {
		if err := r.recorder.Record(context.WithoutCancel(ctx), summary); err != nil {
			logger.Warn("failed to record run history", zap.Error(err))
		}
	}

	logger.Info("backup run finished",
		zap.Int("companies", summary.Totals.Total),
		zap.Int("archives", summary.Totals.Archive.Success),
		zap.Int("failures", summary.Totals.DataCopy.Failed+summary.Totals.Backup.Failed+summary.Totals.Archive.Failed),
	)

	return summary, nil
}

// isCompanyDir accepts directories and symlinks resolving to one
func isCompanyDir(path string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
