package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hinkolas/cobackup/internal/archive"
	"github.com/hinkolas/cobackup/internal/config"
	"github.com/hinkolas/cobackup/internal/fsutil"
	"github.com/hinkolas/cobackup/internal/latest"
	"github.com/hinkolas/cobackup/internal/runlog"
	"go.uber.org/zap"
)

// LatestBackupDir is the archive folder holding the collected backup files.
const LatestBackupDir = "Latest Backup"

// DataDirName returns the archive folder holding the copied company data.
func DataDirName(code string) string {
	return "DATA_" + code
}

// Processor runs the three backup steps for a single company.
type Processor struct {
	cfg     *config.Config
	mapping *config.Mapping
	format  archive.Format
	log     *runlog.RunLog
	logger  *zap.Logger
	now     func() time.Time
}

func NewProcessor(cfg *config.Config, mapping *config.Mapping, log *runlog.RunLog, logger *zap.Logger, now func() time.Time) (*Processor, error) {
	format, err := archive.ParseFormat(cfg.Archive.Format)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Processor{
		cfg:     cfg,
		mapping: mapping,
		format:  format,
		log:     log,
		logger:  logger,
		now:     now,
	}, nil
}

// Process backs up the company with the given code. A failing step is
// recorded in the returned status and never stops the following steps.
func (p *Processor) Process(code string) CompanyStatus {
	status := CompanyStatus{
		Code:       code,
		LatestFile: NotAvailable,
	}

	rec, ok := p.mapping.Lookup(code)
	if !ok {
		p.log.Logf("%s: no mapping found, skipped", code)
		p.logger.Info("no mapping found", zap.String("company", code))
		return status
	}

	status.FriendlyName = rec.FriendlyName
	status.Mapped = true
	p.log.Logf("Processing %s", rec.Label())

	// Work area for this company, removed on every path
	scratch, err := os.MkdirTemp(p.cfg.WorkDir, code+"_")
	if err != nil {
		remark := fmt.Sprintf("work area unavailable: %v", err)
		p.log.Logf("  ERROR: %s", remark)
		status.DataCopy = failed(remark)
		status.Backup = failed(remark)
		status.Archive = failed(remark)
		status.Remarks = append(status.Remarks, remark)
		return status
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			p.logger.Warn("failed to remove work area", zap.String("path", scratch), zap.Error(err))
		}
	}()

	status.DataCopy = p.copyData(rec, scratch, &status)
	status.Backup = p.collectBackups(rec, scratch, &status)
	status.Archive = p.createArchive(rec, scratch, &status)

	return status
}

// copyData copies the live company folder into DATA_{code}
func (p *Processor) copyData(rec config.CompanyRecord, scratch string, status *CompanyStatus) Outcome {
	src := filepath.Join(p.cfg.Source, rec.Code)
	dst := filepath.Join(scratch, DataDirName(rec.Code))

	if err := fsutil.CopyDir(src, dst); err != nil {
		remark := fmt.Sprintf("data copy failed: %v", err)
		p.log.Logf("  ERROR: %s", remark)
		p.logger.Error("data copy failed", zap.String("company", rec.Code), zap.Error(err))
		status.Remarks = append(status.Remarks, remark)
		return failed(remark)
	}

	p.log.Logf("  Data copied from %s", src)
	return succeeded("")
}

// collectBackups gathers the newest copy of every backup file
func (p *Processor) collectBackups(rec config.CompanyRecord, scratch string, status *CompanyStatus) Outcome {
	root := filepath.Join(p.cfg.Backups, rec.FriendlyName)
	dst := filepath.Join(scratch, LatestBackupDir)

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return p.backupFailed(rec, status, fmt.Sprintf("backup read failed: %v", err), err)
	}

	set, err := latest.Select(root)
	if errors.Is(err, latest.ErrRootMissing) {
		p.log.Logf("  WARNING: backup folder missing: %s", root)
		p.logger.Warn("backup folder missing", zap.String("company", rec.Code), zap.String("path", root))
		status.Remarks = append(status.Remarks, "backup folder missing")
		return failed("backup folder missing")
	}
	if err != nil {
		return p.backupFailed(rec, status, fmt.Sprintf("backup read failed: %v", err), err)
	}

	n, err := set.CopyTo(dst)
	if err != nil {
		return p.backupFailed(rec, status, fmt.Sprintf("backup read failed: %v", err), err)
	}

	if ts, ok := set.Latest(); ok {
		status.LatestFile = ts.Format(runlog.TimeLayout)
	}
	for _, c := range set.Files() {
		p.logger.Debug("latest backup file", zap.String("company", rec.Code), zap.String("path", c.Path), zap.Time("modified", c.ModTime))
	}
	p.log.Logf("  Collected %d latest backup file(s), newest: %s", n, status.LatestFile)

	return succeeded(fmt.Sprintf("%d files", n))
}

func (p *Processor) backupFailed(rec config.CompanyRecord, status *CompanyStatus, remark string, err error) Outcome {
	p.log.Logf("  ERROR: %s", remark)
	p.logger.Error("backup collection failed", zap.String("company", rec.Code), zap.Error(err))
	status.Remarks = append(status.Remarks, remark)
	return failed(remark)
}

// createArchive replaces earlier archives of the company with a new one
func (p *Processor) createArchive(rec config.CompanyRecord, scratch string, status *CompanyStatus) Outcome {
	removed, err := archive.RemoveStale(p.cfg.Destination, rec.Code)
	for _, path := range removed {
		p.log.Logf("  Removed old archive %s", filepath.Base(path))
	}
	if err != nil {
		// A stale archive left behind does not prevent the new one
		p.log.Logf("  WARNING: could not remove old archives: %v", err)
		p.logger.Warn("stale archive cleanup failed", zap.String("company", rec.Code), zap.Error(err))
	}

	name := archive.Name(rec.Code, rec.FriendlyName, p.now(), p.format)
	path := filepath.Join(p.cfg.Destination, name)

	if err := archive.Create(path, p.format, scratch); err != nil {
		remark := fmt.Sprintf("zip creation failed: %v", err)
		p.log.Logf("  ERROR: %s", remark)
		p.logger.Error("archive creation failed", zap.String("company", rec.Code), zap.Error(err))
		status.Remarks = append(status.Remarks, remark)
		return failed(remark)
	}

	status.ArchivePath = path
	p.log.Logf("  Archive created: %s", name)
	return succeeded("")
}
