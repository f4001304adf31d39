package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/JonMunkholm/resultstodb/internal/database"
	"github.com/JonMunkholm/resultstodb/internal/logging"
	"github.com/google/uuid"
)

// DefaultContextCheckInterval is how often (in rows) cancellation is checked
// when no interval is configured.
const DefaultContextCheckInterval = 100

// Database runs fn in a transaction that commits only if fn returns nil.
// *database.Manager implements it.
type Database interface {
	WithTx(ctx context.Context, fn func(database.Querier) error) error
}

// Importer loads one log file at a time into the database.
type Importer struct {
	db            Database
	now           func() time.Time
	recorder      Recorder
	checkInterval int
	skippedReport bool
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithClock sets the source of the reference instant used to infer the
// year of log timestamps. It is read once per run.
func WithClock(now func() time.Time) ImporterOption {
	return func(im *Importer) { im.now = now }
}

// WithRecorder sets where run statistics are reported.
func WithRecorder(r Recorder) ImporterOption {
	return func(im *Importer) { im.recorder = r }
}

// WithContextCheckInterval sets how often (in rows) cancellation is checked.
func WithContextCheckInterval(n int) ImporterOption {
	return func(im *Importer) {
		if n > 0 {
			im.checkInterval = n
		}
	}
}

// WithSkippedReport enables the "<name> - skipped.csv" report.
func WithSkippedReport(enabled bool) ImporterOption {
	return func(im *Importer) { im.skippedReport = enabled }
}

// NewImporter creates an Importer.
func NewImporter(db Database, opts ...ImporterOption) *Importer {
	im := &Importer{
		db:            db,
		now:           time.Now,
		recorder:      nopRecorder{},
		checkInterval: DefaultContextCheckInterval,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Run imports the file at path using format f.
//
// Rows are read in file order. A row with a malformed field is logged,
// recorded in the result and skipped. A wrong column count, an unknown
// release, a read error or a database error aborts the run; all inserts of
// the file are then rolled back and the error is returned together with
// the partial tally.
//
// When dryRun is set every row goes through the same validation and release
// resolution, but nothing is inserted.
func (im *Importer) Run(ctx context.Context, path string, f Format, dryRun bool) (*ImportResult, error) {
	start := time.Now()
	res := &ImportResult{
		RunID:    uuid.NewString(),
		Format:   f.Info.Kind,
		FileName: filepath.Base(path),
		DryRun:   dryRun,
	}
	log := logging.WithFields("run_id", res.RunID, "format", f.Info.Kind, "file", res.FileName)
	log.Info("import started", "path", path, "dry_run", dryRun)

	err := im.run(ctx, log, path, f, res)
	res.Duration = time.Since(start)

	im.recorder.ObserveRows(f.Info.Kind, OutcomeSkipped, len(res.Skipped))
	im.recorder.ObserveLookups(f.Info.Kind, res.ReleaseLookups)
	im.recorder.ObserveRun(f.Info.Kind, res.Duration, err)

	if err != nil {
		res.Persisted = 0
		log.Error("import aborted",
			"error", err,
			"rows", res.TotalRows,
			"skipped", len(res.Skipped),
		)
		return res, err
	}

	outcome := OutcomePersisted
	if dryRun {
		outcome = OutcomeValidated
	}
	im.recorder.ObserveRows(f.Info.Kind, outcome, res.Accepted)

	if im.skippedReport && len(res.Skipped) > 0 {
		reportPath, err := WriteSkippedReport(path, f, res.Skipped)
		if err != nil {
			// Rows are already committed at this point.
			log.Warn("failed to write skipped report", "error", err)
		} else {
			res.SkippedReport = reportPath
		}
	}

	log.Info("import finished",
		"rows", res.TotalRows,
		"accepted", res.Accepted,
		"persisted", res.Persisted,
		"skipped", len(res.Skipped),
		"release_lookups", res.ReleaseLookups,
		"duration", res.Duration,
	)
	return res, nil
}

func (im *Importer) run(ctx context.Context, log *slog.Logger, path string, f Format, res *ImportResult) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("operation cancelled: %w", err)
	}

	file, err := openInput(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return im.db.WithTx(ctx, func(q database.Querier) error {
		st := &RunState{
			Now:      im.now().UTC(),
			Releases: NewReleaseResolver(q),
		}
		defer func() { res.ReleaseLookups = st.Releases.Lookups() }()

		rows := newRowReader(file)
		for i := 0; ; i++ {
			if i%im.checkInterval == 0 {
				if err := ctx.Err(); err != nil {
					return fmt.Errorf("operation cancelled after %d rows: %w", res.TotalRows, err)
				}
			}

			row, line, err := rows.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("reading %s: %w", res.FileName, err)
			}
			res.TotalRows++

			result, err := f.Parse(ctx, row, st)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}

			if result.Skipped() {
				log.Error("skipping row", "line", line, "reason", result.Skip.Error(), "row", row)
				res.Skipped = append(res.Skipped, SkippedRow{
					LineNumber: line,
					Reason:     result.Skip.Error(),
					Data:       row,
				})
				continue
			}
			res.Accepted++

			if res.DryRun {
				log.Debug("validated row", "line", line, "record", result.Record)
				continue
			}
			if err := result.Record.Persist(ctx, q); err != nil {
				return fmt.Errorf("line %d: insert failed: %w", line, err)
			}
			res.Persisted++
		}
	})
}
