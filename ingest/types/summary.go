package types

import (
	"log/slog"
	"time"

	"go.uber.org/multierr"
)

// Summary reports the outcome of one ingestion run.
type Summary struct {
	Name     string
	RunID    string
	FilePath string

	LinesRead         uint64
	RecordsProduced   uint64
	ParseFailures     uint64
	BatchesDispatched uint64
	RecordsDispatched uint64
	DispatchFailures  uint64
	BytesRead         int64
	Duration          time.Duration

	// Fatal is the error that ended the run early: the source could not be opened, reading failed,
	// or the run was cancelled.  Records accumulated before a read failure or cancellation are still
	// dispatched.
	Fatal error
	// Errors aggregates the non-fatal per-line and per-batch errors.  Parse errors are sampled.
	Errors error
}

// Err returns the fatal and non-fatal errors of the run combined.
func (s Summary) Err() error {
	return multierr.Append(s.Fatal, s.Errors)
}

func (s Summary) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("name", s.Name),
		slog.String("run_id", s.RunID),
		slog.String("path", s.FilePath),
		slog.Uint64("lines", s.LinesRead),
		slog.Uint64("records", s.RecordsProduced),
		slog.Uint64("parse_failures", s.ParseFailures),
		slog.Uint64("batches", s.BatchesDispatched),
		slog.Uint64("dispatch_failures", s.DispatchFailures),
		slog.Int64("bytes", s.BytesRead),
		slog.Duration("duration", s.Duration),
	}
	if s.Fatal != nil {
		attrs = append(attrs, slog.String("error", s.Fatal.Error()))
	}
	return slog.GroupValue(attrs...)
}
