package file

import (
	"github.com/Azure/logfill/ingest/types"
)

// DefaultMaxLineSize is the longest line accepted when Config.MaxLineSize is unset.
const DefaultMaxLineSize = 1024 * 1024

// ParseFunc turns one line of input, without its line terminator, into a record.  It must not keep
// state between calls: the same function is used for every line and may be shared by concurrent runs.
type ParseFunc[T types.Record] func(line string) (T, error)

// Config describes how to read one file.  It is a value and is never modified after construction.
type Config[T types.Record] struct {
	// FilePath is the file to read.  It is only opened when the ingestion run starts.  Files ending in
	// .gz, .zst or .sz are decompressed.
	FilePath string
	// BatchSize is the number of records dispatched together.
	BatchSize int
	// Parser converts each line into a record.
	Parser ParseFunc[T]
	// MaxLineSize is the longest line accepted, in bytes.  Zero means DefaultMaxLineSize.
	MaxLineSize int
}

type Option func(*options)

type options struct {
	maxLineSize int
}

// WithMaxLineSize sets the longest accepted line.  A longer line ends the run with a read error.
func WithMaxLineSize(n int) Option {
	return func(o *options) {
		o.maxLineSize = n
	}
}

// NewConfig builds a validated Config.  The path is not checked here; a missing file is reported when
// the run starts.
func NewConfig[T types.Record](filepath string, batchSize int, parser ParseFunc[T], opts ...Option) (Config[T], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Config[T]{
		FilePath:    filepath,
		BatchSize:   batchSize,
		Parser:      parser,
		MaxLineSize: o.maxLineSize,
	}
	if err := cfg.Validate(); err != nil {
		return Config[T]{}, err
	}
	return cfg, nil
}

func (c Config[T]) Validate() error {
	if c.BatchSize <= 0 {
		return &types.ConfigurationError{Field: "batch-size", Reason: "must be greater than 0"}
	}
	if c.Parser == nil {
		return &types.ConfigurationError{Field: "parser", Reason: "must be set"}
	}
	if c.MaxLineSize < 0 {
		return &types.ConfigurationError{Field: "max-line-size", Reason: "must not be negative"}
	}
	return nil
}

func (c Config[T]) maxLineSize() int {
	if c.MaxLineSize == 0 {
		return DefaultMaxLineSize
	}
	return c.MaxLineSize
}
