package types

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks a static misconfiguration detected while assembling a pipeline.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrSourceUnavailable marks an input file that could not be opened.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrRecordParse marks a line the parser rejected.
	ErrRecordParse = errors.New("record parse failed")
	// ErrRead marks an I/O failure after the input was opened.
	ErrRead = errors.New("read failed")
	// ErrDispatch marks a batch the engine refused.
	ErrDispatch = errors.New("dispatch failed")
	// ErrRecordTypeMismatch marks a consumer that recovered a record with the wrong type.
	ErrRecordTypeMismatch = errors.New("record type mismatch")
)

type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

type SourceUnavailableError struct {
	Path string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable: %v", e.Err)
}

func (e *SourceUnavailableError) Unwrap() []error {
	return []error{ErrSourceUnavailable, e.Err}
}

type RecordParseError struct {
	Line uint64
	Err  error
}

func (e *RecordParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RecordParseError) Unwrap() []error {
	return []error{ErrRecordParse, e.Err}
}

// ReadError reports a failure reading Path.  AfterLine is the last line read successfully.
type ReadError struct {
	Path      string
	AfterLine uint64
	Err       error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s after line %d: %v", e.Path, e.AfterLine, e.Err)
}

func (e *ReadError) Unwrap() []error {
	return []error{ErrRead, e.Err}
}

type DispatchError struct {
	Source  string
	Seq     uint64
	Records int
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch batch %d of %s (%d records): %v", e.Seq, e.Source, e.Records, e.Err)
}

func (e *DispatchError) Unwrap() []error {
	return []error{ErrDispatch, e.Err}
}

type RecordTypeMismatchError struct {
	Expected string
	Actual   string
}

func (e *RecordTypeMismatchError) Error() string {
	return fmt.Sprintf("record type mismatch: expected %s, got %s", e.Expected, e.Actual)
}

func (e *RecordTypeMismatchError) Unwrap() error {
	return ErrRecordTypeMismatch
}
