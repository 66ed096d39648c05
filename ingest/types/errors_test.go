package types

import (
	"errors"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestErrorTaxonomy(t *testing.T) {
	_, openErr := os.Open("/definitely/not/here.log")
	require.Error(t, openErr)

	cause := errors.New("engine stopped")
	tests := []struct {
		name     string
		err      error
		sentinel error
		cause    error
		msg      string
	}{
		{
			name:     "configuration",
			err:      &ConfigurationError{Field: "batch-size", Reason: "must be greater than 0"},
			sentinel: ErrConfiguration,
			msg:      "batch-size must be greater than 0",
		},
		{
			name:     "source unavailable",
			err:      &SourceUnavailableError{Path: "/definitely/not/here.log", Err: openErr},
			sentinel: ErrSourceUnavailable,
			cause:    fs.ErrNotExist,
		},
		{
			name:     "parse",
			err:      &RecordParseError{Line: 7, Err: cause},
			sentinel: ErrRecordParse,
			cause:    cause,
			msg:      "line 7: engine stopped",
		},
		{
			name:     "read",
			err:      &ReadError{Path: "a.log", AfterLine: 9, Err: cause},
			sentinel: ErrRead,
			cause:    cause,
			msg:      "read a.log after line 9: engine stopped",
		},
		{
			name:     "dispatch",
			err:      &DispatchError{Source: "src", Seq: 2, Records: 10, Err: cause},
			sentinel: ErrDispatch,
			cause:    cause,
			msg:      "dispatch batch 2 of src (10 records): engine stopped",
		},
		{
			name:     "mismatch",
			err:      &RecordTypeMismatchError{Expected: "A", Actual: "B"},
			sentinel: ErrRecordTypeMismatch,
			msg:      "record type mismatch: expected A, got B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.err, tt.sentinel)
			if tt.cause != nil {
				require.ErrorIs(t, tt.err, tt.cause)
			}
			if tt.msg != "" {
				require.Equal(t, tt.msg, tt.err.Error())
			}
		})
	}
}

func TestSummaryErr(t *testing.T) {
	require.NoError(t, Summary{}.Err())

	parseErr := &RecordParseError{Line: 1, Err: errors.New("bad")}
	s := Summary{
		Fatal:  &ReadError{Path: "a.log", AfterLine: 3, Err: errors.New("disk")},
		Errors: multierr.Append(nil, parseErr),
	}
	err := s.Err()
	require.ErrorIs(t, err, ErrRead)
	require.ErrorIs(t, err, ErrRecordParse)
	require.Len(t, multierr.Errors(err), 2)
}
