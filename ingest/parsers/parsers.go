// Package parsers contains line parsers usable as file source parsers.  Every parser is a plain
// function without state, so it can be shared by concurrent ingestion runs.
package parsers

import (
	"errors"
)

type Format string

const (
	FormatBracket  Format = "bracket"
	FormatJSON     Format = "json"
	FormatKeyValue Format = "keyvalue"
	FormatPlain    Format = "plain"
)

var (
	ErrMalformed = errors.New("malformed line")
	ErrEmptyLine = errors.New("empty line")
	ErrNotObject = errors.New("not a json object")
)

func IsValidFormat(format string) bool {
	switch Format(format) {
	case FormatBracket, FormatJSON, FormatKeyValue, FormatPlain:
		return true
	default:
		return false
	}
}
