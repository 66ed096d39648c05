package parsers

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const timestampLen = 19

// BracketLog is a line of the form "[LEVEL] - 2006-01-02 15:04:05 message".
type BracketLog struct {
	Level     string
	Timestamp string
	Message   string
}

func (b BracketLog) String() string {
	return fmt.Sprintf("[%s] - %s %s", b.Level, b.Timestamp, b.Message)
}

// ParseBracketLog parses a bracketed level, a " - " separator, a 19 character timestamp and the
// message after at least one space.  The timestamp is taken as-is and not validated.
func ParseBracketLog(line string) (BracketLog, error) {
	if !strings.HasPrefix(line, "[") {
		return BracketLog{}, fmt.Errorf("%w: missing level", ErrMalformed)
	}
	end := strings.IndexByte(line, ']')
	if end <= 1 {
		return BracketLog{}, fmt.Errorf("%w: missing level", ErrMalformed)
	}
	level := line[1:end]

	rest, ok := strings.CutPrefix(line[end+1:], " - ")
	if !ok {
		return BracketLog{}, fmt.Errorf("%w: missing separator", ErrMalformed)
	}

	// The timestamp is counted in characters, not bytes.
	n, i := 0, 0
	for i < len(rest) && n < timestampLen {
		_, size := utf8.DecodeRuneInString(rest[i:])
		i += size
		n++
	}
	if n < timestampLen {
		return BracketLog{}, fmt.Errorf("%w: short timestamp", ErrMalformed)
	}
	ts, rest := rest[:i], rest[i:]

	msg := strings.TrimLeftFunc(rest, func(r rune) bool { return r == ' ' || r == '\t' })
	if len(msg) == len(rest) {
		return BracketLog{}, fmt.Errorf("%w: missing space after timestamp", ErrMalformed)
	}
	if i := strings.IndexAny(msg, "\r\n"); i >= 0 {
		msg = msg[:i]
	}

	return BracketLog{Level: level, Timestamp: ts, Message: msg}, nil
}
