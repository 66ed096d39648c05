package parsers

import "strings"

// PlainLog is an unparsed line.
type PlainLog struct {
	Text string
}

func (p PlainLog) String() string { return p.Text }

// ParsePlain accepts any line that is not blank.
func ParsePlain(line string) (PlainLog, error) {
	if strings.TrimSpace(line) == "" {
		return PlainLog{}, ErrEmptyLine
	}
	return PlainLog{Text: line}, nil
}
