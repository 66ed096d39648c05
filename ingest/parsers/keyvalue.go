package parsers

import (
	"sort"
	"strings"
	"unicode"
)

// KeyValueLog is a line of space separated key=value pairs.  Keys without a value map to "".
type KeyValueLog struct {
	Fields map[string]string
}

func (k KeyValueLog) String() string {
	keys := make([]string, 0, len(k.Fields))
	for key := range k.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, key := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(key)
		if v := k.Fields[key]; v != "" {
			sb.WriteByte('=')
			if strings.ContainsFunc(v, unicode.IsSpace) {
				sb.WriteByte('"')
				sb.WriteString(v)
				sb.WriteByte('"')
			} else {
				sb.WriteString(v)
			}
		}
	}
	return sb.String()
}

// ParseKeyValue splits line on whitespace outside of quotes.  Quotes around values are removed.
func ParseKeyValue(line string) (KeyValueLog, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return KeyValueLog{}, ErrEmptyLine
	}

	tokens := tokenize(line)
	fields := make(map[string]string, len(tokens))
	for _, token := range tokens {
		key, value, ok := strings.Cut(token, "=")
		if key == "" {
			return KeyValueLog{}, ErrMalformed
		}
		if ok {
			value = unquote(value)
		}
		fields[key] = value
	}
	return KeyValueLog{Fields: fields}, nil
}

// tokenize splits a string into tokens, preserving quoted values
func tokenize(s string) []string {
	var (
		tokens   []string
		current  strings.Builder
		inQuotes bool
		quote    rune
	)

	for i, char := range s {
		switch {
		case (char == '"' || char == '\'') && (i == 0 || s[i-1] != '\\'):
			if inQuotes && char == quote {
				inQuotes = false
			} else if !inQuotes {
				inQuotes = true
				quote = char
			}
			current.WriteRune(char)
		case unicode.IsSpace(char) && !inQuotes:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// unquote removes surrounding quotes from a string, if present
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
