package parsers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/valyala/fastjson"
)

var jsonParsers fastjson.ParserPool

// JSONLog is a line holding a single JSON object.
type JSONLog struct {
	Fields map[string]any
	raw    string
}

func (j JSONLog) String() string {
	if j.raw != "" {
		return j.raw
	}
	keys := make([]string, 0, len(j.Fields))
	for k := range j.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%v", k, j.Fields[k])
	}
	return sb.String()
}

// ParseJSON parses line as a JSON object.  Numbers become float64, nested objects map[string]any and
// arrays []any, matching encoding/json.
func ParseJSON(line string) (JSONLog, error) {
	p := jsonParsers.Get()
	defer jsonParsers.Put(p)

	v, err := p.Parse(line)
	if err != nil {
		return JSONLog{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	obj, err := v.Object()
	if err != nil {
		return JSONLog{}, ErrNotObject
	}

	fields := make(map[string]any, obj.Len())
	obj.Visit(func(key []byte, v *fastjson.Value) {
		fields[string(key)] = jsonValue(v)
	})
	return JSONLog{Fields: fields, raw: line}, nil
}

// jsonValue copies v out of the parser, which is reused once ParseJSON returns.
func jsonValue(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeObject:
		obj, _ := v.Object()
		m := make(map[string]any, obj.Len())
		obj.Visit(func(key []byte, v *fastjson.Value) {
			m[string(key)] = jsonValue(v)
		})
		return m
	case fastjson.TypeArray:
		arr, _ := v.Array()
		out := make([]any, len(arr))
		for i, e := range arr {
			out[i] = jsonValue(e)
		}
		return out
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		return v.GetFloat64()
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	default:
		return nil
	}
}
