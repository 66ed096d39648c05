// Package filter keeps or drops records based on regular expressions matched against their text.
package filter

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Azure/logfill/ingest/types"
)

type Config struct {
	// Include keeps only records matching the expression when set.
	Include string
	// Exclude drops records matching the expression.  It is applied after Include.
	Exclude string
}

type Transform struct {
	include *regexp.Regexp
	exclude *regexp.Regexp
}

func NewTransform(config Config) (*Transform, error) {
	if config.Include == "" && config.Exclude == "" {
		return nil, fmt.Errorf("include or exclude is required")
	}

	t := &Transform{}
	var err error
	if config.Include != "" {
		if t.include, err = regexp.Compile(config.Include); err != nil {
			return nil, fmt.Errorf("include: %w", err)
		}
	}
	if config.Exclude != "" {
		if t.exclude, err = regexp.Compile(config.Exclude); err != nil {
			return nil, fmt.Errorf("exclude: %w", err)
		}
	}
	return t, nil
}

func FromConfigMap(config map[string]any) (types.Transformer, error) {
	var c Config
	for key, dst := range map[string]*string{"include": &c.Include, "exclude": &c.Exclude} {
		v, ok := config[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be a string", key)
		}
		*dst = s
	}
	return NewTransform(c)
}

func (t *Transform) Open(ctx context.Context) error {
	return nil
}

func (t *Transform) Transform(ctx context.Context, batch *types.Batch) (*types.Batch, error) {
	kept := batch.Records[:0]
	for _, r := range batch.Records {
		text := r.String()
		if t.include != nil && !t.include.MatchString(text) {
			continue
		}
		if t.exclude != nil && t.exclude.MatchString(text) {
			continue
		}
		kept = append(kept, r)
	}
	clear(batch.Records[len(kept):])
	batch.Records = kept
	return batch, nil
}

func (t *Transform) Close() error {
	return nil
}

func (t *Transform) Name() string {
	return "FilterTransform"
}
