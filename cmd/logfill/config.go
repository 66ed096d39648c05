package main

import (
	"errors"
	"fmt"

	"github.com/Azure/logfill/ingest/parsers"
	"github.com/Azure/logfill/ingest/transforms"
)

const (
	SinkStdout = "stdout"
	SinkCount  = "count"
)

var DefaultConfig = Config{
	Workers:             4,
	QueueSize:           8,
	BatchTimeoutSeconds: 10,
	Sources: []*Source{
		{
			Name:      "app-log",
			Label:     "app",
			FilePath:  "/var/log/app.log",
			BatchSize: 50,
			Format:    string(parsers.FormatBracket),
		},
	},
	Transforms: []*Transform{},
	Sinks:      []string{SinkStdout},
}

type Config struct {
	ListenAddr          string `toml:"listen-addr" comment:"Address to serve /metrics on.  Metrics are not served when empty."`
	Workers             int    `toml:"workers" comment:"Number of workers processing batches."`
	QueueSize           int    `toml:"queue-size" comment:"Number of batches queued before sources wait.  Defaults to twice the workers."`
	BatchTimeoutSeconds int    `toml:"batch-timeout-seconds" comment:"Maximum time spent transforming and sending one batch."`

	Sources    []*Source    `toml:"source" comment:"Files to ingest."`
	Transforms []*Transform `toml:"transform" comment:"Transforms applied to every batch, in order."`
	Sinks      []string     `toml:"sinks" comment:"Where batches are sent.  One or more of stdout, count."`
}

type Source struct {
	Name        string `toml:"name" comment:"Unique name of the source."`
	Label       string `toml:"label" comment:"Free form label describing where the records come from."`
	FilePath    string `toml:"file-path" comment:"File to read.  Files ending in .gz, .zst or .sz are decompressed."`
	BatchSize   int    `toml:"batch-size" comment:"Number of records dispatched together."`
	Format      string `toml:"format" comment:"Line format.  One of bracket, json, keyvalue, plain."`
	MaxLineSize int    `toml:"max-line-size" comment:"Longest accepted line in bytes.  Defaults to 1MiB."`
}

type Transform struct {
	Name   string         `toml:"name" comment:"The name of the transform to apply."`
	Config map[string]any `toml:"config" comment:"The configuration for the transform."`
}

func (s *Source) Validate() error {
	if s.Name == "" {
		return errors.New("source.name must be set")
	}
	if s.FilePath == "" {
		return fmt.Errorf("source.file-path must be set for %s", s.Name)
	}
	if s.BatchSize <= 0 {
		return fmt.Errorf("source.batch-size must be greater than 0 for %s", s.Name)
	}
	if !parsers.IsValidFormat(s.Format) {
		return fmt.Errorf("source.format %s is not a valid format for %s", s.Format, s.Name)
	}
	if s.MaxLineSize < 0 {
		return fmt.Errorf("source.max-line-size must not be negative for %s", s.Name)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	if c.QueueSize < 0 {
		return errors.New("queue-size must not be negative")
	}
	if c.BatchTimeoutSeconds < 0 {
		return errors.New("batch-timeout-seconds must not be negative")
	}

	if len(c.Sources) == 0 {
		return errors.New("at least one source must be defined")
	}
	names := make(map[string]struct{})
	for _, v := range c.Sources {
		if err := v.Validate(); err != nil {
			return err
		}
		if _, ok := names[v.Name]; ok {
			return fmt.Errorf("source.name %s is already defined", v.Name)
		}
		names[v.Name] = struct{}{}
	}

	for _, v := range c.Transforms {
		if !transforms.IsValidTransformType(v.Name) {
			return fmt.Errorf("transform.name %s is not a valid transform", v.Name)
		}
	}

	if len(c.Sinks) == 0 {
		return errors.New("sinks must be set")
	}
	for _, v := range c.Sinks {
		switch v {
		case SinkStdout, SinkCount:
		default:
			return fmt.Errorf("sinks %s is not a valid sink", v)
		}
	}
	return nil
}
