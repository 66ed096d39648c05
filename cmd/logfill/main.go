package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v2"

	"github.com/Azure/logfill/ingest/engine"
	"github.com/Azure/logfill/ingest/parsers"
	"github.com/Azure/logfill/ingest/pipeline"
	"github.com/Azure/logfill/ingest/sinks"
	"github.com/Azure/logfill/ingest/sources/file"
	"github.com/Azure/logfill/ingest/transforms"
	"github.com/Azure/logfill/ingest/types"
	"github.com/Azure/logfill/pkg/http"
	"github.com/Azure/logfill/pkg/logger"
	"github.com/Azure/logfill/pkg/service"
	"github.com/Azure/logfill/pkg/version"
)

func main() {
	app := &cli.App{
		Name:      "logfill",
		Usage:     "batch log file ingestion",
		UsageText: ``,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "Config file path"},
			&cli.StringFlag{Name: "listen-addr", Usage: "Override the metrics listen address", EnvVars: []string{"LOGFILL_LISTEN_ADDR"}},
		},

		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Generate a config file",
				Action: func(c *cli.Context) error {
					buf := bytes.Buffer{}
					enc := toml.NewEncoder(&buf)
					enc.SetIndentTables(true)
					if err := enc.Encode(DefaultConfig); err != nil {
						return err
					}

					fmt.Println(buf.String())

					return nil
				},
			},
		},

		Action: func(ctx *cli.Context) error {
			return realMain(ctx)
		},

		Version: version.String(),
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err.Error())
	}
}

func realMain(ctx *cli.Context) error {
	logger.Infof("%s version:%s", os.Args[0], version.String())

	configFile := ctx.String("config")
	if configFile == "" {
		return errors.New("config file is required.  Run `logfill config` to generate a config file")
	}

	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	if ctx.IsSet("listen-addr") {
		cfg.ListenAddr = ctx.String("listen-addr")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	p, counter, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	eng := engine.New(engine.Config{Workers: cfg.Workers, QueueSize: cfg.QueueSize})
	components := []service.Component{eng}
	if cfg.ListenAddr != "" {
		components = append(components, http.NewServer(&http.ServerOpts{ListenAddr: cfg.ListenAddr}))
	}
	if err := service.OpenAll(context.Background(), components...); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sc)
	go func() {
		select {
		case sig := <-sc:
			logger.Infof("Received signal %s, stopping ingestion...", sig.String())
			cancel()
		case <-runCtx.Done():
		}
	}()

	summaries, runErr := p.Run(runCtx, eng)
	if err := service.CloseAll(components...); err != nil {
		logger.Errorf("Failed to shut down: %s", err)
	}

	var dispatched uint64
	for _, s := range summaries {
		dispatched += s.RecordsDispatched
	}
	if counter != nil {
		records, batches := counter.Counts()
		logger.Info("Sink totals", "records", records, "batches", batches)
	}
	logger.Info("Ingestion complete", "sources", len(summaries), "records", dispatched)

	return runErr
}

func loadConfig(path string) (*Config, error) {
	configBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal(configBytes, &cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%s: row %d column %d: %w", path, row, col, err)
		}
		return nil, err
	}
	return &cfg, nil
}

// newPipeline builds the pipeline described by cfg.  The counting sink is returned when configured so
// its totals can be reported.
func newPipeline(cfg *Config) (*pipeline.Pipeline, *sinks.CountingSink, error) {
	p := pipeline.New(pipeline.Opts{BatchTimeout: time.Duration(cfg.BatchTimeoutSeconds) * time.Second})

	for _, src := range cfg.Sources {
		u, err := newUnit(src)
		if err != nil {
			return nil, nil, err
		}
		if err := p.AddSource(u); err != nil {
			return nil, nil, err
		}
	}

	for _, t := range cfg.Transforms {
		tr, err := transforms.NewTransform(t.Name, t.Config)
		if err != nil {
			return nil, nil, fmt.Errorf("transform %s: %w", t.Name, err)
		}
		if err := p.AddTransform(tr); err != nil {
			return nil, nil, err
		}
	}

	var counter *sinks.CountingSink
	for _, name := range cfg.Sinks {
		var sink types.Sink
		switch name {
		case SinkStdout:
			sink = sinks.NewStdoutSink()
		case SinkCount:
			counter = sinks.NewCountingSink(0)
			sink = counter
		default:
			return nil, nil, fmt.Errorf("unknown sink %s", name)
		}
		if err := p.AddSink(sink); err != nil {
			return nil, nil, err
		}
	}
	return p, counter, nil
}

func newUnit(src *Source) (*pipeline.Unit, error) {
	switch parsers.Format(src.Format) {
	case parsers.FormatBracket:
		return newFileUnit(src, parsers.ParseBracketLog)
	case parsers.FormatJSON:
		return newFileUnit(src, parsers.ParseJSON)
	case parsers.FormatKeyValue:
		return newFileUnit(src, parsers.ParseKeyValue)
	case parsers.FormatPlain:
		return newFileUnit(src, parsers.ParsePlain)
	default:
		return nil, fmt.Errorf("source %s: unknown format %s", src.Name, src.Format)
	}
}

func newFileUnit[T types.Record](src *Source, parse file.ParseFunc[T]) (*pipeline.Unit, error) {
	cfg, err := file.NewConfig(src.FilePath, src.BatchSize, parse, file.WithMaxLineSize(src.MaxLineSize))
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", src.Name, err)
	}
	return file.NewSource(src.Name, src.Label, cfg)
}
