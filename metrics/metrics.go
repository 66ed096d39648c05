package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Namespace = "logfill"

	// Ingestion loop metrics
	IngestLinesRead = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "ingest",
		Name:      "lines_read_total",
		Help:      "Counter of lines read from input files",
	}, []string{"source"})

	IngestRecordsProduced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "ingest",
		Name:      "records_produced_total",
		Help:      "Counter of records successfully parsed from input lines",
	}, []string{"source"})

	IngestParseFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "ingest",
		Name:      "parse_failures_total",
		Help:      "Counter of input lines skipped because the parser rejected them",
	}, []string{"source"})

	IngestBytesRead = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "ingest",
		Name:      "bytes_read_total",
		Help:      "Counter of decompressed bytes read from input files",
	}, []string{"source"})

	IngestSourceUnavailable = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "ingest",
		Name:      "source_unavailable_total",
		Help:      "Counter of ingestion runs that could not open their input file",
	}, []string{"source"})

	// Dispatch metrics
	BatchesDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "dispatch",
		Name:      "batches_total",
		Help:      "Counter of batches handed to the engine",
	}, []string{"source"})

	DispatchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "dispatch",
		Name:      "failures_total",
		Help:      "Counter of batches the engine refused",
	}, []string{"source"})

	// Processing plan metrics
	RecordsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "plan",
		Name:      "records_sent_total",
		Help:      "Counter of records delivered to a sink",
	}, []string{"source", "sink"})

	RecordsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "plan",
		Name:      "records_dropped_total",
		Help:      "Counter of records dropped by a failing transform or sink",
	}, []string{"source", "stage"})

	EngineQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: "engine",
		Name:      "queue_depth",
		Help:      "Number of orders waiting for a worker",
	})
)
