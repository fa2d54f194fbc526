package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ParsesTotal           prometheus.Counter
	InvalidRecordsTotal   prometheus.Counter
	ChecksumFailuresTotal prometheus.Counter
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the counters on the given registerer; tests pass a
// fresh registry to avoid duplicate registration panics.
func NewWith(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		ParsesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "docparser_parses_total",
			Help: "Total number of document texts parsed",
		}),
		InvalidRecordsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "docparser_invalid_records_total",
			Help: "Total number of parses that produced an invalid record",
		}),
		ChecksumFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "docparser_iin_checksum_failures_total",
			Help: "Total number of extracted national IDs that failed the checksum",
		}),
	}
}

func (m *Metrics) IncrementParses() {
	m.ParsesTotal.Inc()
}

func (m *Metrics) IncrementInvalidRecords() {
	m.InvalidRecordsTotal.Inc()
}

func (m *Metrics) IncrementChecksumFailures() {
	m.ChecksumFailuresTotal.Inc()
}
