// File: control/prometheus.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Prometheus bridge: a custom collector reading the engine counters at
// scrape time. Registration is left to the caller.

package control

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	descAccepts = prometheus.NewDesc(
		"hioload_accepts_total", "Connections accepted.", nil, nil)
	descAcceptErrors = prometheus.NewDesc(
		"hioload_accept_errors_total", "Failed accept calls.", nil, nil)
	descHandoffRejected = prometheus.NewDesc(
		"hioload_handoff_rejected_total", "Sessions rejected by stopped loops.", nil, nil)
	descSessionsOpened = prometheus.NewDesc(
		"hioload_sessions_opened_total", "Sessions registered with a loop.", nil, nil)
	descSessionsClosed = prometheus.NewDesc(
		"hioload_sessions_closed_total", "Sessions released.", nil, nil)
	descBytesIn = prometheus.NewDesc(
		"hioload_bytes_in_total", "Bytes read from peers.", nil, nil)
	descBytesOut = prometheus.NewDesc(
		"hioload_bytes_out_total", "Bytes written to peers.", nil, nil)
	descPartialWrites = prometheus.NewDesc(
		"hioload_partial_writes_total", "Writes that transferred fewer bytes than offered.", nil, nil)
	descActiveConns = prometheus.NewDesc(
		"hioload_active_connections", "Sessions currently owned by a loop.", []string{"loop"}, nil)
)

// Collector exposes Stats and per-loop connection counts to Prometheus.
type Collector struct {
	stats *Stats

	// loads returns the current session count of every worker loop,
	// indexed by loop. May be nil.
	loads func() []int64
}

// NewCollector builds a collector over stats; loads supplies per-loop
// session counts (nil to omit the gauge).
func NewCollector(stats *Stats, loads func() []int64) *Collector {
	return &Collector{stats: stats, loads: loads}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descAccepts
	ch <- descAcceptErrors
	ch <- descHandoffRejected
	ch <- descSessionsOpened
	ch <- descSessionsClosed
	ch <- descBytesIn
	ch <- descBytesOut
	ch <- descPartialWrites
	ch <- descActiveConns
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	counter := func(d *prometheus.Desc, v int64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	s := c.stats
	counter(descAccepts, s.Accepts())
	counter(descAcceptErrors, s.AcceptErrors())
	counter(descHandoffRejected, s.handoffRejected.Load())
	counter(descSessionsOpened, s.SessionsOpened())
	counter(descSessionsClosed, s.SessionsClosed())
	counter(descBytesIn, s.BytesIn())
	counter(descBytesOut, s.BytesOut())
	counter(descPartialWrites, s.PartialWrites())

	if c.loads != nil {
		for i, n := range c.loads() {
			ch <- prometheus.MustNewConstMetric(descActiveConns,
				prometheus.GaugeValue, float64(n), strconv.Itoa(i))
		}
	}
}
