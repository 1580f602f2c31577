/*
 * MIT License
 *
 * Copyright (c) 2026 Contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package nettrace wires the instrumentation points the tracing layer
// (layer.Trace) calls into Prometheus collectors. It registers nothing
// globally and ships no exporter: callers own a *Metrics value and
// decide whether/how to expose it via prometheus.Registerer.
package nettrace

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles every counter/histogram the tracing layer updates.
type Metrics struct {
	Requests  *prometheus.CounterVec
	Failures  *prometheus.CounterVec
	Retries   prometheus.Counter
	Streams   prometheus.Gauge
	BytesRead prometheus.Counter
	BytesSent prometheus.Counter
	Latency   *prometheus.HistogramVec
}

// NewMetrics constructs a Metrics set under namespace ns, registering
// nothing automatically. Callers pass the returned Metrics to
// layer.Trace and, separately, register it with whatever
// prometheus.Registerer they use (a process-wide default registry, a
// per-listener one, or none at all in tests).
func NewMetrics(ns string) *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "requests_total",
			Help:      "Total requests observed by the tracing layer.",
		}, []string{"outcome"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "failures_total",
			Help:      "Requests classified as failed by the tracing layer.",
		}, []string{"class"}),
		Retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "retries_total",
			Help:      "Retry attempts made by the retry layer.",
		}),
		Streams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "active_streams",
			Help:      "Currently open multiplexed streams (HTTP/2, gRPC).",
		}),
		BytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "bytes_read_total",
			Help:      "Bytes read from downstream connections.",
		}),
		BytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "bytes_sent_total",
			Help:      "Bytes written to downstream connections.",
		}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "request_duration_seconds",
			Help:      "End-to-end request latency as observed by the tracing layer.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
}

// Collectors returns every collector in m, for bulk registration:
// for _, c := range m.Collectors() { registerer.MustRegister(c) }
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Requests, m.Failures, m.Retries, m.Streams, m.BytesRead, m.BytesSent, m.Latency,
	}
}
