// Package prometheus renders goBioLogin counters and latency histograms in
// the Prometheus text exposition format.
//
// The exporter reads [goBioLogin.Engine.MetricsSnapshot] on every scrape and
// keeps no state of its own. Nothing is registered globally; callers mount
// [Exporter.Handler] wherever they serve metrics.
package prometheus
