// Package metrics exports capture statistics as Prometheus metrics.
//
// "haierac analyze --metrics-file" writes them in the text exposition format
// so that node_exporter's textfile collector can pick up the state of every
// indoor unit seen in a capture.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/muurk/haierac/internal/capture"
	"github.com/muurk/haierac/internal/protocol"
)

const namespace = "haierac"

// Metrics holds the decode counters and per-unit gauges of one capture
type Metrics struct {
	Registry *prometheus.Registry

	FramesTotal *prometheus.CounterVec // labels: result

	CurrentTemperature *prometheus.GaugeVec // labels: mac, name
	TargetTemperature  *prometheus.GaugeVec // labels: mac, name
	Power              *prometheus.GaugeVec // labels: mac, name
	Health             *prometheus.GaugeVec // labels: mac, name
	Mode               *prometheus.GaugeVec // labels: mac, name, mode; 1 for the active mode
	LastSequence       *prometheus.GaugeVec // labels: mac, name
	SequenceGaps       *prometheus.GaugeVec // labels: mac, name
	OutOfOrder         *prometheus.GaugeVec // labels: mac, name
}

// New creates the metrics on a fresh registry
func New() *Metrics {
	unit := []string{"mac", "name"}
	gauge := func(name, help string, labels []string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	}

	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FramesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames read from the capture by decode result.",
		}, []string{"result"}),
		CurrentTemperature: gauge("current_temperature_celsius", "Room temperature last reported by the unit.", unit),
		TargetTemperature:  gauge("target_temperature_celsius", "Target temperature last reported by the unit.", unit),
		Power:              gauge("power_on", "1 if the unit was switched on.", unit),
		Health:             gauge("health_on", "1 if the unit's health mode was on.", unit),
		Mode:               gauge("mode", "1 for the operating mode the unit last reported.", append(unit, "mode")),
		LastSequence:       gauge("last_sequence_number", "Sequence number of the unit's last frame.", unit),
		SequenceGaps:       gauge("sequence_gaps", "Sequence numbers skipped between consecutive frames.", unit),
		OutOfOrder:         gauge("out_of_order_frames", "Frames whose sequence number did not increase.", unit),
	}

	m.Registry.MustRegister(
		m.FramesTotal,
		m.CurrentTemperature,
		m.TargetTemperature,
		m.Power,
		m.Health,
		m.Mode,
		m.LastSequence,
		m.SequenceGaps,
		m.OutOfOrder,
	)
	return m
}

// Observe records stats. names maps addresses to nicknames and may be nil;
// units without one get an empty name label.
func (m *Metrics) Observe(stats *capture.Statistics, names func(protocol.MACAddress) string) {
	m.FramesTotal.WithLabelValues("ok").Add(float64(stats.ValidFrames))
	for _, c := range stats.ErrorCounts() {
		m.FramesTotal.WithLabelValues(resultLabel(c.Name)).Add(float64(c.N))
	}

	for _, addr := range stats.DeviceAddresses() {
		d := stats.Devices[addr]
		mac := addr.String()
		var name string
		if names != nil {
			if n := names(addr); n != mac {
				name = n
			}
		}

		s := d.LastStatus
		m.CurrentTemperature.WithLabelValues(mac, name).Set(float64(s.CurrentTemperature))
		m.TargetTemperature.WithLabelValues(mac, name).Set(float64(s.TargetTemperature))
		m.Power.WithLabelValues(mac, name).Set(boolValue(s.Power))
		m.Health.WithLabelValues(mac, name).Set(boolValue(s.Health))
		for mode := protocol.ModeSmart; mode.Valid(); mode++ {
			m.Mode.WithLabelValues(mac, name, mode.String()).Set(boolValue(mode == s.Mode))
		}
		m.LastSequence.WithLabelValues(mac, name).Set(float64(d.LastSeq))
		m.SequenceGaps.WithLabelValues(mac, name).Set(float64(d.SequenceGaps))
		m.OutOfOrder.WithLabelValues(mac, name).Set(float64(d.OutOfOrder))
	}
}

// WriteTextfile writes the metrics to path in the text exposition format
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}

// resultLabel turns a failure name such as "Integrity Error" into "integrity"
func resultLabel(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, " Error"))
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
