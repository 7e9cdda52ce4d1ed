package capture

import (
	"fmt"
	"sort"
	"strings"

	"github.com/muurk/haierac/internal/protocol"
)

// Statistics summarises a batch of decode results
type Statistics struct {
	TotalFrames uint64
	ValidFrames uint64

	// Failures by kind. ForeignErrors counts errors that are not decode errors.
	FormatErrors    uint64
	LengthErrors    uint64
	EnumErrors      uint64
	IntegrityErrors uint64
	ForeignErrors   uint64

	// Decoded state
	Modes   map[protocol.Mode]uint64
	Devices map[protocol.MACAddress]*DeviceStats
}

// DeviceStats tracks the sequence numbers seen from one indoor unit
type DeviceStats struct {
	Frames       uint64
	FirstSeq     uint32
	LastSeq      uint32
	SequenceGaps uint64 // Sequence numbers skipped between consecutive frames
	OutOfOrder   uint64 // Frames whose sequence number did not increase
	LastStatus   protocol.Status
}

// NewStatistics creates an empty statistics tracker
func NewStatistics() *Statistics {
	return &Statistics{
		Modes:   make(map[protocol.Mode]uint64),
		Devices: make(map[protocol.MACAddress]*DeviceStats),
	}
}

// Summarize builds statistics for results in order
func Summarize(results []Result) *Statistics {
	s := NewStatistics()
	for _, r := range results {
		s.Update(r)
	}
	return s
}

// Update folds one result into the statistics
func (s *Statistics) Update(r Result) {
	s.TotalFrames++

	if r.Err != nil {
		kind, ok := protocol.KindOf(r.Err)
		if !ok {
			s.ForeignErrors++
			return
		}
		switch kind {
		case protocol.ErrKindFormat:
			s.FormatErrors++
		case protocol.ErrKindLength:
			s.LengthErrors++
		case protocol.ErrKindEnum:
			s.EnumErrors++
		case protocol.ErrKindIntegrity:
			s.IntegrityErrors++
		}
		return
	}

	s.ValidFrames++
	resp := r.Response
	s.Modes[resp.Status.Mode]++

	dev, seen := s.Devices[resp.Address]
	if !seen {
		s.Devices[resp.Address] = &DeviceStats{
			Frames:     1,
			FirstSeq:   resp.SequenceNumber,
			LastSeq:    resp.SequenceNumber,
			LastStatus: resp.Status,
		}
		return
	}

	dev.Frames++
	switch {
	case resp.SequenceNumber > dev.LastSeq:
		dev.SequenceGaps += uint64(resp.SequenceNumber - dev.LastSeq - 1)
	default:
		dev.OutOfOrder++
	}
	dev.LastSeq = resp.SequenceNumber
	dev.LastStatus = resp.Status
}

// Errors returns the total number of failed frames
func (s *Statistics) Errors() uint64 {
	return s.FormatErrors + s.LengthErrors + s.EnumErrors + s.IntegrityErrors + s.ForeignErrors
}

// ErrorCounts returns the non-zero failure counters keyed by kind name, in
// a stable order suitable for display
func (s *Statistics) ErrorCounts() []Count {
	all := []Count{
		{protocol.ErrKindFormat.String(), s.FormatErrors},
		{protocol.ErrKindLength.String(), s.LengthErrors},
		{protocol.ErrKindEnum.String(), s.EnumErrors},
		{protocol.ErrKindIntegrity.String(), s.IntegrityErrors},
		{"Other Error", s.ForeignErrors},
	}
	var out []Count
	for _, c := range all {
		if c.N > 0 {
			out = append(out, c)
		}
	}
	return out
}

// ModeCounts returns per-mode counts ordered by mode discriminant
func (s *Statistics) ModeCounts() []Count {
	modes := make([]protocol.Mode, 0, len(s.Modes))
	for m := range s.Modes {
		modes = append(modes, m)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })

	out := make([]Count, 0, len(modes))
	for _, m := range modes {
		out = append(out, Count{m.String(), s.Modes[m]})
	}
	return out
}

// DeviceAddresses returns the devices seen, sorted by address
func (s *Statistics) DeviceAddresses() []protocol.MACAddress {
	addrs := make([]protocol.MACAddress, 0, len(s.Devices))
	for a := range s.Devices {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Key() < addrs[j].Key() })
	return addrs
}

// Count is a named counter
type Count struct {
	Name string
	N    uint64
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	var b strings.Builder

	percent := func(n uint64) float64 {
		if s.TotalFrames == 0 {
			return 0
		}
		return float64(n) * 100.0 / float64(s.TotalFrames)
	}

	b.WriteString("=== Capture Statistics ===\n")
	fmt.Fprintf(&b, "Total Frames:    %8d\n", s.TotalFrames)
	fmt.Fprintf(&b, "Valid Frames:    %8d (%.1f%%)\n", s.ValidFrames, percent(s.ValidFrames))
	for _, c := range s.ErrorCounts() {
		fmt.Fprintf(&b, "%-17s%8d (%.1f%%)\n", c.Name+":", c.N, percent(c.N))
	}

	if len(s.Modes) > 0 {
		b.WriteString("Modes:\n")
		for _, c := range s.ModeCounts() {
			fmt.Fprintf(&b, "  %-14s %6d\n", c.Name, c.N)
		}
	}

	for _, addr := range s.DeviceAddresses() {
		d := s.Devices[addr]
		fmt.Fprintf(&b, "Device %s: %d frames, seq %d..%d, %d gaps, %d out of order\n",
			addr, d.Frames, d.FirstSeq, d.LastSeq, d.SequenceGaps, d.OutOfOrder)
	}
	b.WriteString("==========================\n")

	return b.String()
}
