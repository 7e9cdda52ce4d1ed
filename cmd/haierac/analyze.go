package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/haierac/internal/capture"
	"github.com/muurk/haierac/internal/config"
	"github.com/muurk/haierac/internal/inspect"
	"github.com/muurk/haierac/internal/logging"
	"github.com/muurk/haierac/internal/metrics"
	"github.com/muurk/haierac/internal/protocol"
	"github.com/muurk/haierac/internal/ui"
)

// Command flags
var (
	analyzeFormat   string
	analyzeWorkers  int
	analyzeRecord   bool
	analyzeFailures bool
	analyzeMetrics  string
	inspectWorkers  int
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", config.FormatText, "Output format: text or json (default from the registry preferences)")
	analyzeCmd.Flags().IntVarP(&analyzeWorkers, "workers", "w", 0, "Concurrent decoders, 0 for one per CPU (default from the registry preferences)")
	analyzeCmd.Flags().BoolVar(&analyzeRecord, "record", false, "Store the latest state of each unit in the device registry")
	analyzeCmd.Flags().BoolVar(&analyzeFailures, "failures", false, "List every frame that failed to decode")
	analyzeCmd.Flags().StringVar(&analyzeMetrics, "metrics-file", "", "Write Prometheus metrics for node_exporter's textfile collector")

	inspectCmd.Flags().IntVarP(&inspectWorkers, "workers", "w", 0, "Concurrent decoders, 0 for one per CPU")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(inspectCmd)
}

// decodeCapture loads a capture file and decodes every frame in it. Ctrl-C
// abandons the batch.
func decodeCapture(cmd *cobra.Command, path string, workers int) ([]capture.Result, error) {
	records, err := capture.LoadFile(path)
	if err != nil {
		return nil, err
	}
	logging.Info("Capture loaded", zap.String("file", path), zap.Int("frames", len(records)), zap.Int("workers", workers))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return capture.DecodeAll(ctx, records, workers)
}

// recordResults stores the latest response of every unit in reg and returns
// how many units changed. Frames without a capture timestamp count as seen
// at now.
func recordResults(reg *config.Registry, results []capture.Result, now time.Time) int {
	changed := make(map[protocol.MACAddress]bool)
	for _, r := range results {
		if !r.OK() {
			continue
		}
		seen := r.Record.Timestamp
		if seen.IsZero() {
			seen = now
		}
		if reg.RecordResponse(r.Response, seen) {
			changed[r.Response.Address] = true
		}
	}
	return len(changed)
}

// analyzeReport is the JSON shape of "haierac analyze --format json"
type analyzeReport struct {
	File         string            `json:"file"`
	TotalFrames  uint64            `json:"total_frames"`
	ValidFrames  uint64            `json:"valid_frames"`
	Failures     map[string]uint64 `json:"failures,omitempty"`
	Modes        map[string]uint64 `json:"modes,omitempty"`
	Devices      []deviceReport    `json:"devices,omitempty"`
	FailedFrames []failedFrame     `json:"failed_frames,omitempty"`
}

type deviceReport struct {
	Address      protocol.MACAddress `json:"mac_address"`
	Name         string              `json:"name,omitempty"`
	Frames       uint64              `json:"frames"`
	FirstSeq     uint32              `json:"first_sequence"`
	LastSeq      uint32              `json:"last_sequence"`
	SequenceGaps uint64              `json:"sequence_gaps"`
	OutOfOrder   uint64              `json:"out_of_order"`
	LastStatus   protocol.Status     `json:"last_status"`
}

type failedFrame struct {
	Frame string `json:"frame"`
	decodeErrorReport
}

func newAnalyzeReport(path string, stats *capture.Statistics, results []capture.Result, reg *config.Registry, withFailures bool) analyzeReport {
	report := analyzeReport{
		File:        path,
		TotalFrames: stats.TotalFrames,
		ValidFrames: stats.ValidFrames,
	}

	if counts := stats.ErrorCounts(); len(counts) > 0 {
		report.Failures = make(map[string]uint64, len(counts))
		for _, c := range counts {
			report.Failures[c.Name] = c.N
		}
	}
	if counts := stats.ModeCounts(); len(counts) > 0 {
		report.Modes = make(map[string]uint64, len(counts))
		for _, c := range counts {
			report.Modes[c.Name] = c.N
		}
	}

	for _, addr := range stats.DeviceAddresses() {
		d := stats.Devices[addr]
		report.Devices = append(report.Devices, deviceReport{
			Address:      addr,
			Name:         nickname(reg, addr),
			Frames:       d.Frames,
			FirstSeq:     d.FirstSeq,
			LastSeq:      d.LastSeq,
			SequenceGaps: d.SequenceGaps,
			OutOfOrder:   d.OutOfOrder,
			LastStatus:   d.LastStatus,
		})
	}

	if withFailures {
		for _, r := range results {
			if r.OK() {
				continue
			}
			report.FailedFrames = append(report.FailedFrames, failedFrame{
				Frame:             r.Record.Label(),
				decodeErrorReport: newDecodeErrorReport(r.Err),
			})
		}
	}

	return report
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <capture>",
	Short: "Decode every frame in a capture file and summarise the results",
	Long: `Decode every frame in a capture file and summarise the results.

A capture holds one frame per line, either as bare hex or as a JSON object
with a "payload_hex" field (plus optional "timestamp" and "direction").
Blank lines and lines starting with # are skipped. Use "-" for stdin.

The summary counts failures by kind and decoded frames by mode, and tracks
sequence numbers per unit to spot dropped or reordered frames.`,
	Example: `  # Summarise a capture
  haierac analyze capture.jsonl

  # Remember the last state of every unit seen
  haierac analyze capture.jsonl --record

  # Machine-readable report including each failed frame
  haierac analyze capture.hex --format json --failures

  # Export unit state for node_exporter
  haierac analyze capture.jsonl --metrics-file /var/lib/node_exporter/haierac.prom`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	path := args[0]

	var reg *config.Registry
	if analyzeRecord {
		var err error
		if reg, err = loadRegistry(); err != nil {
			return fmt.Errorf("failed to load device registry: %w", err)
		}
	} else {
		reg = optionalRegistry()
	}

	format, err := outputFormat(cmd, analyzeFormat, reg)
	if err != nil {
		return err
	}

	workers := analyzeWorkers
	if !cmd.Flags().Changed("workers") && reg != nil && reg.Preferences != nil {
		workers = reg.Preferences.Workers
	}

	p := newPrinter(cmd)
	if format == config.FormatText {
		p.PrintHeader("Capture Analysis", "haierac analyze",
			ui.Param{Key: "File", Value: path},
			ui.Param{Key: "Workers", Value: workersLabel(workers)})
	}

	results, err := decodeCapture(cmd, path, workers)
	if err != nil {
		if format == config.FormatText {
			p.PrintError("Capture analysis failed", err, []string{
				"Each line must be hex or a JSON object with a payload_hex field",
				"Lines starting with # are treated as comments",
			})
		}
		return err
	}

	stats := capture.Summarize(results)

	if analyzeRecord {
		changed := recordResults(reg, results, time.Now())
		if err := reg.Save(); err != nil {
			return fmt.Errorf("failed to save device registry: %w", err)
		}
		logging.Info("Registry updated", zap.Int("devices", changed), zap.String("path", reg.Path()))
		if format == config.FormatText {
			defer p.PrintSuccess("Registry updated",
				ui.Param{Key: "Units updated", Value: strconv.Itoa(changed)},
				ui.Param{Key: "Registry", Value: reg.Path()})
		}
	}

	var names func(protocol.MACAddress) string
	if reg != nil {
		names = reg.DisplayName
	}

	if analyzeMetrics != "" {
		m := metrics.New()
		m.Observe(stats, names)
		if err := m.WriteTextfile(analyzeMetrics); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		logging.Info("Metrics written", zap.String("path", analyzeMetrics))
	}

	if format == config.FormatJSON {
		return p.PrintJSON(newAnalyzeReport(path, stats, results, reg, analyzeFailures))
	}

	p.PrintStatistics(stats, names)

	if analyzeFailures {
		for _, r := range results {
			if !r.OK() {
				p.Println(ui.ErrorMessageStyle.Render(fmt.Sprintf("  %s %s: %v", ui.FailureMarker, r.Record.Label(), r.Err)))
			}
		}
		p.Newline()
	}
	return nil
}

func workersLabel(n int) string {
	if n <= 0 {
		return "one per CPU"
	}
	return strconv.Itoa(n)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <capture>",
	Short: "Browse a capture file interactively",
	Long: `Open a full-screen browser over a capture file.

Frames are listed on the left, marked by whether they decoded. The right
pane shows the selected frame decoded, or the decode error with
troubleshooting hints, above an annotated hex dump with the offending byte
highlighted.`,
	Example: `  haierac inspect capture.jsonl`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		if !ui.IsTerminal() {
			return fmt.Errorf("inspect needs an interactive terminal; use 'haierac analyze %s' instead", args[0])
		}

		results, err := decodeCapture(cmd, args[0], inspectWorkers)
		if err != nil {
			return err
		}

		var names func(protocol.MACAddress) string
		if reg := optionalRegistry(); reg != nil {
			names = reg.DisplayName
		}
		return inspect.Run(results, names)
	},
}
