package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/haierac/internal/config"
	"github.com/muurk/haierac/internal/logging"
	"github.com/muurk/haierac/internal/protocol"
	"github.com/muurk/haierac/internal/ui"
)

// Command flags
var (
	decodeFormat string
	decodeDump   bool
)

func init() {
	decodeCmd.PersistentFlags().StringVar(&decodeFormat, "format", config.FormatText, "Output format: text or json (default from the registry preferences)")
	decodeCmd.PersistentFlags().BoolVar(&decodeDump, "dump", false, "Also print an annotated hex dump of the input")

	decodeCmd.AddCommand(decodeResponseCmd)
	decodeCmd.AddCommand(decodeStatusCmd)
	macCmd.AddCommand(macEncodeCmd)
	macCmd.AddCommand(macDecodeCmd)

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(macCmd)
}

// newPrinter writes styled output to the command's stdout
func newPrinter(cmd *cobra.Command) *ui.Printer {
	return ui.NewPrinter(cmd.OutOrStdout())
}

// loadRegistry loads the registry named by --config, or the default one
func loadRegistry() (*config.Registry, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.LoadRegistry()
}

// optionalRegistry loads the registry for nicknames and preferences.
// Commands that only read from it keep working when it is broken.
func optionalRegistry() *config.Registry {
	reg, err := loadRegistry()
	if err != nil {
		logging.Warn("Device registry unavailable, continuing without it", zap.Error(err))
		return nil
	}
	return reg
}

// outputFormat resolves the --format flag, falling back to the registry
// preference when the flag was not given.
func outputFormat(cmd *cobra.Command, flag string, reg *config.Registry) (string, error) {
	format := flag
	if !cmd.Flags().Changed("format") && reg != nil && reg.Preferences != nil && reg.Preferences.OutputFormat != "" {
		format = reg.Preferences.OutputFormat
	}

	switch format {
	case config.FormatText, config.FormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: %s, %s)", format, config.FormatText, config.FormatJSON)
	}
}

// readHexInput joins the arguments into one hex string, so frames pasted
// with spaces work unquoted. A single "-" reads the frame from stdin.
func readHexInput(in io.Reader, args []string) ([]byte, error) {
	text := strings.Join(args, " ")
	if len(args) == 1 && args[0] == "-" {
		raw, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(raw)
	}
	return protocol.HexToBytes(text)
}

// nickname returns the registered nickname for addr, or "" when there is none
func nickname(reg *config.Registry, addr protocol.MACAddress) string {
	if reg == nil {
		return ""
	}
	if name := reg.DisplayName(addr); name != addr.String() {
		return name
	}
	return ""
}

// decodeErrorReport is the JSON shape of a failed decode
type decodeErrorReport struct {
	Error    string `json:"error"`
	Kind     string `json:"kind"`
	Field    string `json:"field,omitempty"`
	Offset   int    `json:"offset"`
	Recovery string `json:"recovery"`
}

func newDecodeErrorReport(err error) decodeErrorReport {
	report := decodeErrorReport{
		Error:    err.Error(),
		Kind:     "Other Error",
		Offset:   -1,
		Recovery: protocol.SuggestRecovery(err).String(),
	}
	var de *protocol.DecodeError
	if errors.As(err, &de) {
		report.Kind = de.Kind.String()
		report.Field = de.Field
		report.Offset = de.Offset
	}
	return report
}

// reportDecodeFailure prints a decode failure in the chosen format and
// returns err for the exit status.
func reportDecodeFailure(p *ui.Printer, format, title string, data []byte, regions []protocol.Region, err error) error {
	if format == config.FormatJSON {
		if jerr := p.PrintJSON(newDecodeErrorReport(err)); jerr != nil {
			return jerr
		}
		return err
	}

	p.PrintDecodeError(title, err)
	if decodeDump {
		errOffset := ui.NoErrorOffset
		var de *protocol.DecodeError
		if errors.As(err, &de) && de.Offset >= 0 && de.Offset < len(data) {
			errOffset = de.Offset
		}
		p.PrintHexDump(data, regions, errOffset)
	}
	return err
}

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode a single frame given as hex",
	Long: `Decode a single frame given as hex.

Whitespace, colons, dashes and a leading 0x are ignored, so frames can be
pasted straight from packet dumps. Pass "-" to read the frame from stdin.`,
}

var decodeResponseCmd = &cobra.Command{
	Use:   "response <hex>...",
	Short: "Decode a complete response frame",
	Long: `Decode a complete response frame: envelope, MAC address, sequence
number, payload length, checksum and the status block it carries.`,
	Example: `  # Decode a frame
  haierac decode response 0000 2715 0000000000000000 303030374138...

  # Decode from stdin and show the byte layout
  cat frame.hex | haierac decode response - --dump

  # Machine-readable output
  haierac decode response --format json 00002715...`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecodeResponse,
}

func runDecodeResponse(cmd *cobra.Command, args []string) error {
	// Suppress usage on execution errors (we're past argument parsing)
	cmd.SilenceUsage = true

	data, err := readHexInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	reg := optionalRegistry()
	format, err := outputFormat(cmd, decodeFormat, reg)
	if err != nil {
		return err
	}

	p := newPrinter(cmd)
	if format == config.FormatText {
		p.PrintHeader("Response Frame", "haierac decode response",
			ui.Param{Key: "Input", Value: fmt.Sprintf("%d bytes", len(data))})
	}

	logging.LogRawFrame("cli", data)
	resp, err := protocol.DecodeResponse(data)
	if err != nil {
		logging.LogDecodeFailure("cli", data, err)
		return reportDecodeFailure(p, format, "Response decode failed", data, protocol.ResponseLayout(data), err)
	}
	logging.LogDecoded("cli", resp)

	if format == config.FormatJSON {
		return p.PrintJSON(resp)
	}

	p.PrintResponse(resp, nickname(reg, resp.Address))
	if decodeDump {
		p.PrintHexDump(data, protocol.ResponseLayout(data), ui.NoErrorOffset)
	}
	return nil
}

var decodeStatusCmd = &cobra.Command{
	Use:   "status <hex>...",
	Short: "Decode an isolated 36-byte status block",
	Long: `Decode an isolated status block, without the response envelope.

The block starts with the FF FF 22 00 markers; bytes past its end are
ignored.`,
	Example: `  haierac decode status ffff2200000000000106 6d010015...`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDecodeStatus,
}

func runDecodeStatus(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	data, err := readHexInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	format, err := outputFormat(cmd, decodeFormat, optionalRegistry())
	if err != nil {
		return err
	}

	p := newPrinter(cmd)
	if format == config.FormatText {
		p.PrintHeader("Status Block", "haierac decode status",
			ui.Param{Key: "Input", Value: fmt.Sprintf("%d bytes", len(data))})
	}

	logging.LogRawFrame("cli", data)
	status, err := protocol.DecodeStatus(data)
	if err != nil {
		logging.LogDecodeFailure("cli", data, err)
		return reportDecodeFailure(p, format, "Status decode failed", data, protocol.StatusLayout(), err)
	}
	logging.Debug("Status decoded", zap.Stringer("status", status))

	if format == config.FormatJSON {
		return p.PrintJSON(status)
	}

	p.PrintStatus(status)
	if decodeDump {
		p.PrintHexDump(data, protocol.StatusLayout(), ui.NoErrorOffset)
	}
	return nil
}

var macCmd = &cobra.Command{
	Use:   "mac",
	Short: "Convert MAC addresses to and from their wire form",
	Long: `Convert MAC addresses to and from the 12 ASCII hex digits that
response frames carry at offset 12.`,
}

var macEncodeCmd = &cobra.Command{
	Use:     "encode <mac>",
	Short:   "Print the wire form of a MAC address",
	Example: `  haierac mac encode 00:07:a8:17:e9:ac   # 0007A817E9AC`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		addr, err := protocol.ParseMACString(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(protocol.EncodeAddress(addr)))
		return nil
	},
}

var macDecodeCmd = &cobra.Command{
	Use:     "decode <wire>",
	Short:   "Print the MAC address held in a 12-digit wire form",
	Example: `  haierac mac decode 0007A817E9AC   # 00:07:a8:17:e9:ac`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		addr, err := protocol.DecodeAddress([]byte(strings.TrimSpace(args[0])))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), addr.String())
		return nil
	},
}
