package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/muurk/haierac/internal/capture"
	"github.com/muurk/haierac/internal/protocol"
)

// Printer provides methods for printing UI components to a writer.
// This is the primary way CLI commands should output styled content.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// PrintLines writes multiple lines
func (p *Printer) PrintLines(lines ...string) {
	for _, line := range lines {
		_, _ = fmt.Fprintln(p.out, line)
	}
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintJSON writes v as indented JSON
func (p *Printer) PrintJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Param) {
	p.Println(NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Param) {
	p.Println(NewWarningResult(title, details...).SetWidth(p.width).Render())
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Println(NewFailureResult(title, err, troubleshooting).SetWidth(p.width).Render())
}

// PrintDecodeError prints a decode failure with hints derived from the error
func (p *Printer) PrintDecodeError(title string, err error) {
	p.PrintError(title, err, protocol.TroubleshootingHints(err))
}

// PrintStatus prints a decoded status block
func (p *Printer) PrintStatus(s protocol.Status) {
	p.Println(RenderStatus(s, p.width))
}

// PrintResponse prints a decoded response; name is the device nickname or ""
func (p *Printer) PrintResponse(resp protocol.Response, name string) {
	p.Println(RenderResponse(resp, name, p.width))
}

// PrintHexDump prints an annotated dump of data with a region legend.
// errOffset highlights one byte; pass NoErrorOffset for none.
func (p *Printer) PrintHexDump(data []byte, regions []protocol.Region, errOffset int) {
	p.Print(RenderHexDump(data, regions, errOffset))
	p.Newline()
	p.Print(RenderRegionLegend(data, regions))
}

// PrintStatistics prints capture statistics
func (p *Printer) PrintStatistics(stats *capture.Statistics, names func(protocol.MACAddress) string) {
	p.Println(RenderStatistics(stats, names, p.width))
}
