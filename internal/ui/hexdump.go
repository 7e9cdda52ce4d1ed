package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/haierac/internal/protocol"
)

// NoErrorOffset disables error highlighting in RenderHexDump
const NoErrorOffset = -1

// RenderHexDump renders data 16 bytes per row, coloring each byte by the
// region it belongs to. The byte at errOffset, if any, is highlighted.
func RenderHexDump(data []byte, regions []protocol.Region, errOffset int) string {
	owner := regionIndex(len(data), regions)

	var b strings.Builder
	for row := 0; row < len(data); row += HexDumpRowBytes {
		end := row + HexDumpRowBytes
		if end > len(data) {
			end = len(data)
		}

		b.WriteString(HexOffsetStyle.Render(fmt.Sprintf("%04x", row)))
		b.WriteString("  ")

		var ascii strings.Builder
		for i := row; i < row+HexDumpRowBytes; i++ {
			if i >= end {
				b.WriteString("   ")
				continue
			}
			style := byteStyle(owner[i], i == errOffset)
			b.WriteString(style.Render(fmt.Sprintf("%02x", data[i])))
			b.WriteString(" ")
			ascii.WriteString(style.Render(printable(data[i])))
		}

		b.WriteString(" |")
		b.WriteString(ascii.String())
		b.WriteString("|\n")
	}
	return b.String()
}

// RenderRegionLegend lists each region with its offset range, its color and
// the bytes it holds
func RenderRegionLegend(data []byte, regions []protocol.Region) string {
	var b strings.Builder
	for i, r := range regions {
		end := r.End()
		if end > len(data) {
			end = len(data)
		}
		var raw string
		if r.Offset < end {
			raw = fmt.Sprintf("% x", data[r.Offset:end])
			if len(raw) > 35 {
				raw = raw[:32] + "..."
			}
		}
		swatch := lipgloss.NewStyle().Foreground(regionColors[i%len(regionColors)]).Render("■")
		fmt.Fprintf(&b, "%s %s %-20s %s\n",
			swatch,
			HexOffsetStyle.Render(fmt.Sprintf("[%2d..%2d)", r.Offset, r.End())),
			r.Name,
			raw,
		)
	}
	return b.String()
}

func regionIndex(size int, regions []protocol.Region) []int {
	owner := make([]int, size)
	for i := range owner {
		owner[i] = -1
	}
	for idx, r := range regions {
		for i := r.Offset; i < r.End() && i < size; i++ {
			if i >= 0 {
				owner[i] = idx
			}
		}
	}
	return owner
}

func byteStyle(region int, isErr bool) lipgloss.Style {
	if isErr {
		return HexErrorStyle
	}
	if region < 0 {
		return lipgloss.NewStyle().Foreground(MutedColor)
	}
	return lipgloss.NewStyle().Foreground(regionColors[region%len(regionColors)])
}

func printable(c byte) string {
	if c >= 32 && c <= 126 {
		return string(rune(c))
	}
	return "."
}
