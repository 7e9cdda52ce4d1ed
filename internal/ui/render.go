package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/haierac/internal/capture"
	"github.com/muurk/haierac/internal/protocol"
)

// RenderStatusLines returns the status fields as aligned key/value lines
func RenderStatusLines(s protocol.Status) []string {
	details := []Param{
		{"Power", RenderOnOff(s.Power)},
		{"Mode", RenderMode(s.Mode)},
		{"Current temperature", fmt.Sprintf("%d°C", s.CurrentTemperature)},
		{"Target temperature", fmt.Sprintf("%d°C", s.TargetTemperature)},
		{"Fan speed", s.FanSpeed.String()},
		{"Health", RenderOnOff(s.Health)},
		{"Swing limits", s.Limits.String()},
	}
	return renderParams(details)
}

// RenderMode colors a mode by whether it heats or cools
func RenderMode(m protocol.Mode) string {
	style := lipgloss.NewStyle().Bold(true)
	switch m {
	case protocol.ModeHeat:
		style = style.Foreground(HeatColor)
	case protocol.ModeCool, protocol.ModeDry:
		style = style.Foreground(CoolColor)
	default:
		style = style.Foreground(TextColor)
	}
	return style.Render(m.String())
}

// RenderStatus renders a decoded status block in a panel
func RenderStatus(s protocol.Status, width int) string {
	lines := append([]string{SectionTitleStyle.Render("Air conditioner state"), ""}, RenderStatusLines(s)...)
	return PanelStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderResponse renders a decoded response. name is the device's nickname,
// or empty.
func RenderResponse(resp protocol.Response, name string, width int) string {
	device := []Param{
		{"MAC address", resp.Address.String()},
	}
	if name != "" {
		device = append([]Param{{"Device", name}}, device...)
	}
	device = append(device,
		Param{"Sequence number", fmt.Sprintf("%d", resp.SequenceNumber)},
		Param{"Payload type", fmt.Sprintf("0x%02x", resp.PayloadType)},
	)

	lines := []string{SectionTitleStyle.Render("Response frame"), ""}
	lines = append(lines, renderParams(device)...)
	lines = append(lines, "", SectionTitleStyle.Render("Air conditioner state"), "")
	lines = append(lines, RenderStatusLines(resp.Status)...)

	return PanelStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderStatistics renders capture statistics with a bar for the share of
// valid frames. names maps addresses to nicknames and may be nil.
func RenderStatistics(stats *capture.Statistics, names func(protocol.MACAddress) string, width int) string {
	var ratio float64
	if stats.TotalFrames > 0 {
		ratio = float64(stats.ValidFrames) / float64(stats.TotalFrames)
	}

	barWidth := width - 40
	if barWidth < 20 {
		barWidth = 20
	}
	bar := progress.New(progress.WithSolidFill(string(SuccessColor)), progress.WithWidth(barWidth))

	lines := []string{
		SectionTitleStyle.Render("Frames"),
		"",
	}
	lines = append(lines, renderParams([]Param{
		{"Total", fmt.Sprintf("%d", stats.TotalFrames)},
		{"Valid", fmt.Sprintf("%d", stats.ValidFrames)},
	})...)
	lines = append(lines, "   "+bar.ViewAs(ratio))

	if counts := stats.ErrorCounts(); len(counts) > 0 {
		lines = append(lines, "", SectionTitleStyle.Render("Failures"), "")
		lines = append(lines, renderCounts(counts, ErrorMessageStyle)...)
	}

	if counts := stats.ModeCounts(); len(counts) > 0 {
		lines = append(lines, "", SectionTitleStyle.Render("Modes"), "")
		lines = append(lines, renderCounts(counts, ResultValueStyle)...)
	}

	if addrs := stats.DeviceAddresses(); len(addrs) > 0 {
		lines = append(lines, "", SectionTitleStyle.Render("Devices"), "")
		for _, addr := range addrs {
			d := stats.Devices[addr]
			label := addr.String()
			if names != nil {
				if n := names(addr); n != "" && n != label {
					label = n + " (" + label + ")"
				}
			}
			lines = append(lines,
				ResultValueStyle.Render("   "+label),
				ResultKeyStyle.Render("      frames")+" "+fmt.Sprintf("%d, seq %d..%d", d.Frames, d.FirstSeq, d.LastSeq),
				ResultKeyStyle.Render("      gaps")+" "+fmt.Sprintf("%d skipped, %d out of order", d.SequenceGaps, d.OutOfOrder),
				ResultKeyStyle.Render("      last state")+" "+fmt.Sprintf("%s %s, %d°C -> %d°C",
					RenderOnOff(d.LastStatus.Power), RenderMode(d.LastStatus.Mode),
					d.LastStatus.CurrentTemperature, d.LastStatus.TargetTemperature),
			)
		}
	}

	return PanelStyle(width).Render(strings.Join(lines, "\n"))
}

func renderParams(params []Param) []string {
	lines := make([]string, 0, len(params))
	for _, p := range params {
		lines = append(lines, ResultKeyStyle.Render("   "+p.Key+":")+" "+ResultValueStyle.Render(p.Value))
	}
	return lines
}

func renderCounts(counts []capture.Count, style lipgloss.Style) []string {
	lines := make([]string, 0, len(counts))
	for _, c := range counts {
		lines = append(lines, ResultKeyStyle.Render("   "+c.Name+":")+" "+style.Render(fmt.Sprintf("%d", c.N)))
	}
	return lines
}
