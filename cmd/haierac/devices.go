package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/haierac/internal/config"
	"github.com/muurk/haierac/internal/logging"
	"github.com/muurk/haierac/internal/protocol"
	"github.com/muurk/haierac/internal/ui"
)

// Command flags
var (
	devicesFormat string
	deviceRoom    string
	forgetYes     bool
)

func init() {
	devicesListCmd.Flags().StringVar(&devicesFormat, "format", config.FormatText, "Output format: text or json (default from the registry preferences)")
	devicesNicknameCmd.Flags().StringVar(&deviceRoom, "room", "", "Also record where the unit is installed")
	devicesForgetCmd.Flags().BoolVarP(&forgetYes, "yes", "y", false, "Skip the confirmation prompt")

	devicesCmd.AddCommand(devicesListCmd)
	devicesCmd.AddCommand(devicesNicknameCmd)
	devicesCmd.AddCommand(devicesForgetCmd)

	rootCmd.AddCommand(devicesCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Manage the registry of known indoor units",
	Long: `Manage the registry of known indoor units.

Units are keyed by the MAC address their frames carry. The registry holds
a nickname and room for each, and "haierac analyze --record" stores the
last state each unit reported.`,
}

// deviceEntry is the JSON shape of one registry entry
type deviceEntry struct {
	Address      protocol.MACAddress `json:"mac_address"`
	Nickname     string              `json:"nickname,omitempty"`
	Room         string              `json:"room,omitempty"`
	LastSeen     *time.Time          `json:"last_seen,omitempty"`
	LastSequence uint32              `json:"last_sequence,omitempty"`
	LastStatus   *protocol.Status    `json:"last_status,omitempty"`
}

func newDeviceEntry(addr protocol.MACAddress, d *config.Device) deviceEntry {
	entry := deviceEntry{
		Address:      addr,
		Nickname:     d.Nickname,
		Room:         d.Room,
		LastSequence: d.LastSequence,
	}
	if !d.LastSeen.IsZero() {
		seen := d.LastSeen
		entry.LastSeen = &seen
	}
	if d.LastStatus != nil {
		// A stale name in a hand-edited file just drops the state
		if s, err := d.LastStatus.Status(); err == nil {
			entry.LastStatus = &s
		} else {
			logging.Warn("Ignoring stored state", zap.Stringer("address", addr), zap.Error(err))
		}
	}
	return entry
}

// renderDevice renders one registry entry as a panel
func renderDevice(e deviceEntry, width int) string {
	title := e.Address.String()
	if e.Nickname != "" {
		title = e.Nickname
	}

	lines := []string{ui.SectionTitleStyle.Render(title), ""}
	field := func(key, value string) {
		lines = append(lines, ui.ResultKeyStyle.Render("   "+key+":")+" "+ui.ResultValueStyle.Render(value))
	}

	field("MAC address", e.Address.String())
	if e.Room != "" {
		field("Room", e.Room)
	}
	if e.LastSeen == nil {
		field("Last seen", "never")
	} else {
		field("Last seen", e.LastSeen.Local().Format("2006-01-02 15:04:05"))
		field("Last sequence", fmt.Sprintf("%d", e.LastSequence))
	}
	if e.LastStatus != nil {
		lines = append(lines, "")
		lines = append(lines, ui.RenderStatusLines(*e.LastStatus)...)
	}

	return ui.PanelStyle(width).Render(strings.Join(lines, "\n"))
}

var devicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known units",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		format, err := outputFormat(cmd, devicesFormat, reg)
		if err != nil {
			return err
		}

		entries := make([]deviceEntry, 0, len(reg.Devices))
		for _, addr := range reg.Addresses() {
			entries = append(entries, newDeviceEntry(addr, reg.Lookup(addr)))
		}

		p := newPrinter(cmd)
		if format == config.FormatJSON {
			return p.PrintJSON(entries)
		}

		p.PrintHeader("Known Units", "haierac devices list",
			ui.Param{Key: "Registry", Value: reg.Path()})
		if len(entries) == 0 {
			p.PrintWarning("No units registered",
				ui.Param{Key: "Record from a capture", Value: "haierac analyze <capture> --record"},
				ui.Param{Key: "Or name one directly", Value: "haierac devices nickname <mac> <name>"})
			return nil
		}
		for _, e := range entries {
			p.Println(renderDevice(e, p.Width()))
		}
		return nil
	},
}

var devicesNicknameCmd = &cobra.Command{
	Use:   "nickname <mac> <name>",
	Short: "Give a unit a nickname",
	Example: `  haierac devices nickname 00:07:a8:17:e9:ac "Living room"
  haierac devices nickname 0007A817E9AC Bedroom --room "First floor"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		addr, err := protocol.ParseMACString(args[0])
		if err != nil {
			return err
		}
		name := strings.TrimSpace(args[1])
		if name == "" {
			return fmt.Errorf("nickname must not be empty")
		}

		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		reg.SetNickname(addr, name)
		if cmd.Flags().Changed("room") {
			reg.SetRoom(addr, deviceRoom)
		}
		if err := reg.Save(); err != nil {
			return err
		}
		logging.Info("Nickname saved", zap.Stringer("address", addr), zap.String("nickname", name))

		details := []ui.Param{
			{Key: "MAC address", Value: addr.String()},
			{Key: "Nickname", Value: name},
		}
		if deviceRoom != "" {
			details = append(details, ui.Param{Key: "Room", Value: deviceRoom})
		}
		newPrinter(cmd).PrintSuccess("Nickname saved", details...)
		return nil
	},
}

var devicesForgetCmd = &cobra.Command{
	Use:   "forget <mac>",
	Short: "Remove a unit from the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		addr, err := protocol.ParseMACString(args[0])
		if err != nil {
			return err
		}

		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		if reg.Lookup(addr) == nil {
			return fmt.Errorf("unit %s is not in the registry", addr)
		}

		p := newPrinter(cmd)
		if !forgetYes {
			ok := p.Confirm(cmd.InOrStdin(), "Forget "+reg.DisplayName(addr), []string{
				"The nickname and room will be lost",
				"The last recorded state will be lost",
			}, "forget")
			if !ok {
				return nil
			}
		}

		reg.Forget(addr)
		if err := reg.Save(); err != nil {
			return err
		}
		logging.Info("Unit forgotten", zap.Stringer("address", addr))

		p.PrintSuccess("Unit forgotten", ui.Param{Key: "MAC address", Value: addr.String()})
		return nil
	},
}
