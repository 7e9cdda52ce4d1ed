package inspect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/haierac/internal/capture"
	"github.com/muurk/haierac/internal/logging"
	"github.com/muurk/haierac/internal/protocol"
	"github.com/muurk/haierac/internal/ui"
)

// minListWidth keeps frame labels readable on narrow terminals
const minListWidth = 30

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ui.TextColor).
			Background(ui.PrimaryColor).
			Bold(true).
			Padding(0, 1)

	summaryStyle = lipgloss.NewStyle().
			Foreground(ui.MutedColor).
			PaddingLeft(1)
)

// resultItem adapts a capture.Result to list.DefaultItem
type resultItem struct {
	result capture.Result
	name   string // Device nickname, may be empty
}

func (i resultItem) Title() string {
	r := i.result
	if !r.OK() {
		return fmt.Sprintf("%s %s", ui.FailureMarker, r.Record.Label())
	}
	s := r.Response.Status
	return fmt.Sprintf("%s %s  %s %d°C → %d°C", ui.SuccessMarker, r.Record.Label(),
		s.Mode, s.CurrentTemperature, s.TargetTemperature)
}

func (i resultItem) Description() string {
	r := i.result
	if !r.OK() {
		var de *protocol.DecodeError
		if errors.As(r.Err, &de) {
			return fmt.Sprintf("%s in %s", de.Kind, de.Field)
		}
		return "Other Error"
	}
	who := r.Response.Address.String()
	if i.name != "" {
		who = i.name
	}
	return fmt.Sprintf("%s  seq %d", who, r.Response.SequenceNumber)
}

func (i resultItem) FilterValue() string {
	return i.Title() + " " + i.Description()
}

type focusArea int

const (
	focusList focusArea = iota
	focusDetail
)

// Model is the capture browser: a filterable frame list on the left and the
// selected frame's decode, hints and annotated hex dump on the right.
type Model struct {
	List   list.Model
	Detail viewport.Model
	Help   help.Model
	Keys   keyMap

	Width  int
	Height int

	focus focusArea
	shown string // Label of the record rendered in Detail
	stats *capture.Statistics
}

// New creates a browser over results. names maps addresses to nicknames and
// may be nil.
func New(results []capture.Result, names func(protocol.MACAddress) string) Model {
	items := make([]list.Item, len(results))
	for i, r := range results {
		var name string
		if names != nil && r.OK() {
			if n := names(r.Response.Address); n != r.Response.Address.String() {
				name = n
			}
		}
		items[i] = resultItem{result: r, name: name}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ui.PrimaryColor).
		BorderForeground(ui.PrimaryColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		BorderForeground(ui.PrimaryColor)

	l := list.New(items, delegate, 0, 0)
	l.Title = "Frames"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	return Model{
		List:   l,
		Detail: viewport.New(0, 0),
		Help:   help.New(),
		Keys:   newKeyMap(),
		focus:  focusList,
		stats:  capture.Summarize(results),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.resize()
		m.refreshDetail(true)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Typed characters belong to the filter while it is being edited
		if m.List.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.Keys.Focus):
			if m.focus == focusList {
				m.focus = focusDetail
			} else {
				m.focus = focusList
			}
			return m, nil
		case key.Matches(msg, m.Keys.Help):
			m.Help.ShowAll = !m.Help.ShowAll
			m.resize()
			return m, nil
		case key.Matches(msg, m.Keys.Failures):
			m.selectNextFailure()
			m.refreshDetail(false)
			return m, nil
		}

		if m.focus == focusDetail {
			var cmd tea.Cmd
			m.Detail, cmd = m.Detail.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	m.refreshDetail(false)
	return m, cmd
}

// View implements tea.Model
func (m Model) View() string {
	if m.Width == 0 {
		return "Loading capture..."
	}

	border := ui.MutedColor
	if m.focus == focusDetail {
		border = ui.PrimaryColor
	}
	detail := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(border).
		Render(m.Detail.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.List.View(), detail)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		body,
		m.Help.View(m.Keys),
	)
}

func (m Model) header() string {
	return titleStyle.Render("haierac inspect") + summaryStyle.Render(fmt.Sprintf(
		"%d frames, %d valid, %d failed", m.stats.TotalFrames, m.stats.ValidFrames, m.stats.Errors()))
}

func (m *Model) resize() {
	listWidth := m.Width * 2 / 5
	if listWidth < minListWidth {
		listWidth = minListWidth
	}
	detailWidth := m.Width - listWidth - 1
	if detailWidth < 20 {
		detailWidth = 20
	}

	m.Help.Width = m.Width
	bodyHeight := m.Height - lipgloss.Height(m.header()) - lipgloss.Height(m.Help.View(m.Keys))
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	m.List.SetSize(listWidth, bodyHeight)
	m.Detail.Width = detailWidth
	m.Detail.Height = bodyHeight
}

// selectNextFailure moves the cursor to the next visible frame that failed
// to decode, wrapping around.
func (m *Model) selectNextFailure() {
	items := m.List.VisibleItems()
	n := len(items)
	for step := 1; step <= n; step++ {
		i := (m.List.Index() + step) % n
		if it, ok := items[i].(resultItem); ok && !it.result.OK() {
			m.List.Select(i)
			return
		}
	}
}

// refreshDetail re-renders the detail pane when the selection changed, or
// always when force is set.
func (m *Model) refreshDetail(force bool) {
	it, ok := m.List.SelectedItem().(resultItem)
	if !ok {
		m.shown = ""
		m.Detail.SetContent(summaryStyle.Render("No frames match the filter."))
		return
	}

	label := it.result.Record.Label()
	if !force && label == m.shown {
		return
	}
	m.shown = label
	m.Detail.SetContent(renderDetail(it, m.Detail.Width))
	m.Detail.GotoTop()
}

// renderDetail shows the decoded frame or the failure with hints, followed by
// the annotated hex dump.
func renderDetail(it resultItem, width int) string {
	r := it.result
	data := r.Record.Data
	errOffset := ui.NoErrorOffset

	var b strings.Builder
	if r.OK() {
		b.WriteString(ui.RenderResponse(r.Response, it.name, width))
	} else {
		b.WriteString(ui.NewFailureResult(r.Record.Label(), r.Err, protocol.TroubleshootingHints(r.Err)).
			SetWidth(width).
			Render())
		var de *protocol.DecodeError
		if errors.As(r.Err, &de) && de.Offset >= 0 && de.Offset < len(data) {
			errOffset = de.Offset
		}
	}
	b.WriteString("\n")

	var meta []string
	if !r.Record.Timestamp.IsZero() {
		meta = append(meta, r.Record.Timestamp.Format("2006-01-02 15:04:05.000"))
	}
	if r.Record.Direction != "" {
		meta = append(meta, r.Record.Direction)
	}
	meta = append(meta, fmt.Sprintf("%d bytes", len(data)))
	b.WriteString(summaryStyle.Render(strings.Join(meta, "  ·  ")))
	b.WriteString("\n\n")

	regions := protocol.ResponseLayout(data)
	b.WriteString(ui.RenderHexDump(data, regions, errOffset))
	b.WriteString("\n")
	b.WriteString(ui.RenderRegionLegend(data, regions))

	return b.String()
}

// Run starts the browser full screen and blocks until the user quits
func Run(results []capture.Result, names func(protocol.MACAddress) string) error {
	if len(results) == 0 {
		return errors.New("capture contains no frames")
	}

	logging.Debug("Starting capture browser", zap.Int("frames", len(results)))

	p := tea.NewProgram(New(results, names), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
