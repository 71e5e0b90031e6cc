package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gogpu/viewhost/component"
	"github.com/gogpu/viewhost/engines/orbit"
	"github.com/gogpu/viewhost/instance"
	"github.com/gogpu/viewhost/message"
	"github.com/gogpu/viewhost/render"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// Viewport size every mounted component paints at.
const (
	viewWidth  = 96
	viewHeight = 64
)

type tickMsg time.Time

type model struct {
	mgr        *instance.Manager
	factory    render.Factory
	identities []string
	selected   int
	mounted    map[string][]*component.Component
	paused     map[string]bool
	fps        int

	table   table.Model
	input   textinput.Model
	editing bool

	status string
	err    error
}

func newModel(mgr *instance.Manager, identities []string, fps int) *model {
	var ids []string
	for _, id := range identities {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		ids = []string{"cube-a"}
	}
	if fps <= 0 {
		fps = 30
	}

	ti := textinput.New()
	ti.Placeholder = "radians per second"
	ti.CharLimit = 16

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Identity", Width: 14},
			{Title: "State", Width: 13},
			{Title: "Refs", Width: 5},
			{Title: "Pending", Width: 8},
			{Title: "Dropped", Width: 8},
			{Title: "Built", Width: 6},
			{Title: "Frames", Width: 8},
			{Title: "Idle", Width: 6},
		}),
		table.WithHeight(8),
	)

	return &model{
		mgr:        mgr,
		factory:    orbit.Factory(orbit.WithFrameRate(float32(fps)), orbit.WithHUD(false)),
		identities: ids,
		mounted:    make(map[string][]*component.Component),
		paused:     make(map[string]bool),
		fps:        fps,
		table:      t,
		input:      ti,
	}
}

func (m *model) Init() tea.Cmd {
	return m.tick()
}

func (m *model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *model) current() string {
	return m.identities[m.selected]
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.frame()
		return m, m.tick()

	case tea.KeyMsg:
		if m.editing {
			return m.updateInput(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.shutdown()
			return m, tea.Quit
		case "right", "l", "tab":
			m.selected = (m.selected + 1) % len(m.identities)
		case "left", "h":
			m.selected = (m.selected + len(m.identities) - 1) % len(m.identities)
		case "m":
			m.mount()
		case "u":
			m.unmount()
		case "s":
			m.editing = true
			m.input.SetValue("")
			return m, m.input.Focus()
		case "r":
			m.send(message.Of(orbit.ResetRotation{}), "rotation reset")
		case "p":
			id := m.current()
			m.paused[id] = !m.paused[id]
			m.send(message.Signal(orbit.SignalPaused, m.paused[id]), fmt.Sprintf("paused=%v", m.paused[id]))
		case "t":
			m.teardown()
		}
	}
	return m, nil
}

func (m *model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.input.Blur()
		v, err := strconv.ParseFloat(strings.TrimSpace(m.input.Value()), 32)
		if err != nil {
			m.setErr(fmt.Errorf("speed: %w", err))
			return m, nil
		}
		m.send(message.Of(orbit.SetSpeed{RadiansPerSecond: float32(v)}), fmt.Sprintf("speed %.2f sent", v))
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// frame paints every mounted viewport once and closes the frame.
func (m *model) frame() {
	dev := render.NullDeviceHandle{}
	for _, id := range m.identities {
		for _, c := range m.mounted[id] {
			if err := c.Paint(dev, viewWidth, viewHeight, nil); err != nil {
				m.setErr(err)
			}
		}
	}
	if n := m.mgr.EndFrame(); n > 0 {
		m.setStatus(fmt.Sprintf("%d instance(s) expired", n))
	}
	m.refresh()
}

func (m *model) mount() {
	id := m.current()
	c := component.New(m.mgr, component.Props{Identity: id, Factory: m.factory})
	if err := c.Mount(); err != nil {
		m.setErr(err)
		return
	}
	m.mounted[id] = append(m.mounted[id], c)
	m.setStatus(fmt.Sprintf("mounted %s (%d viewports)", id, len(m.mounted[id])))
	m.refresh()
}

func (m *model) unmount() {
	id := m.current()
	views := m.mounted[id]
	if len(views) == 0 {
		m.setStatus("nothing mounted for " + id)
		return
	}
	last := views[len(views)-1]
	m.mounted[id] = views[:len(views)-1]
	if err := last.Unmount(); err != nil {
		m.setErr(err)
		return
	}
	m.setStatus(fmt.Sprintf("unmounted %s (%d viewports)", id, len(m.mounted[id])))
	m.refresh()
}

func (m *model) teardown() {
	id := m.current()
	if err := m.mgr.Teardown(id); err != nil {
		m.setErr(err)
		return
	}
	for _, c := range m.mounted[id] {
		_ = c.Unmount()
	}
	delete(m.mounted, id)
	m.setStatus("tore down " + id)
	m.refresh()
}

func (m *model) send(msg message.Message, status string) {
	if err := component.NewSender(m.mgr, m.current()).SendMessage(msg); err != nil {
		m.setErr(err)
		return
	}
	m.setStatus(status)
	m.refresh()
}

func (m *model) shutdown() {
	for _, views := range m.mounted {
		for _, c := range views {
			_ = c.Unmount()
		}
	}
	m.mounted = make(map[string][]*component.Component)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = m.mgr.Close(ctx)
}

func (m *model) setStatus(s string) {
	m.status = s
	m.err = nil
}

func (m *model) setErr(err error) {
	m.err = err
	m.status = ""
}

func (m *model) refresh() {
	var rows []table.Row
	for _, st := range m.mgr.Snapshot() {
		rows = append(rows, table.Row{
			st.Identity,
			st.State.String(),
			strconv.Itoa(st.Refs),
			strconv.Itoa(st.Pending),
			strconv.FormatUint(st.Dropped, 10),
			strconv.Itoa(st.Constructions),
			strconv.FormatUint(st.Frames, 10),
			strconv.FormatUint(st.IdleFrames, 10),
		})
	}
	m.table.SetRows(rows)
}

func (m *model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("viewhost inspect"))
	b.WriteString(fmt.Sprintf("  frame %d\n\n", m.mgr.Frame()))

	for i, id := range m.identities {
		label := fmt.Sprintf(" %s [%d] ", id, len(m.mounted[id]))
		if i == m.selected {
			label = selectedStyle.Render(label)
		}
		b.WriteString(label)
	}
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	if m.editing {
		b.WriteString("Speed: " + m.input.View() + "\n")
	}
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}

	b.WriteString(helpStyle.Render("←/→ identity • m mount • u unmount • s speed • r reset • p pause • t teardown • q quit"))
	return b.String()
}
