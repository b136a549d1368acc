package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avroforge/avro/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2D7D46")).
			Padding(0, 1)

	schemaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	recordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2D7D46"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const maxLoadedRecords = 10000

type interactiveModel struct {
	err        error
	filename   string
	schemaPath string
	schemaJSON string
	codecName  string
	records    []string
	truncated  bool
	selected   int
	detail     viewport.Model
	ready      bool
	width      int
	height     int
}

type loadedMsg struct {
	err        error
	schemaJSON string
	codecName  string
	records    []string
	truncated  bool
}

func newInteractiveModel(filename, schemaPath string) *interactiveModel {
	return &interactiveModel{filename: filename, schemaPath: schemaPath}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadFile
}

func (m *interactiveModel) loadFile() tea.Msg {
	r, datum, closeFn, err := openContainer(m.filename, m.schemaPath)
	if err != nil {
		return loadedMsg{err: err}
	}
	defer closeFn()

	render, err := newRenderer(datum)
	if err != nil {
		return loadedMsg{err: err}
	}

	msg := loadedMsg{
		schemaJSON: schema.Canonical(r.Schema()),
		codecName:  string(r.Metadata()["avro.codec"]),
	}
	for len(msg.records) < maxLoadedRecords {
		d, err := r.Next()
		if err == io.EOF {
			return msg
		}
		if err != nil {
			msg.err = err
			return msg
		}
		line, err := render(d)
		if err != nil {
			msg.err = err
			return msg
		}
		msg.records = append(msg.records, line)
	}
	msg.truncated = true
	return msg
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.err = msg.err
		m.schemaJSON = msg.schemaJSON
		m.codecName = msg.codecName
		m.records = msg.records
		m.truncated = msg.truncated
		m.ready = true
		m.syncDetail()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail = viewport.New(msg.Width-2, max(3, msg.Height/2))
		m.syncDetail()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.syncDetail()
			}
		case "down", "j":
			if m.selected < len(m.records)-1 {
				m.selected++
				m.syncDetail()
			}
		case "pgup":
			m.detail.HalfViewUp()
		case "pgdown":
			m.detail.HalfViewDown()
		case "g":
			m.selected = 0
			m.syncDetail()
		case "G":
			if len(m.records) > 0 {
				m.selected = len(m.records) - 1
				m.syncDetail()
			}
		}
	}
	return m, nil
}

func (m *interactiveModel) syncDetail() {
	if m.selected < len(m.records) {
		m.detail.SetContent(m.records[m.selected])
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("avrocat " + m.filename))
	b.WriteByte('\n')

	if !m.ready {
		b.WriteString("loading...\n")
		return b.String()
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteByte('\n')
		if len(m.records) == 0 {
			b.WriteString(helpStyle.Render("q: quit"))
			return b.String()
		}
	}

	b.WriteString(schemaStyle.Render(truncate(m.schemaJSON, m.width-2)))
	b.WriteByte('\n')
	count := fmt.Sprintf("%d records", len(m.records))
	if m.truncated {
		count += " (truncated)"
	}
	if m.codecName != "" {
		count += ", codec " + m.codecName
	}
	b.WriteString(helpStyle.Render(count))
	b.WriteString("\n\n")

	// A window of records around the selection.
	window := max(3, m.height/3)
	start := max(0, m.selected-window/2)
	end := min(len(m.records), start+window)
	for i := start; i < end; i++ {
		line := fmt.Sprintf("%6d  %s", i, truncate(m.records[i], m.width-10))
		if i == m.selected {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(recordStyle.Render(line))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(m.detail.View())
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render("up/down: select  pgup/pgdn: scroll detail  g/G: first/last  q: quit"))
	return b.String()
}

func truncate(s string, width int) string {
	if width <= 3 || len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}

func runInteractive(filename, schemaPath string) error {
	p := tea.NewProgram(newInteractiveModel(filename, schemaPath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
