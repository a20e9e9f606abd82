// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Ferrodyne Controls

package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ferrodyne/atecctl/pkg/atecc"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive device console",
	Long: `An interactive view of the device: identity, lock state, and live
command results. The device is woken once per operation and put back to
sleep between them, so the console can stay open without fighting the
watchdog.

Keys: r = random, i = refresh identity, q = quit.`,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

// Console log entry
type consoleLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// Device identity shown in the top panel
type identityData struct {
	serialNumber []byte
	lockState    atecc.LockState
	lockErr      error
}

type consoleModel struct {
	bus      atecc.Bus
	connInfo string

	spinner  spinner.Model
	busy     bool // one session op in flight at a time
	identity *identityData
	lastRand []byte
	stats    atecc.Stats
	log      []consoleLogEntry
	width    int
	height   int
	quitting bool
}

// Messages
type identityMsg struct {
	identity *identityData
	stats    atecc.Stats
	err      error
}
type randomMsg struct {
	data  []byte
	stats atecc.Stats
	err   error
}

func initialConsoleModel(bus atecc.Bus, connInfo string) consoleModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	return consoleModel{
		bus:      bus,
		connInfo: connInfo,
		spinner:  sp,
		width:    80,
		height:   24,
	}
}

func (m consoleModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.refreshIdentityCmd(),
		tea.EnterAltScreen,
	)
}

// withConsoleSession wakes the device, runs fn, and sleeps it again. Each
// keypress is one complete wake/sleep cycle.
func (m consoleModel) withConsoleSession(fn func(s *atecc.Session) error) (atecc.Stats, error) {
	s := atecc.New(m.bus, atecc.WithLogger(logger))
	if err := s.Wake(); err != nil {
		return s.Stats(), err
	}
	defer s.Sleep()
	return s.Stats(), fn(s)
}

func (m consoleModel) refreshIdentityCmd() tea.Cmd {
	return func() tea.Msg {
		id := &identityData{}
		stats, err := m.withConsoleSession(func(s *atecc.Session) error {
			sn, err := s.SerialNumber()
			if err != nil {
				return err
			}
			id.serialNumber = sn
			id.lockState, id.lockErr = s.LockStatus()
			return nil
		})
		if err != nil {
			return identityMsg{stats: stats, err: err}
		}
		return identityMsg{identity: id, stats: stats}
	}
}

func (m consoleModel) randomCmd() tea.Cmd {
	return func() tea.Msg {
		var data []byte
		stats, err := m.withConsoleSession(func(s *atecc.Session) error {
			var err error
			data, err = s.Random(16)
			return err
		})
		return randomMsg{data: data, stats: stats, err: err}
	}
}

func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			if !m.busy {
				m.busy = true
				return m, m.randomCmd()
			}
		case "i":
			if !m.busy {
				m.busy = true
				return m, m.refreshIdentityCmd()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case identityMsg:
		m.busy = false
		m.addStats(msg.stats)
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("identity read failed: %v", msg.err), true)
		} else {
			m.identity = msg.identity
			m.addLogEntry("identity refreshed", false)
		}

	case randomMsg:
		m.busy = false
		m.addStats(msg.stats)
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("random failed: %v", msg.err), true)
		} else {
			m.lastRand = msg.data
			m.addLogEntry(fmt.Sprintf("random: %s", hex.EncodeToString(msg.data)), false)
		}
	}

	return m, nil
}

func (m *consoleModel) addStats(s atecc.Stats) {
	m.stats.Commands += s.Commands
	m.stats.Naks += s.Naks
	m.stats.CRCFailures += s.CRCFailures
}

func (m *consoleModel) addLogEntry(message string, isError bool) {
	m.log = append(m.log, consoleLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})
	if len(m.log) > 100 {
		m.log = m.log[len(m.log)-100:]
	}
}

func (m consoleModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("ATECCTL - DEVICE CONSOLE"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | r: random, i: refresh identity, q: quit", m.connInfo)))
	s.WriteString("\n\n")

	if m.busy {
		s.WriteString(m.spinner.View())
		s.WriteString(headerStyle.Render(" talking to device..."))
		s.WriteString("\n\n")
	}

	// Identity panel
	identityContent := strings.Builder{}
	if m.identity == nil {
		identityContent.WriteString(headerStyle.Render("(identity not read yet)"))
	} else {
		identityContent.WriteString(fmt.Sprintf("%s %s\n",
			labelStyle.Render("Serial:"),
			valueStyle.Render(hex.EncodeToString(m.identity.serialNumber)),
		))
		if m.identity.lockErr != nil {
			identityContent.WriteString(fmt.Sprintf("%s %s",
				labelStyle.Render("Lock:"),
				errorStyle.Render(m.identity.lockErr.Error()),
			))
		} else {
			identityContent.WriteString(fmt.Sprintf("%s %s",
				labelStyle.Render("Lock:"),
				valueStyle.Render(m.identity.lockState.String()),
			))
		}
	}
	s.WriteString(boxStyle.Render(identityContent.String()))
	s.WriteString("\n\n")

	// Session counters
	s.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n\n",
		labelStyle.Render("Commands:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.Commands)),
		labelStyle.Render("NAKs:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.Naks)),
		labelStyle.Render("CRC failures:"), func() string {
			if m.stats.CRCFailures > 0 {
				return errorStyle.Render(fmt.Sprintf("%d", m.stats.CRCFailures))
			}
			return valueStyle.Render(fmt.Sprintf("%d", m.stats.CRCFailures))
		}(),
	))

	// Event log
	s.WriteString(labelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	logHeight := m.height - 14
	if logHeight < 5 {
		logHeight = 5
	}

	logContent := strings.Builder{}
	startIdx := len(m.log) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.log) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.log); i++ {
			entry := m.log[i]
			timestamp := entry.timestamp.Format("15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					valueStyle.Render("• "+entry.message),
				))
			}
		}
	}
	s.WriteString(boxStyle.Width(m.width - 4).Render(logContent.String()))

	return s.String()
}

func runConsole(cmd *cobra.Command, args []string) error {
	bus, connInfo, err := OpenBus()
	if err != nil {
		return err
	}
	defer bus.Close()

	program := tea.NewProgram(initialConsoleModel(bus, connInfo))
	_, err = program.Run()
	return err
}
