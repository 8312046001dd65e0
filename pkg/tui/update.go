package tui

import (
	"fmt"
	"time"

	"holdersnap/pkg/config"
	"holdersnap/pkg/export"
	"holdersnap/pkg/loader"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()

	case loader.Event:
		cmds = append(cmds, listenForState(m.sub))
		// Events can be dropped for a full subscriber, so the coordinator's
		// own state wins unless the event is newer.
		m.generation, m.state = msg.Generation, msg.State
		if gen, st := m.coord.Snapshot(); gen >= msg.Generation {
			m.generation, m.state = gen, st
		}
		if m.focus == focusToken && !tokenFieldVisible(m.tokenInput.Value(), m.state) {
			m.setFocus(focusAddress)
		}
		m.refreshViewport()

	case exportedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			m.statusMsg = fmt.Sprintf("Saved %s", msg.path)
		}
		cmds = append(cmds, clearStatusAfter(3*time.Second))

	case configSavedMsg:
		if msg.err != nil {
			m.logger.Warn("Failed to save config", zap.Error(msg.err))
			m.statusMsg = fmt.Sprintf("Failed to save config: %v", msg.err)
			cmds = append(cmds, clearStatusAfter(3*time.Second))
		}

	case clearStatusMsg:
		m.statusMsg = ""

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if m.showHelp {
			switch msg.String() {
			case "f1", "esc", "ctrl+c":
				m.showHelp = false
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.showGraph {
				m.showGraph = false
				return m, nil
			}
			return m, tea.Quit
		case "f1":
			m.showHelp = true
			return m, nil
		case "tab":
			m.cycleFocus(1)
			return m, nil
		case "shift+tab":
			m.cycleFocus(-1)
			return m, nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case "ctrl+g":
			m.showGraph = !m.showGraph
			return m, nil
		case "ctrl+r":
			m.coord.Refresh(m.ctx)
			m.statusMsg = "Refreshing..."
			return m, clearStatusAfter(2 * time.Second)
		case "ctrl+s":
			return m, m.download()
		case "ctrl+y":
			m.copyCSV()
			return m, clearStatusAfter(2 * time.Second)
		case "ctrl+t":
			return m, m.toggleTheme()
		}

		if m.focus == focusChain {
			switch msg.String() {
			case "left", "h":
				m.selectChain(m.chainIdx - 1)
			case "right", "l", " ", "enter":
				m.selectChain(m.chainIdx + 1)
			}
			return m, nil
		}

		cmds = append(cmds, m.updateInputs(msg))
	}

	return m, tea.Batch(cmds...)
}

// updateInputs feeds a key to the focused text field and starts a new load
// when the form changed. Editing the address clears the token ID.
func (m *model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case focusAddress:
		before := m.addressInput.Value()
		m.addressInput, cmd = m.addressInput.Update(msg)
		if m.addressInput.Value() != before {
			m.tokenInput.SetValue("")
			m.submit()
		}
	case focusToken:
		before := m.tokenInput.Value()
		m.tokenInput, cmd = m.tokenInput.Update(msg)
		if m.tokenInput.Value() != before {
			m.submit()
		}
	}
	return cmd
}

func (m *model) submit() {
	m.coord.SetQuery(m.ctx, m.query())
}

func (m *model) selectChain(idx int) {
	n := len(m.chains)
	m.chainIdx = ((idx % n) + n) % n
	m.config.SelectedChain = m.activeChain().ID
	m.submit()
}

func (m *model) visibleFields() []focusField {
	fields := []focusField{focusChain, focusAddress}
	if tokenFieldVisible(m.tokenInput.Value(), m.state) {
		fields = append(fields, focusToken)
	}
	return fields
}

func (m *model) cycleFocus(delta int) {
	fields := m.visibleFields()
	pos := 0
	for i, f := range fields {
		if f == m.focus {
			pos = i
		}
	}
	n := len(fields)
	m.setFocus(fields[((pos+delta)%n+n)%n])
}

func (m *model) setFocus(f focusField) {
	m.focus = f
	m.addressInput.Blur()
	m.tokenInput.Blur()
	switch f {
	case focusAddress:
		m.addressInput.Focus()
	case focusToken:
		m.tokenInput.Focus()
	}
}

func (m *model) download() tea.Cmd {
	ok, isOk := m.state.(loader.Ok)
	if !isOk || len(ok.Balances) == 0 {
		m.statusMsg = "Nothing to download"
		return clearStatusAfter(2 * time.Second)
	}
	chain := m.activeChain()
	dir := m.config.ExportDir
	logger := m.logger
	return func() tea.Msg {
		path, err := export.WriteFile(dir, chain, ok.Query, ok.Balances)
		if err != nil {
			logger.Warn("CSV export failed", zap.Error(err))
		} else {
			logger.Info("CSV exported", zap.String("path", path), zap.Int("holders", len(ok.Balances)))
		}
		return exportedMsg{path: path, err: err}
	}
}

func (m *model) copyCSV() {
	if !canDownload(m.state) {
		m.statusMsg = "Nothing to copy"
		return
	}
	if err := clipboard.WriteAll(export.CSV(holders(m.state))); err != nil {
		m.statusMsg = "Failed to copy to clipboard"
		return
	}
	m.statusMsg = "CSV copied to clipboard!"
}

func (m *model) toggleTheme() tea.Cmd {
	dark := !m.styles.dark
	m.styles = newStyles(dark)
	m.config.Theme = config.ThemeLight
	if dark {
		m.config.Theme = config.ThemeDark
	}

	if m.configPath == "" {
		return nil
	}
	cfg, path := m.config, m.configPath
	return func() tea.Msg {
		return configSavedMsg{err: config.SaveConfig(cfg, path)}
	}
}

func (m *model) resizeViewport() {
	w := m.width - 6
	if w < 20 {
		w = 20
	}
	h := m.height - 18
	if h < 3 {
		h = 3
	}
	m.viewport.Width = w
	m.viewport.Height = h
}

func (m *model) refreshViewport() {
	if ok, isOk := m.state.(loader.Ok); isOk {
		m.viewport.SetContent(holderTable(ok))
	} else {
		m.viewport.SetContent("")
	}
	m.viewport.GotoTop()
}
