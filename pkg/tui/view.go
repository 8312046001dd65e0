package tui

import (
	"fmt"
	"strings"

	"holdersnap/pkg/chains"
	"holdersnap/pkg/loader"
	"holdersnap/pkg/utils"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

func (m model) View() string {
	if m.showHelp {
		return m.viewHelp()
	}

	s := m.styles
	header := s.title.Render("📸 Holder Snapshot")
	subtitle := s.subtle.Render("Download a CSV snapshot of any token's holders")

	form := lipgloss.JoinHorizontal(lipgloss.Top, m.viewChainSelector(), " ", m.viewAddressField())
	sections := []string{header, subtitle, "", form}
	if tokenFieldVisible(m.tokenInput.Value(), m.state) {
		sections = append(sections, m.viewTokenField())
	}
	sections = append(sections, "", m.viewState())

	footer := s.subtle.Render(fmt.Sprintf("tab: field • ←/→: chain • ctrl+s: save csv • ctrl+y: copy • ctrl+g: graph • ctrl+t: theme • f1: help • esc: quit • v%s", Version))
	if m.statusMsg != "" {
		footer = lipgloss.JoinVertical(lipgloss.Left, s.info.Render(m.statusMsg), footer)
	}
	sections = append(sections, "", footer)

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m model) fieldBox(f focusField) lipgloss.Style {
	if m.focus == f {
		return m.styles.focusedBox
	}
	return m.styles.box
}

func (m model) viewChainSelector() string {
	s := m.styles
	chain := m.activeChain()
	body := lipgloss.JoinVertical(lipgloss.Left,
		s.subtle.Render("Select a chain"),
		fmt.Sprintf("◀ %s ▶", s.chain(chain).Width(14).Align(lipgloss.Center).Render(chain.Name)),
	)
	return m.fieldBox(focusChain).Render(body)
}

func (m model) viewAddressField() string {
	s := m.styles
	lines := []string{s.subtle.Render("Enter any contract address"), m.addressInput.View()}
	if msg := errorMessage(m.state); msg != "" {
		lines = append(lines, s.err.Render(utils.TruncateString(msg, 60)))
	}
	return m.fieldBox(focusAddress).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m model) viewTokenField() string {
	s := m.styles
	lines := []string{s.subtle.Render("Optionally, enter a specific token ID"), m.tokenInput.View()}
	if problem := tokenIDProblem(m.tokenInput.Value()); problem != "" {
		lines = append(lines, s.err.Render(problem))
	}
	return m.fieldBox(focusToken).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m model) viewState() string {
	s := m.styles
	switch st := m.state.(type) {
	case loader.Fetching:
		return fmt.Sprintf("%s Fetching holders of %s on %s...",
			m.spinner.View(), utils.ShortAddress(st.Query.Address), s.chain(m.activeChain()).Render(m.activeChain().Name))
	case loader.Error:
		return s.err.Render("Could not load holders.")
	case loader.Ok:
		return m.viewResult(st)
	default:
		return s.subtle.Render("Enter a contract address to load its holders.")
	}
}

func (m model) viewSummary(ok loader.Ok) string {
	s := m.styles
	sum := loader.Summarize(ok)
	chainStyle := s.subtle
	if c, found := chains.ByID(ok.Query.Chain); found {
		chainStyle = s.chain(c)
	}

	line := fmt.Sprintf("%s contract %s on %s has %d unique %s",
		s.info.Render(sum.Type),
		s.positive.Render(sum.Contract),
		chainStyle.Render(sum.Chain),
		sum.Holders,
		sum.HolderNoun(),
	)
	if sum.Token != "" {
		line += " of token " + s.positive.Render(sum.Token)
	}
	return line + "."
}

func (m model) viewResult(ok loader.Ok) string {
	s := m.styles
	download := s.subtle.Render("Download CSV (no holders)")
	if canDownload(ok) {
		download = s.positive.Render("ctrl+s: Download CSV")
	}
	total := s.subtle.Render(fmt.Sprintf("Total held: %s", utils.FormatBigFloat(totalSupplyHeld(ok), 2)))

	var body string
	if m.showGraph {
		body = m.viewGraph(ok)
	} else {
		head := s.tableHeader.Render(fmt.Sprintf("%5s  %-42s  %24s", "#", "ADDRESS", "BALANCE"))
		body = lipgloss.JoinVertical(lipgloss.Left, head, m.viewport.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewSummary(ok),
		lipgloss.JoinHorizontal(lipgloss.Top, download, "   ", total),
		"",
		s.box.Render(body),
	)
}

func (m model) viewGraph(ok loader.Ok) string {
	values := distribution(ok)
	if len(values) < 2 {
		return "Not enough holders to draw graph."
	}
	width := m.viewport.Width - 12
	if width < 10 {
		width = 10
	}
	height := m.viewport.Height - 2
	if height < 1 {
		height = 1
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("Balance distribution (top %d holders)", len(values))),
	)
}

func (m model) viewHelp() string {
	s := m.styles
	shortcuts := []string{
		"tab / shift+tab: Next / previous field",
		"←/→ (chain field): Change chain",
		"↑/↓ pgup/pgdown: Scroll holders",
		"ctrl+r: Reload current contract",
		"ctrl+s: Save CSV to " + m.config.ExportDir,
		"ctrl+y: Copy CSV to clipboard",
		"ctrl+g: Toggle distribution graph",
		"ctrl+t: Toggle dark / light theme",
		"f1: Toggle help",
		"esc / ctrl+c: Quit",
	}

	header := s.title.Render("Help")
	content := s.focusedBox.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(shortcuts, "\n")))
	footer := s.subtle.Render("Press 'f1' or 'esc' to close")

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, content, "", footer),
	)
}
