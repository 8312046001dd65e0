package tui

import (
	"context"

	"holdersnap/pkg/chains"
	"holdersnap/pkg/config"
	"holdersnap/pkg/loader"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Version is set by Start()
var Version = "dev"

// --- Messages ---

type clearStatusMsg struct{}

type exportedMsg struct {
	path string
	err  error
}

type configSavedMsg struct {
	err error
}

type focusField int

const (
	focusChain focusField = iota
	focusAddress
	focusToken
)

// --- Model ---

type model struct {
	ctx          context.Context
	coord        *loader.Coordinator
	sub          loader.Subscriber
	chains       []chains.Chain
	chainIdx     int
	addressInput textinput.Model
	tokenInput   textinput.Model
	focus        focusField
	state        loader.State
	generation   uint64
	config       config.Config
	configPath   string
	styles       styles
	logger       *zap.Logger
	spinner      spinner.Model
	viewport     viewport.Model
	width        int
	height       int
	showHelp     bool
	showGraph    bool
	statusMsg    string
}

func initialModel(ctx context.Context, coord *loader.Coordinator, cfg config.Config, configPath string, logger *zap.Logger) model {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	addr := textinput.New()
	addr.Placeholder = "0x..."
	addr.Width = 44
	addr.CharLimit = 66
	addr.Focus()

	token := textinput.New()
	token.Placeholder = "Token ID (optional)"
	token.Width = 44
	token.CharLimit = 80

	all := chains.All()
	idx := chains.Index(cfg.SelectedChain)
	if idx < 0 {
		idx = chains.Index(chains.Default)
	}

	return model{
		ctx:          ctx,
		coord:        coord,
		sub:          coord.Subscribe(),
		chains:       all,
		chainIdx:     idx,
		addressInput: addr,
		tokenInput:   token,
		focus:        focusAddress,
		state:        coord.State(),
		config:       cfg,
		configPath:   configPath,
		styles:       newStyles(cfg.Theme != config.ThemeLight),
		logger:       logger.Named("TUI"),
		spinner:      s,
		viewport:     viewport.New(0, 0),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(listenForState(m.sub), m.spinner.Tick, textinput.Blink)
}

func (m model) activeChain() chains.Chain {
	return m.chains[m.chainIdx]
}
