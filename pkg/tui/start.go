package tui

import (
	"context"
	"fmt"

	"holdersnap/pkg/config"
	"holdersnap/pkg/loader"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Start runs the interactive front-end until the user quits.
func Start(ctx context.Context, coord *loader.Coordinator, cfg config.Config, configPath, version string, logger *zap.Logger) error {
	Version = version
	m := initialModel(ctx, coord, cfg, configPath, logger)
	defer coord.Unsubscribe(m.sub)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
