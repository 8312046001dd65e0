package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"holdersnap/pkg/chains"
	"holdersnap/pkg/config"
	"holdersnap/pkg/loader"
	"holdersnap/pkg/models"
	"holdersnap/pkg/paging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct{}

func (stubSource) ContractInfo(ctx context.Context, chain chains.ID, address string) (models.ContractInfo, error) {
	return models.ContractInfo{Address: address, Type: "ERC1155", Name: "Stub"}, nil
}

func (stubSource) TokenMetadata(ctx context.Context, chain chains.ID, address, tokenID string) (*models.TokenMetadata, error) {
	return nil, nil
}

func (stubSource) TokenBalances(ctx context.Context, chain chains.ID, address string, page int) (paging.PageInfo, []models.Balance, error) {
	return paging.PageInfo{}, []models.Balance{{AccountAddress: "0xAAA", TokenID: "1", Balance: "10"}}, nil
}

func newTestModel(t *testing.T, configPath string) (model, *loader.Coordinator) {
	t.Helper()
	coord := loader.NewCoordinator(stubSource{}, 0, nil)
	m := initialModel(context.Background(), coord, config.Default(), configPath, nil)
	t.Cleanup(func() {
		coord.Wait()
		coord.Unsubscribe(m.sub)
	})
	return m, coord
}

func typeRunes(m model, s string) model {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(model)
	}
	return m
}

func press(m model, k tea.KeyType) (model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(model), cmd
}

func TestInitialModel(t *testing.T) {
	m, _ := newTestModel(t, "")
	assert.Equal(t, chains.Polygon, m.activeChain().ID)
	assert.Equal(t, focusAddress, m.focus)
	assert.Equal(t, loader.Empty{}, m.state)
	assert.True(t, m.styles.dark)
}

func TestTypingAddressStartsLoad(t *testing.T) {
	m, coord := newTestModel(t, "")
	m = typeRunes(m, "c0ffee")

	assert.Equal(t, models.Query{Chain: chains.Polygon, Address: "0xc0ffee"}, coord.Query())
}

func TestEditingAddressClearsTokenID(t *testing.T) {
	m, coord := newTestModel(t, "")
	m.tokenInput.SetValue("42")
	m = typeRunes(m, "a")

	assert.Empty(t, m.tokenInput.Value())
	assert.Equal(t, "", coord.Query().TokenID)
}

func TestChainSelection(t *testing.T) {
	m, coord := newTestModel(t, "")
	m = typeRunes(m, "0xc0ffee")

	m, _ = press(m, tea.KeyShiftTab)
	require.Equal(t, focusChain, m.focus)

	m, _ = press(m, tea.KeyRight)
	assert.Equal(t, chains.BSC, m.activeChain().ID)
	assert.Equal(t, chains.BSC, coord.Query().Chain)

	m, _ = press(m, tea.KeyLeft)
	m, _ = press(m, tea.KeyLeft)
	assert.Equal(t, chains.Mainnet, m.activeChain().ID)
	m, _ = press(m, tea.KeyLeft)
	assert.Equal(t, chains.Gnosis, m.activeChain().ID)
	assert.Equal(t, chains.Gnosis, m.config.SelectedChain)
}

func TestStateEventUpdatesModel(t *testing.T) {
	m, _ := newTestModel(t, "")
	ok := loader.Ok{
		Query:        models.Query{Chain: chains.Polygon, Address: "0xc0ffee"},
		ContractInfo: models.ContractInfo{Type: "ERC1155"},
		Balances:     []models.Balance{{AccountAddress: "0xAAA", Balance: "10"}},
	}

	next, cmd := m.Update(loader.Event{Type: loader.EventStateChanged, Generation: 3, State: ok})
	m = next.(model)
	assert.NotNil(t, cmd)
	assert.Equal(t, ok, m.state)
	assert.Equal(t, uint64(3), m.generation)

	// ERC1155 contracts expose the token field.
	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, focusToken, m.focus)

	// Losing the ERC1155 state hides the field and moves focus back.
	next, _ = m.Update(loader.Event{Type: loader.EventStateChanged, Generation: 4, State: loader.Empty{}})
	m = next.(model)
	assert.Equal(t, focusAddress, m.focus)
}

func TestStaleEventShowsLatestState(t *testing.T) {
	m, coord := newTestModel(t, "")
	require.True(t, coord.SetQuery(context.Background(), models.Query{Chain: chains.Polygon, Address: "0xc0ffee"}))
	coord.Wait()

	// Only the Fetching event reaches the model; the Ok event was dropped.
	next, _ := m.Update(loader.Event{Type: loader.EventStateChanged, Generation: 1, State: loader.Fetching{}})
	m = next.(model)

	ok, isOk := m.state.(loader.Ok)
	require.True(t, isOk, "got %T", m.state)
	assert.Len(t, ok.Balances, 1)
	assert.Equal(t, uint64(1), m.generation)
}

func TestDownloadDisabledWithoutHolders(t *testing.T) {
	m, _ := newTestModel(t, "")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(model)
	assert.Equal(t, "Nothing to download", m.statusMsg)
}

func TestDownloadWritesCSV(t *testing.T) {
	m, _ := newTestModel(t, "")
	m.config.ExportDir = t.TempDir()
	m.state = loader.Ok{
		Query:    models.Query{Chain: chains.Polygon, Address: "0xc0ffee"},
		Balances: []models.Balance{{AccountAddress: "0xAAA", Balance: "10"}},
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	msg, ok := cmd().(exportedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)

	data, err := os.ReadFile(msg.path)
	require.NoError(t, err)
	assert.Equal(t, "address,balance\n0xAAA,10", string(data))
}

func TestToggleThemePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	m, _ := newTestModel(t, path)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = next.(model)
	assert.False(t, m.styles.dark)
	assert.Equal(t, config.ThemeLight, m.config.Theme)

	require.NotNil(t, cmd)
	saved, ok := cmd().(configSavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)

	cfg, err := config.LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.ThemeLight, cfg.Theme)
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t, "")
	m, _ = press(m, tea.KeyF1)
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Help")

	m, _ = press(m, tea.KeyEsc)
	assert.False(t, m.showHelp)
}

func TestViewShowsSummary(t *testing.T) {
	m, _ := newTestModel(t, "")
	next, _ := m.Update(loader.Event{Type: loader.EventStateChanged, Generation: 1, State: loader.Ok{
		Query:        models.Query{Chain: chains.Polygon, Address: "0xc0ffee"},
		ContractInfo: models.ContractInfo{Type: "ERC20", Name: "Stub"},
		Balances:     []models.Balance{{AccountAddress: "0xAAA", Balance: "10"}},
	}})
	m = next.(model)

	view := m.View()
	assert.Contains(t, view, "Stub")
	assert.Contains(t, view, "unique holder")
	assert.Contains(t, view, "Download CSV")
}
