package tui

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/rota/internal/config"
	"github.com/javiermolinar/rota/internal/db"
	"github.com/javiermolinar/rota/internal/shift"
	"github.com/javiermolinar/rota/internal/tui/commands"
)

// InitState tracks whether startup initialization is required.
type InitState struct {
	NeedsInit     bool
	ConfigMissing bool
	DBMissing     bool
	ConfigPath    string
	DBPath        string
}

// DetectInitState checks for missing config or database files.
func DetectInitState(cfg *config.Config) (InitState, error) {
	state := InitState{
		ConfigPath: config.DefaultConfigPath(),
		DBPath:     cfg.Storage.DBPath,
	}

	configMissing, err := pathMissing(state.ConfigPath)
	if err != nil {
		return InitState{}, fmt.Errorf("checking config path: %w", err)
	}
	dbMissing, err := pathMissing(state.DBPath)
	if err != nil {
		return InitState{}, fmt.Errorf("checking db path: %w", err)
	}

	state.ConfigMissing = configMissing
	state.DBMissing = dbMissing
	state.NeedsInit = configMissing || dbMissing
	return state, nil
}

func pathMissing(path string) (bool, error) {
	if path == "" {
		return true, nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	return false, err
}

func openRepo(dbPath string) (shift.Repository, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path is empty")
	}
	repo, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return repo, nil
}

// initializeStorage writes the missing config, opens the database and
// starts loading the roster.
func (m Model) initializeStorage() (Model, tea.Cmd, error) {
	if m.initState.ConfigMissing {
		if err := m.config.SaveTo(m.initState.ConfigPath); err != nil {
			return m, nil, fmt.Errorf("saving config: %w", err)
		}
	}

	if m.repo == nil {
		repo, err := openRepo(m.initState.DBPath)
		if err != nil {
			return m, nil, err
		}
		m.attach(repo)
	}

	m.initState = InitState{}
	m.mode = ModeNormal
	m.modalType = ModalNone
	m.layoutCache = m.buildLayoutCache(m.width, m.height)
	return m, commands.LoadShifts(m.repo), nil
}
