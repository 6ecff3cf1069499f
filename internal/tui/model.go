// Package tui provides the terminal roster grid.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/rota/internal/compliance"
	"github.com/javiermolinar/rota/internal/config"
	"github.com/javiermolinar/rota/internal/dateutil"
	"github.com/javiermolinar/rota/internal/grid"
	"github.com/javiermolinar/rota/internal/interact"
	"github.com/javiermolinar/rota/internal/roster"
	"github.com/javiermolinar/rota/internal/shift"
	"github.com/javiermolinar/rota/internal/tui/commands"
	"github.com/javiermolinar/rota/internal/tui/theme"
)

// Mode represents the current input mode. Grab and drag sessions are
// owned by the interaction controller, not by Mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeModal
)

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalShiftDetail
	ModalShiftForm
	ModalConfirmDelete
	ModalInit
)

// pointerPress is a mouse press on a shift that has not become a drag yet.
type pointerPress struct {
	shift *shift.Shift
	cell  shift.Cell
}

// clickSink receives click intents from the controller during one Update.
type clickSink struct {
	clicked *shift.Shift
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo   shift.Repository
	svc    *roster.Service
	config *config.Config
	log    *zap.Logger

	// Interaction
	ctrl    *interact.Controller
	intents *roster.Intents
	clicks  *clickSink

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// State
	cursor   shift.Cell // focused cell
	chip     int        // focused shift within the cell
	mode     Mode
	loading  bool
	press    *pointerPress
	dragOver *shift.Cell

	// Modal state
	modalType  ModalType
	modalShift *shift.Shift
	form       shiftForm
	initState  InitState
	initError  string

	// Terminal dimensions and layout
	width       int
	height      int
	layoutCache LayoutCache

	// Messages
	statusMsg  string
	statusTime time.Time

	err error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithInitState sets the startup initialization state.
func WithInitState(state InitState) ModelOption {
	return func(m *Model) {
		m.initState = state
		if state.NeedsInit {
			m.mode = ModeModal
			m.modalType = ModalInit
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *zap.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// New creates a new TUI model. repo may be nil while first-run
// initialization is pending.
func New(repo shift.Repository, cfg *config.Config, opts ...ModelOption) *Model {
	if cfg == nil {
		cfg = config.Default()
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}

	m := &Model{
		config: cfg,
		log:    zap.NewNop(),
		theme:  t,
		styles: NewStyles(t),
		mode:   ModeNormal,
	}
	for _, opt := range opts {
		opt(m)
	}
	if repo != nil {
		m.attach(repo)
	}
	m.layoutCache = m.buildLayoutCache(0, 0)
	return m
}

// attach builds the roster service and interaction controller over repo.
func (m *Model) attach(repo shift.Repository) {
	cal, err := m.config.Calendar()
	if err != nil {
		m.log.Warn("invalid roster start date, using the current week", zap.Error(err))
		cal, _ = dateutil.NewCalendar("", m.config.Roster.Weeks)
	}

	m.repo = repo
	m.svc = roster.New(repo, compliance.NewValidator(m.config.Rules()), cal, roster.WithLogger(m.log))
	m.clicks = &clickSink{}
	m.intents = m.svc.Handler(context.Background())
	clicks := m.clicks
	m.intents.OnClick = func(s *shift.Shift) { clicks.clicked = s }
	m.ctrl = interact.New(m.intents,
		interact.WithGrid(cal.Weeks, grid.DefaultDays),
		interact.WithLogger(m.log),
	)
	m.loading = true
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.initState.NeedsInit || m.repo == nil {
		return nil
	}
	return commands.LoadShifts(m.repo)
}

func (m Model) weeks() int {
	if m.svc == nil {
		if m.config != nil && m.config.Roster.Weeks > 0 {
			return m.config.Roster.Weeks
		}
		return grid.DefaultWeeks
	}
	return m.svc.Calendar().Weeks
}

func (m Model) days() int {
	return grid.DefaultDays
}

// Run starts the TUI. log receives debug events; nil disables logging.
func Run(cfg *config.Config, log *zap.Logger) error {
	state, err := DetectInitState(cfg)
	if err != nil {
		return err
	}

	var repo shift.Repository
	if !state.NeedsInit {
		repo, err = openRepo(state.DBPath)
		if err != nil {
			return err
		}
	}

	model := New(repo, cfg, WithInitState(state), WithLogger(log))
	p := tea.NewProgram(*model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if m, ok := finalModel.(Model); ok && m.repo != nil {
		_ = m.repo.Close()
	} else if repo != nil {
		_ = repo.Close()
	}
	return err
}
