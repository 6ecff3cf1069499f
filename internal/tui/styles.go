package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/rota/internal/compliance"
	"github.com/javiermolinar/rota/internal/shift"
	"github.com/javiermolinar/rota/internal/tui/theme"
	"github.com/javiermolinar/rota/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorWarning     lipgloss.Color
	colorError       lipgloss.Color

	TitleStyle     lipgloss.Style
	DayHeaderStyle lipgloss.Style
	WeekLabelStyle lipgloss.Style
	WeekDateStyle  lipgloss.Style
	RuleStyle      lipgloss.Style

	// Shift chips, per type. Alt alternates adjacent chips in one cell,
	// Ghost marks the origin of a grabbed or dragged shift.
	Chip      map[shift.Type]lipgloss.Style
	ChipAlt   map[shift.Type]lipgloss.Style
	ChipGhost map[shift.Type]lipgloss.Style

	ChipSelectedStyle lipgloss.Style
	DropPreviewStyle  lipgloss.Style
	EmptyCellStyle    lipgloss.Style
	CursorCellStyle   lipgloss.Style
	MoreStyle         lipgloss.Style

	LegendStyle lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style

	// Modal styles
	ModalStyle             lipgloss.Style
	ModalBgColor           lipgloss.Color
	ModalHeaderStyle       lipgloss.Style
	ModalFooterStyle       lipgloss.Style
	ModalTitleStyle        lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalSectionTitleStyle lipgloss.Style
	ModalTagStyle          lipgloss.Style
	ModalLabelStyle        lipgloss.Style
	ModalInputStyle        lipgloss.Style
	ModalInputFocusedStyle lipgloss.Style
	ModalInputTextStyle    lipgloss.Style
	ModalInputCursorStyle  lipgloss.Style
	ModalPlaceholderStyle  lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style
	ModalHintStyle         lipgloss.Style

	Severity map[compliance.Severity]lipgloss.Style

	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	palette := theme.NewPalette(t)

	s.colorBg = palette.Bg
	s.colorBgHighlight = palette.BgHighlight
	s.colorBgSelection = palette.BgSelection
	s.colorFg = palette.Fg
	s.colorFgMuted = palette.FgMuted
	s.colorAccent = palette.Accent
	s.colorWarning = palette.Warning
	s.colorError = palette.Error

	base := lipgloss.NewStyle().Background(s.colorBg)

	s.TitleStyle = base.
		Bold(true).
		Foreground(s.colorAccent)

	s.DayHeaderStyle = base.
		Bold(true).
		Align(lipgloss.Center).
		Foreground(s.colorFg)

	s.WeekLabelStyle = base.
		Bold(true).
		Foreground(s.colorAccent)

	s.WeekDateStyle = base.Foreground(s.colorFgMuted)

	s.RuleStyle = base.Foreground(s.colorBgSelection)

	s.Chip = make(map[shift.Type]lipgloss.Style)
	s.ChipAlt = make(map[shift.Type]lipgloss.Style)
	s.ChipGhost = make(map[shift.Type]lipgloss.Style)
	for _, typ := range shift.Types() {
		chip := lipgloss.NewStyle().
			Foreground(palette.TypeTextOn[typ]).
			Background(palette.TypeBg[typ])
		s.Chip[typ] = chip
		s.ChipAlt[typ] = chip.Background(palette.TypeBgAlt[typ])
		s.ChipGhost[typ] = lipgloss.NewStyle().
			Foreground(s.colorFgMuted).
			Background(palette.TypeGhost[typ]).
			Italic(true)
	}

	s.ChipSelectedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.TextOnAccent).
		Background(s.colorAccent)

	s.DropPreviewStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.TextOnWarning).
		Background(s.colorWarning)

	s.EmptyCellStyle = base
	s.CursorCellStyle = lipgloss.NewStyle().Background(s.colorBgSelection)
	s.MoreStyle = base.Foreground(s.colorFgMuted)

	s.LegendStyle = base.Foreground(s.colorFgMuted)
	s.StatusStyle = base.Foreground(s.colorFg)
	s.ErrorStyle = base.Foreground(s.colorError).Bold(true)
	s.HelpStyle = base.Foreground(s.colorFgMuted)

	modal := palette.Modal
	s.ModalBgColor = modal.Bg
	modalBase := lipgloss.NewStyle().Background(modal.Bg)

	s.ModalStyle = modalBase.
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.Border).
		BorderBackground(modal.Bg).
		Padding(1, 2)
	s.ModalHeaderStyle = modalBase
	s.ModalFooterStyle = modalBase
	s.ModalTitleStyle = modalBase.Bold(true).Foreground(modal.Text)
	s.ModalBodyStyle = modalBase.Foreground(modal.Text)
	s.ModalSectionTitleStyle = modalBase.Bold(true).Foreground(modal.Muted)
	s.ModalTagStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Panel).
		Padding(0, 1)
	s.ModalLabelStyle = modalBase.Foreground(modal.Muted)
	s.ModalInputStyle = modalBase.Foreground(modal.Text)
	s.ModalInputFocusedStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Panel)
	s.ModalInputTextStyle = lipgloss.NewStyle().Foreground(modal.Text)
	s.ModalInputCursorStyle = lipgloss.NewStyle().Foreground(modal.Highlight)
	s.ModalPlaceholderStyle = lipgloss.NewStyle().Foreground(modal.Muted)
	s.ModalButtonStyle = modalBase.Foreground(modal.Muted)
	s.ModalButtonActiveStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.ReverseText).
		Background(modal.Highlight)
	s.ModalHintStyle = modalBase.Foreground(modal.Muted).Italic(true)

	s.Severity = map[compliance.Severity]lipgloss.Style{
		compliance.SeverityInfo:    modalBase.Foreground(s.colorAccent),
		compliance.SeverityWarning: modalBase.Foreground(s.colorWarning).Bold(true),
		compliance.SeverityError:   modalBase.Foreground(s.colorError).Bold(true),
	}

	s.AppStyle = base

	return s
}

// ChipStyle returns the chip style for typ, alternating shade by position.
func (s *Styles) ChipStyle(typ shift.Type, alt bool) lipgloss.Style {
	set := s.Chip
	if alt {
		set = s.ChipAlt
	}
	if st, ok := set[typ]; ok {
		return st
	}
	return s.ChipSelectedStyle
}

// GhostStyle returns the style of a shift that is being moved.
func (s *Styles) GhostStyle(typ shift.Type) lipgloss.Style {
	if st, ok := s.ChipGhost[typ]; ok {
		return st
	}
	return s.MoreStyle
}

func (s *Styles) modalStyles() view.ModalStyles {
	return view.ModalStyles{
		ModalHeaderStyle:       s.ModalHeaderStyle,
		ModalTitleStyle:        s.ModalTitleStyle,
		ModalFooterStyle:       s.ModalFooterStyle,
		ModalStyle:             s.ModalStyle,
		ModalButtonStyle:       s.ModalButtonStyle,
		ModalButtonActiveStyle: s.ModalButtonActiveStyle,
		ModalBodyStyle:         s.ModalBodyStyle,
	}
}
