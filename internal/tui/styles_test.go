package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/rota/internal/shift"
	"github.com/javiermolinar/rota/internal/tui/theme"
)

func testTheme() *theme.Theme {
	return &theme.Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Warning:     "#ff00ff",
		Error:       "#ee0000",
		Base:        "#00ff00",
		NightCall:   "#0000ff",
		DayCall:     "#ffff00",
		Teaching:    "#00ffff",
		Supervision: "#ff8800",
	}
}

func assertBg(t *testing.T, name string, style lipgloss.Style, want string) {
	t.Helper()
	bg, ok := style.GetBackground().(lipgloss.Color)
	if !ok {
		t.Fatalf("%s background type = %T, want lipgloss.Color", name, style.GetBackground())
	}
	if bg != lipgloss.Color(want) {
		t.Fatalf("%s background = %q, want %q", name, bg, want)
	}
}

func TestStylesBackgroundCoverage(t *testing.T) {
	palette := testTheme()
	styles := NewStyles(palette)

	assertBg(t, "EmptyCellStyle", styles.EmptyCellStyle, palette.Bg)
	assertBg(t, "DayHeaderStyle", styles.DayHeaderStyle, palette.Bg)
	assertBg(t, "WeekLabelStyle", styles.WeekLabelStyle, palette.Bg)
	assertBg(t, "LegendStyle", styles.LegendStyle, palette.Bg)
	assertBg(t, "StatusStyle", styles.StatusStyle, palette.Bg)
	assertBg(t, "CursorCellStyle", styles.CursorCellStyle, palette.BgSelection)
	assertBg(t, "ChipSelectedStyle", styles.ChipSelectedStyle, palette.Accent)
	assertBg(t, "DropPreviewStyle", styles.DropPreviewStyle, palette.Warning)
}

func TestChipStylesPerType(t *testing.T) {
	styles := NewStyles(testTheme())
	derived := theme.NewPalette(testTheme())

	for _, typ := range shift.Types() {
		t.Run(string(typ), func(t *testing.T) {
			assertBg(t, "chip", styles.ChipStyle(typ, false), string(derived.TypeBg[typ]))
			assertBg(t, "alt chip", styles.ChipStyle(typ, true), string(derived.TypeBgAlt[typ]))
			assertBg(t, "ghost", styles.GhostStyle(typ), string(derived.TypeGhost[typ]))
			if styles.ChipStyle(typ, false).GetBackground() == styles.ChipStyle(typ, true).GetBackground() {
				t.Error("adjacent chips share a background")
			}
		})
	}
}

func TestChipStyleUnknownTypeFallsBack(t *testing.T) {
	styles := NewStyles(testTheme())
	if got := styles.ChipStyle(shift.Type("bogus"), false); got.GetBackground() != styles.ChipSelectedStyle.GetBackground() {
		t.Errorf("unknown type background = %v", got.GetBackground())
	}
	if got := styles.GhostStyle(shift.Type("bogus")); got.GetForeground() != styles.MoreStyle.GetForeground() {
		t.Errorf("unknown ghost foreground = %v", got.GetForeground())
	}
}

func TestBuildLayoutCache_FooterBackground(t *testing.T) {
	palette := testTheme()
	m := Model{styles: NewStyles(palette)}

	layout := m.buildLayoutCache(100, 40)
	assertBg(t, "LegendStyle", layout.LegendStyle, palette.Bg)
	if got := layout.StatusStyle.GetWidth(); got != 100 {
		t.Fatalf("StatusStyle width = %d, want 100", got)
	}
	if layout.Grid.Weeks != 4 || layout.Grid.Days != 7 {
		t.Errorf("grid = %+v, want default 4x7", layout.Grid)
	}
}

func TestViewPaintsBackgroundInTrueColor(t *testing.T) {
	prevProfile := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(prevProfile)
	})

	m := newTestModel(t)
	addShift(t, m, "Ana", "2026-01-07", "09:00", "17:00")

	out := m.View()
	if !strings.Contains(out, "\x1b[48;2;") {
		t.Fatal("view has no true-colour background sequences")
	}
	if !strings.Contains(ansi.Strip(out), "09:00 Ana") {
		t.Error("chip text lost when rendering with colour")
	}
}
