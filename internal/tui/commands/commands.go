// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/rota/internal/importer"
	"github.com/javiermolinar/rota/internal/shift"
)

// ShiftsLoadedMsg is sent when the roster has been read from storage.
type ShiftsLoadedMsg struct {
	Shifts []*shift.Shift
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadShifts reads every shift from the repository.
func LoadShifts(repo shift.Repository) tea.Cmd {
	return func() tea.Msg {
		if repo == nil {
			return ErrMsg{Err: fmt.Errorf("no repository")}
		}
		shifts, err := repo.ListShifts(context.Background())
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading shifts: %w", err)}
		}
		return ShiftsLoadedMsg{Shifts: shifts}
	}
}

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

// CopyRoster copies the shifts to the clipboard in tabular text form.
func CopyRoster(shifts []*shift.Shift) tea.Cmd {
	return func() tea.Msg {
		if len(shifts) == 0 {
			return StatusMsgCmd{Msg: "Nothing to copy"}
		}
		if err := clipboardWrite(importer.FormatCSV(shifts)); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsgCmd{Msg: fmt.Sprintf("Copied %d shifts", len(shifts))}
	}
}
