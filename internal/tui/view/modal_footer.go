package view

// ShiftFormFooter renders the footer for the shift form modal.
func ShiftFormFooter(styles ModalStyles) string {
	return RenderModalButtonsCompact(styles, "[Enter] Save", "[Tab] Next", "[Esc] Cancel")
}

// ShiftDetailFooter renders the footer for the shift detail modal.
func ShiftDetailFooter(styles ModalStyles) string {
	return RenderModalButtonsCompact(styles, "[e] Edit", "[d] Delete", "[Esc] Close")
}

// ConfirmDeleteFooter renders the footer for the confirm delete modal.
func ConfirmDeleteFooter(styles ModalStyles) string {
	return RenderModalButtons(styles, "[y/Enter] Confirm", "[n/Esc] Cancel")
}

// InitFooter renders the footer for the init modal.
func InitFooter(styles ModalStyles) string {
	return RenderModalButtons(styles, "[Enter] Allow", "[Esc] Quit")
}
