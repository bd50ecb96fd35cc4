package tui

import "github.com/estatevault/vaultmeter/internal/domain"

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// CountsLoadedMsg carries fresh category counts and the derived completion
type CountsLoadedMsg struct {
	Counts     domain.Counts
	Completion int
	Revision   uint64 // Service revision the counts were read at
}

// SnapshotSavedMsg signals that a completion snapshot was recorded
type SnapshotSavedMsg struct {
	Snapshot    domain.Snapshot
	Delta       int  // Completion change since the previous snapshot
	HasPrevious bool // False for the first snapshot of a profile
}

// ClearStatusMsg clears the status bar message it was scheduled for
type ClearStatusMsg struct {
	ID int
}
