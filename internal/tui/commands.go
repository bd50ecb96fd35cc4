package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/estatevault/vaultmeter/internal/domain"
	"github.com/estatevault/vaultmeter/internal/vault"
)

// VaultService is the slice of vault.Service the dashboard needs
type VaultService interface {
	State(profile string) vault.State
	Adjust(profile string, cat domain.Category, delta int) (domain.Counts, error)
	Snapshot(profile string) (domain.Snapshot, error)
	Previous(profile string) (domain.Snapshot, error)
}

// LoadCountsCmd reads counts and completion for profile
func LoadCountsCmd(svc VaultService, profile string) tea.Cmd {
	return func() tea.Msg {
		return countsLoaded(svc.State(profile))
	}
}

// AdjustCountCmd changes one category count and reports the new totals
func AdjustCountCmd(svc VaultService, profile string, cat domain.Category, delta int) tea.Cmd {
	return func() tea.Msg {
		if _, err := svc.Adjust(profile, cat, delta); err != nil {
			return ErrMsg{Err: err, Context: "update " + cat.DisplayName()}
		}
		return countsLoaded(svc.State(profile))
	}
}

func countsLoaded(st vault.State) CountsLoadedMsg {
	return CountsLoadedMsg{
		Counts:     st.Counts,
		Completion: st.Completion,
		Revision:   st.Revision,
	}
}

// SnapshotCmd records the current completion along with the change since
// the last recorded snapshot
func SnapshotCmd(svc VaultService, profile string) tea.Cmd {
	return func() tea.Msg {
		prev, prevErr := svc.Previous(profile)
		snap, err := svc.Snapshot(profile)
		if err != nil {
			return ErrMsg{Err: err, Context: "save snapshot"}
		}
		msg := SnapshotSavedMsg{Snapshot: snap}
		if prevErr == nil {
			msg.HasPrevious = true
			msg.Delta = snap.Completion - prev.Completion
		}
		return msg
	}
}

// ClearStatusCmd returns a command that clears status id after a delay
func ClearStatusCmd(delay time.Duration, id int) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}
