package domain

// VaultStore persists category counts and completion snapshots per profile.
type VaultStore interface {
	// === Counts ===
	GetCounts(profile string) (Counts, bool)
	SaveCounts(profile string, counts Counts) error

	// === Snapshots (keyed profile:{name}:snap:{unix nanos}) ===
	AddSnapshot(snap Snapshot) error
	LatestSnapshot(profile string) (Snapshot, bool)
	Snapshots(profile string) ([]Snapshot, error)

	// === Profile removal ===
	DeleteProfile(profile string)

	// === Lifecycle ===
	Close() error
}
