package vault

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/estatevault/vaultmeter/internal/domain"
)

// Service reads and updates category counts and derives completion.
//
// Writes are serialized so concurrent adjustments never lose an update.
// Every write bumps a revision; State reports it alongside the counts so
// callers can discard results that were read before a later write.
type Service struct {
	mu  sync.Mutex
	rev uint64

	store   domain.VaultStore
	weights Weights
	targets Targets
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a vault service over store.
func NewService(store domain.VaultStore, weights Weights, targets Targets, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		weights: weights,
		targets: targets,
		logger:  logger,
		now:     time.Now,
	}
}

// Counts returns the stored counts for profile, empty when none exist.
func (s *Service) Counts(profile string) domain.Counts {
	counts, ok := s.store.GetCounts(profile)
	if !ok || counts == nil {
		return domain.Counts{}
	}
	return counts
}

// Completion returns the completion percentage for profile.
func (s *Service) Completion(profile string) int {
	return Completion(s.Counts(profile), s.weights, s.targets)
}

// State is a consistent read of a profile's counts.
type State struct {
	Counts     domain.Counts
	Completion int
	Revision   uint64
}

// State reads counts and completion together with the current revision.
func (s *Service) State(profile string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := s.Counts(profile)
	return State{
		Counts:     counts,
		Completion: Completion(counts, s.weights, s.targets),
		Revision:   s.rev,
	}
}

// Adjust changes a category count by delta. Counts never drop below zero.
func (s *Service) Adjust(profile string, cat domain.Category, delta int) (domain.Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := s.Counts(profile)
	n := counts[cat] + delta
	if n < 0 {
		n = 0
	}
	return s.set(profile, counts, cat, n)
}

// Set replaces a category count.
func (s *Service) Set(profile string, cat domain.Category, n int) (domain.Counts, error) {
	if n < 0 {
		n = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(profile, s.Counts(profile), cat, n)
}

// Reset deletes every count and snapshot recorded for profile.
func (s *Service) Reset(profile string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.DeleteProfile(profile)
	s.rev++
	s.logger.Info("profile reset", "profile", profile)
}

// set writes one count; callers hold s.mu
func (s *Service) set(profile string, counts domain.Counts, cat domain.Category, n int) (domain.Counts, error) {
	if !isKnown(cat) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, cat)
	}
	counts[cat] = n
	if err := s.store.SaveCounts(profile, counts); err != nil {
		return nil, fmt.Errorf("failed to save counts: %w", err)
	}
	s.rev++
	s.logger.Debug("category count updated", "profile", profile, "category", cat, "count", n)
	return counts, nil
}

// Snapshot computes the current completion for profile and records it.
func (s *Service) Snapshot(profile string) (domain.Snapshot, error) {
	counts := s.Counts(profile)
	snap := domain.Snapshot{
		Profile:    profile,
		Counts:     counts,
		Completion: Completion(counts, s.weights, s.targets),
		Filled:     FilledCount(counts),
		TakenAt:    s.now(),
	}
	if err := s.store.AddSnapshot(snap); err != nil {
		return snap, fmt.Errorf("failed to record snapshot: %w", err)
	}
	s.logger.Info("completion recorded", "profile", profile, "completion", snap.Completion, "filled", snap.Filled)
	return snap, nil
}

// Previous returns the last recorded snapshot for profile.
func (s *Service) Previous(profile string) (domain.Snapshot, error) {
	snap, ok := s.store.LatestSnapshot(profile)
	if !ok {
		return domain.Snapshot{}, fmt.Errorf("%w: %q", domain.ErrProfileNotFound, profile)
	}
	return snap, nil
}

func isKnown(cat domain.Category) bool {
	for _, c := range domain.Categories {
		if c == cat {
			return true
		}
	}
	return false
}
