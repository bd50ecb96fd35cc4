package vault

import (
	"math"

	"github.com/estatevault/vaultmeter/internal/domain"
)

// OnboardingThreshold is the number of filled categories below which the
// onboarding hint is shown.
const OnboardingThreshold = 3

// Weights assigns each category its share of the completion score.
type Weights map[domain.Category]float64

// Targets is the count at which a category is considered fully done.
type Targets map[domain.Category]int

// DefaultWeights splits 100 points evenly across categories.
func DefaultWeights() Weights {
	w := make(Weights, len(domain.Categories))
	share := 100.0 / float64(len(domain.Categories))
	for _, c := range domain.Categories {
		w[c] = share
	}
	return w
}

// DefaultTargets expects a handful of entries per category.
func DefaultTargets() Targets {
	return Targets{
		domain.CategoryContacts:    3,
		domain.CategoryAccounts:    10,
		domain.CategoryDevices:     2,
		domain.CategoryEstates:     2,
		domain.CategoryDocuments:   3,
		domain.CategoryFamilyKnows: 1,
	}
}

// Completion computes the weighted completion percentage. Each category
// contributes weight * min(count, target)/target; missing weights or targets
// fall back to the defaults. The result is rounded and clamped to [0, 100].
func Completion(counts domain.Counts, weights Weights, targets Targets) int {
	defaultWeights := DefaultWeights()
	defaults := DefaultTargets()

	total := 0.0
	for _, c := range domain.Categories {
		n := counts[c]
		if n <= 0 {
			continue
		}
		target := targets[c]
		if target <= 0 {
			target = defaults[c]
		}
		if n > target {
			n = target
		}
		weight, ok := weights[c]
		if !ok {
			weight = defaultWeights[c]
		}
		total += weight * float64(n) / float64(target)
	}

	pct := int(math.Round(total))
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

// FilledCount returns how many categories have at least one entry.
func FilledCount(counts domain.Counts) int {
	filled := 0
	for _, c := range domain.Categories {
		if counts[c] > 0 {
			filled++
		}
	}
	return filled
}

// ShowOnboarding reports whether the vault is still sparse enough to nudge
// the user through onboarding.
func ShowOnboarding(counts domain.Counts) bool {
	return FilledCount(counts) < OnboardingThreshold
}
