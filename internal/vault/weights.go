package vault

import (
	"fmt"
	"strings"

	"github.com/estatevault/vaultmeter/internal/domain"
)

// ParseWeights converts config keys to categories. Unknown names are an error.
func ParseWeights(raw map[string]float64) (Weights, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	w := make(Weights, len(raw))
	for name, v := range raw {
		cat, err := exactCategory(name)
		if err != nil {
			return nil, err
		}
		if v < 0 {
			return nil, fmt.Errorf("weight for %s must not be negative, got %v", cat, v)
		}
		w[cat] = v
	}
	return w, nil
}

// ParseTargets converts config keys to categories. Unknown names are an error.
func ParseTargets(raw map[string]int) (Targets, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	t := make(Targets, len(raw))
	for name, n := range raw {
		cat, err := exactCategory(name)
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("target for %s must be positive, got %d", cat, n)
		}
		t[cat] = n
	}
	return t, nil
}

func exactCategory(name string) (domain.Category, error) {
	cat := domain.Category(strings.ToLower(strings.TrimSpace(name)))
	if !isKnown(cat) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownCategory, name)
	}
	return cat, nil
}
