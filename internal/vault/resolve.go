package vault

import (
	"fmt"
	"strings"

	"github.com/estatevault/vaultmeter/internal/domain"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ResolveCategory maps loose user input ("docs", "Family", "accts") to a
// category. Exact names win; otherwise the closest fuzzy match over names and
// display names is used.
func ResolveCategory(name string) (domain.Category, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return "", fmt.Errorf("%w: empty name", domain.ErrUnknownCategory)
	}

	candidates := make([]string, 0, len(domain.Categories)*2)
	owners := make(map[string]domain.Category, len(domain.Categories)*2)
	for _, c := range domain.Categories {
		if query == string(c) {
			return c, nil
		}
		for _, s := range []string{string(c), strings.ToLower(c.DisplayName())} {
			candidates = append(candidates, s)
			owners[s] = c
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(query, candidates)
	if len(ranks) == 0 {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownCategory, name)
	}

	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return owners[best.Target], nil
}
