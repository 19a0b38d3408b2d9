package usecase

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"

	"StockReconciler/internal/domain"
)

const defaultSuggestMinScore = 0.85

// SuggestMappings proposes a platform product for every snapshot record that no
// mapping entry claims, using Jaro-Winkler similarity on lowercased names.
// Suggestions below minScore are dropped; the result is sorted by score, best first.
func SuggestMappings(snapshot domain.Snapshot, entries []domain.MappingEntry, products []domain.PlatformProduct, minScore float64) []domain.MappingSuggestion {
	if minScore <= 0 {
		minScore = defaultSuggestMinScore
	}

	claimed := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		claimed[NameKey(entry.ExternalName)] = struct{}{}
	}

	titles := make([]string, len(products))
	for i, p := range products {
		titles[i] = strings.ToLower(strings.TrimSpace(p.Title))
	}

	var suggestions []domain.MappingSuggestion
	for _, rec := range snapshot.Products {
		if _, ok := claimed[NameKey(rec.Name)]; ok {
			continue
		}

		name := strings.ToLower(strings.TrimSpace(rec.Name))
		bestScore, best := 0.0, -1
		for i, title := range titles {
			if title == "" {
				continue
			}
			score := matchr.JaroWinkler(name, title, false)
			if score > bestScore {
				bestScore, best = score, i
			}
		}

		if best < 0 || bestScore < minScore {
			continue
		}
		suggestions = append(suggestions, domain.MappingSuggestion{
			Brand:        rec.Brand,
			ExternalName: rec.Name,
			ProductID:    products[best].ID,
			ProductTitle: products[best].Title,
			Score:        bestScore,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	return suggestions
}
