package usecase

import (
	"context"
	"fmt"

	"NewsPortal/internal/domain"
	"NewsPortal/internal/ports"
)

// dedupPrefixRunes is how much of a candidate title is compared against stored titles.
const dedupPrefixRunes = 30

// DedupFilter matches stored breaking articles whose title equals title or
// contains its first 30 characters, ignoring case.
func DedupFilter(title string) ports.Filter {
	prefix := []rune(title)
	if len(prefix) > dedupPrefixRunes {
		prefix = prefix[:dedupPrefixRunes]
	}
	return ports.Filter{
		All: []ports.Predicate{ports.Eq(ports.FieldIsBreaking, true)},
		Any: []ports.Predicate{
			ports.Eq(ports.FieldTitle, title),
			ports.ContainsFold(ports.FieldTitle, string(prefix)),
		},
	}
}

// IsDuplicate reports whether a breaking article with a matching title is already stored.
func IsDuplicate(ctx context.Context, store ports.ArticleStore, c domain.Candidate) (bool, error) {
	existing, err := store.FindOne(ctx, DedupFilter(c.Title))
	if err != nil {
		return false, fmt.Errorf("dedup lookup %q: %w", c.Title, err)
	}
	return existing != nil, nil
}
