package homepage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/newsgrid/newsgrid/internal/domain"
)

// overFetchMargin compensates exclusion-aware queries for ids that will be
// filtered out. Heuristic tuning constant; the phase ordering in the dedup
// cascade is the load-bearing part, not this number.
func overFetchMargin(limit int) int {
	return limit/2 + 4
}

// FeedBuilder runs the typed fetch operations for one request, with the
// tenant/domain/language scope fixed at construction so every query applies
// identical predicates.
type FeedBuilder struct {
	articles   domain.ArticleRepository
	categories domain.CategoryRepository
	scope      domain.ArticleScope
}

func NewFeedBuilder(articles domain.ArticleRepository, categories domain.CategoryRepository, scope domain.ArticleScope) *FeedBuilder {
	return &FeedBuilder{articles: articles, categories: categories, scope: scope}
}

func (f *FeedBuilder) Scope() domain.ArticleScope {
	return f.scope
}

// Latest returns articles ordered published desc. Adjacent feeds pass
// disjoint offsets (center offset 0, rail offset = center limit) so they do
// not trivially overlap before deduplication even runs.
func (f *FeedBuilder) Latest(ctx context.Context, limit, offset int) ([]*domain.Article, error) {
	out, err := f.articles.ListLatest(ctx, f.scope, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("homepage.FeedBuilder.Latest: %w", err)
	}
	return out, nil
}

// MostRead returns articles ordered by view count, skipping ids in exclude.
// Over-fetches to compensate for exclusions, then truncates.
func (f *FeedBuilder) MostRead(ctx context.Context, limit int, exclude map[uuid.UUID]struct{}) ([]*domain.Article, error) {
	fetch := limit
	if len(exclude) > 0 {
		fetch += overFetchMargin(limit)
	}

	rows, err := f.articles.ListMostRead(ctx, f.scope, fetch)
	if err != nil {
		return nil, fmt.Errorf("homepage.FeedBuilder.MostRead: %w", err)
	}

	out := make([]*domain.Article, 0, limit)
	for _, a := range rows {
		if _, used := exclude[a.ID]; used {
			continue
		}
		out = append(out, a)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Trending is MostRead without exclusion.
func (f *FeedBuilder) Trending(ctx context.Context, limit int) ([]*domain.Article, error) {
	rows, err := f.articles.ListMostRead(ctx, f.scope, limit)
	if err != nil {
		return nil, fmt.Errorf("homepage.FeedBuilder.Trending: %w", err)
	}
	return rows, nil
}

// ByCategorySlug resolves slug within the domain's allowed set (globally when
// the domain declares no restriction) and lists its articles. Unknown,
// soft-deleted, or disallowed slugs yield an empty feed, not an error.
func (f *FeedBuilder) ByCategorySlug(ctx context.Context, slug string, limit int) ([]*domain.Article, error) {
	cat, err := f.categories.GetBySlug(ctx, f.scope.TenantID, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("homepage.FeedBuilder.ByCategorySlug(%q): %w", slug, err)
	}
	if !f.scope.AllowsCategory(&cat.ID) {
		return nil, nil
	}

	rows, err := f.articles.ListByCategory(ctx, f.scope, cat.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("homepage.FeedBuilder.ByCategorySlug(%q): %w", slug, err)
	}
	return rows, nil
}

// Breaking filters on the explicit breaking flag.
func (f *FeedBuilder) Breaking(ctx context.Context, limit int) ([]*domain.Article, error) {
	rows, err := f.articles.ListBreaking(ctx, f.scope, limit)
	if err != nil {
		return nil, fmt.Errorf("homepage.FeedBuilder.Breaking: %w", err)
	}
	return rows, nil
}
