package homepage

import (
	"context"

	"github.com/google/uuid"

	"github.com/newsgrid/newsgrid/internal/domain"
)

// Allocator carries the per-response deduplication state: which articles and
// which categories have already been placed. It lives for one response build
// and is never persisted or shared.
type Allocator struct {
	usedArticles   map[uuid.UUID]struct{}
	usedCategories map[string]struct{}
}

func NewAllocator() *Allocator {
	return &Allocator{
		usedArticles:   make(map[uuid.UUID]struct{}),
		usedCategories: make(map[string]struct{}),
	}
}

// UsedArticles exposes the used-id set for exclusion-aware queries.
func (a *Allocator) UsedArticles() map[uuid.UUID]struct{} {
	return a.usedArticles
}

func (a *Allocator) MarkCategoryUsed(slug string) {
	a.usedCategories[slug] = struct{}{}
}

func (a *Allocator) CategoryUsed(slug string) bool {
	_, ok := a.usedCategories[slug]
	return ok
}

// Fill appends candidates not yet used globally (marking them used) to dst
// until want is reached or candidates run out. With allowRepeats, ids used by
// earlier sections may be re-emitted without being re-marked, but an article
// never appears twice within dst itself.
func (a *Allocator) Fill(dst, candidates []*domain.Article, want int, allowRepeats bool) []*domain.Article {
	inSection := make(map[uuid.UUID]struct{}, len(dst))
	for _, art := range dst {
		inSection[art.ID] = struct{}{}
	}

	for _, art := range candidates {
		if len(dst) >= want {
			break
		}
		if _, dup := inSection[art.ID]; dup {
			continue
		}
		_, used := a.usedArticles[art.ID]
		if used && !allowRepeats {
			continue
		}
		if !used {
			a.usedArticles[art.ID] = struct{}{}
		}
		dst = append(dst, art)
		inSection[art.ID] = struct{}{}
	}

	return dst
}

// FillSection runs the four-phase fallback cascade for one section:
//
//  1. take the primary candidates (already fetched per the section's query);
//  2. if that produced nothing, walk the remaining unused fallback
//     categories until one yields any unused article;
//  3. if still short, backfill from the latest pool ignoring category;
//  4. if still short, repeat phase 3 with repeats allowed, so a section only
//     renders empty when the corpus itself is empty.
//
// Query errors propagate untouched; the cascade absorbs emptiness only.
func (a *Allocator) FillSection(ctx context.Context, feeds *FeedBuilder, primary []*domain.Article, fallbackSlugs []string, want int) ([]*domain.Article, error) {
	out := a.Fill(nil, primary, want, false)

	if len(out) == 0 {
		for _, slug := range fallbackSlugs {
			if a.CategoryUsed(slug) {
				continue
			}
			rows, err := feeds.ByCategorySlug(ctx, slug, want+overFetchMargin(want))
			if err != nil {
				return nil, err
			}
			out = a.Fill(out, rows, want, false)
			if len(out) > 0 {
				a.MarkCategoryUsed(slug)
				break
			}
		}
	}

	if len(out) < want {
		// The backfill pool must reach past everything earlier sections
		// consumed, otherwise repeats kick in while unused supply still
		// exists deeper in the latest ordering.
		poolSize := want + overFetchMargin(want) + len(a.usedArticles)
		latest, err := feeds.Latest(ctx, poolSize, 0)
		if err != nil {
			return nil, err
		}
		out = a.Fill(out, latest, want, false)

		if len(out) < want {
			out = a.Fill(out, latest, want, true)
		}
	}

	return out, nil
}
