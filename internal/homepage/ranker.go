package homepage

import (
	"bytes"
	"slices"

	"github.com/google/uuid"

	"github.com/newsgrid/newsgrid/internal/domain"
)

// RankedCategory is one scored entry in the per-request category order.
type RankedCategory struct {
	Category     *domain.Category
	ArticleCount int64
	TotalViews   int64
	Score        int64
}

// Ranker orders a domain's categories by content volume and engagement and
// hands them out without reuse, so the category backing one section is never
// recycled for another within the same response.
//
// Score formula: articleCount*2 + totalViews/100 (integer division).
// Categories with zero articles are dropped. Equal scores order by category
// ID ascending so the ranking is deterministic.
type Ranker struct {
	ranked []RankedCategory
	next   int
}

func NewRanker(stats []domain.CategoryStat, categories map[uuid.UUID]*domain.Category) *Ranker {
	ranked := make([]RankedCategory, 0, len(stats))
	for _, st := range stats {
		if st.ArticleCount <= 0 {
			continue
		}
		cat, ok := categories[st.CategoryID]
		if !ok || cat.DeletedAt != nil {
			continue
		}
		ranked = append(ranked, RankedCategory{
			Category:     cat,
			ArticleCount: st.ArticleCount,
			TotalViews:   st.TotalViews,
			Score:        st.ArticleCount*2 + st.TotalViews/100,
		})
	}

	slices.SortStableFunc(ranked, func(a, b RankedCategory) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		return bytes.Compare(a.Category.ID[:], b.Category.ID[:])
	})

	return &Ranker{ranked: ranked}
}

// TakeNext returns up to n categories not yet handed out and marks them used.
func (r *Ranker) TakeNext(n int) []RankedCategory {
	if n <= 0 || r.next >= len(r.ranked) {
		return nil
	}
	end := min(r.next+n, len(r.ranked))
	out := r.ranked[r.next:end]
	r.next = end
	return out
}

// TakeOne is the single-category case of TakeNext.
func (r *Ranker) TakeOne() (RankedCategory, bool) {
	got := r.TakeNext(1)
	if len(got) == 0 {
		return RankedCategory{}, false
	}
	return got[0], true
}

// Remaining returns how many categories are still unallocated.
func (r *Ranker) Remaining() int {
	return len(r.ranked) - r.next
}

// RemainingSlugs lists unallocated category slugs in rank order, without
// consuming them. The dedup cascade walks these as fallback candidates.
func (r *Ranker) RemainingSlugs() []string {
	slugs := make([]string, 0, r.Remaining())
	for _, rc := range r.ranked[r.next:] {
		slugs = append(slugs, rc.Category.Slug)
	}
	return slugs
}
