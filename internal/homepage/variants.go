package homepage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/newsgrid/newsgrid/internal/domain"
	"github.com/newsgrid/newsgrid/internal/resolver"
)

// build is the per-request assembly state shared by a strategy and its
// section helpers.
type build struct {
	c     *Composer
	site  *resolver.Site
	scope domain.ArticleScope
	lang  *domain.Language
	feeds *FeedBuilder
	alloc *Allocator
	total int64

	// latestOffset advances by each latest-section's limit so adjacent
	// latest feeds read disjoint windows.
	latestOffset int

	ranker       *Ranker
	inferredOnce bool
	inferred     []string
}

// ranked lazily builds the category ranker from the scoped analytics
// aggregates. Stats and category lookups are primary queries; their errors
// propagate.
func (b *build) ranked(ctx context.Context) (*Ranker, error) {
	if b.ranker != nil {
		return b.ranker, nil
	}

	stats, err := b.c.articles.CategoryStats(ctx, b.scope)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(stats))
	for _, st := range stats {
		ids = append(ids, st.CategoryID)
	}

	byID := make(map[uuid.UUID]*domain.Category, len(ids))
	if len(ids) > 0 {
		cats, listErr := b.c.categories.ListByIDs(ctx, ids)
		if listErr != nil {
			return nil, fmt.Errorf("rank categories: %w", listErr)
		}
		for _, cat := range cats {
			byID[cat.ID] = cat
		}
	}

	b.ranker = NewRanker(stats, byID)
	return b.ranker, nil
}

// fallbackSlugs lists the candidate categories phase 2 of the cascade walks:
// unallocated ranked categories when a ranker exists, else the domain's
// declared categories, else categories inferred from recent content.
func (b *build) fallbackSlugs(ctx context.Context) ([]string, error) {
	if b.ranker != nil {
		return b.ranker.RemainingSlugs(), nil
	}
	if b.inferredOnce {
		return b.inferred, nil
	}

	var ids []uuid.UUID
	if b.scope.Restricted() {
		ids = b.scope.AllowedCategoryIDs
	} else {
		recent, err := b.feeds.Latest(ctx, 24, 0)
		if err != nil {
			return nil, err
		}
		seen := make(map[uuid.UUID]struct{})
		for _, a := range recent {
			if a.CategoryID == nil {
				continue
			}
			if _, ok := seen[*a.CategoryID]; ok {
				continue
			}
			seen[*a.CategoryID] = struct{}{}
			ids = append(ids, *a.CategoryID)
		}
	}

	b.inferredOnce = true
	if len(ids) == 0 {
		return nil, nil
	}

	cats, err := b.c.categories.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fallback categories: %w", err)
	}
	for _, cat := range cats {
		if cat.DeletedAt == nil {
			b.inferred = append(b.inferred, cat.Slug)
		}
	}
	return b.inferred, nil
}

func (b *build) fetchPrimary(ctx context.Context, kind domain.QueryKind, slugs []string, limit int) ([]*domain.Article, error) {
	switch kind {
	case domain.QueryLatest:
		offset := b.latestOffset
		b.latestOffset += limit
		return b.feeds.Latest(ctx, limit, offset)
	case domain.QueryMostRead:
		return b.feeds.MostRead(ctx, limit, b.alloc.UsedArticles())
	case domain.QueryTrending:
		return b.feeds.Trending(ctx, limit)
	case domain.QueryBreaking:
		return b.feeds.Breaking(ctx, limit)
	case domain.QueryCategory:
		if len(slugs) == 0 {
			return nil, nil
		}
		return b.feeds.ByCategorySlug(ctx, slugs[0], limit+overFetchMargin(limit))
	case domain.QueryMultiCategory:
		var out []*domain.Article
		for _, slug := range slugs {
			rows, err := b.feeds.ByCategorySlug(ctx, slug, limit)
			if err != nil {
				return nil, err
			}
			out = append(out, rows...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("query kind %q: %w", kind, domain.ErrUnsupportedVariant)
	}
}

// buildSection assembles one section: primary fetch per the query kind, then
// the four-phase cascade. A tenant with nothing published short-circuits to
// the explicit no-content indicator without fabricating items.
func (b *build) buildSection(ctx context.Context, key, title, sectionType string, kind domain.QueryKind, slugs []string, limit, position int) (*Section, error) {
	sec := &Section{
		Key:      key,
		Title:    title,
		Type:     sectionType,
		Position: position,
		Query:    string(kind),
		Articles: []ArticleItem{},
	}
	if kind == domain.QueryCategory && len(slugs) > 0 {
		sec.CategorySlug = slugs[0]
	}

	if b.total == 0 {
		sec.Empty = true
		sec.Message = noContentMessage
		return sec, nil
	}

	primary, err := b.fetchPrimary(ctx, kind, slugs, limit)
	if err != nil {
		return nil, err
	}
	if kind == domain.QueryCategory && len(slugs) > 0 && len(primary) > 0 {
		b.alloc.MarkCategoryUsed(slugs[0])
	}

	fallback, err := b.fallbackSlugs(ctx)
	if err != nil {
		return nil, err
	}

	articles, err := b.alloc.FillSection(ctx, b.feeds, primary, fallback, limit)
	if err != nil {
		return nil, err
	}

	sec.Articles = toItems(articles)
	if len(articles) == 0 {
		sec.Empty = true
		sec.Message = noContentMessage
	}
	return sec, nil
}

func (b *build) categorySection(ctx context.Context, rc RankedCategory, key, sectionType string, limit, position int) (*Section, error) {
	sec, err := b.buildSection(ctx, key, rc.Category.Name, sectionType, domain.QueryCategory, []string{rc.Category.Slug}, limit, position)
	if err != nil {
		return nil, err
	}
	sec.categoryID = &rc.Category.ID
	return sec, nil
}

// ---------------------------------------------------------------------------
// legacy — the default shape served when no variant is requested.
// ---------------------------------------------------------------------------

type legacyVariant struct{}

func (*legacyVariant) version() string { return "legacy" }
func (*legacyVariant) theme() string   { return "classic" }

func (*legacyVariant) build(ctx context.Context, b *build) ([]*Section, error) {
	sections := make([]*Section, 0, 5)

	hero, err := b.buildSection(ctx, "hero", "Breaking", "hero", domain.QueryBreaking, nil, 5, 0)
	if err != nil {
		return nil, err
	}
	sections = append(sections, hero)

	center, err := b.buildSection(ctx, "center-latest", "Latest", "list", domain.QueryLatest, nil, 6, 1)
	if err != nil {
		return nil, err
	}
	sections = append(sections, center)

	rail, err := b.buildSection(ctx, "most-read", "Most Read", "rail", domain.QueryMostRead, nil, 5, 2)
	if err != nil {
		return nil, err
	}
	sections = append(sections, rail)

	ranker, err := b.ranked(ctx)
	if err != nil {
		return nil, err
	}
	for i, rc := range ranker.TakeNext(2) {
		sec, catErr := b.categorySection(ctx, rc, "category-"+rc.Category.Slug, "list", 4, 3+i)
		if catErr != nil {
			return nil, catErr
		}
		sections = append(sections, sec)
	}

	return sections, nil
}

// ---------------------------------------------------------------------------
// style1 (v1) — left panel, center feed, trending widget, category grid.
// ---------------------------------------------------------------------------

type style1Variant struct{}

func (*style1Variant) version() string { return "v1" }
func (*style1Variant) theme() string   { return "style1" }

func (*style1Variant) build(ctx context.Context, b *build) ([]*Section, error) {
	sections := make([]*Section, 0, 6)

	ranker, err := b.ranked(ctx)
	if err != nil {
		return nil, err
	}

	if rc, ok := ranker.TakeOne(); ok {
		left, catErr := b.categorySection(ctx, rc, "left-panel", "panel", 4, 0)
		if catErr != nil {
			return nil, catErr
		}
		sections = append(sections, left)
	}

	center, err := b.buildSection(ctx, "center-latest", "Latest", "list", domain.QueryLatest, nil, 6, 1)
	if err != nil {
		return nil, err
	}
	sections = append(sections, center)

	trending, err := b.buildSection(ctx, "trending", "Trending", "widget", domain.QueryTrending, nil, 5, 2)
	if err != nil {
		return nil, err
	}
	sections = append(sections, trending)

	for i, rc := range ranker.TakeNext(3) {
		sec, catErr := b.categorySection(ctx, rc, "grid-"+rc.Category.Slug, "grid", 3, 3+i)
		if catErr != nil {
			return nil, catErr
		}
		sections = append(sections, sec)
	}

	return sections, nil
}

// ---------------------------------------------------------------------------
// style2 v2 — analytics-driven: ranked categories carry the page.
// ---------------------------------------------------------------------------

type style2AnalyticsVariant struct{}

func (*style2AnalyticsVariant) version() string { return "v2" }
func (*style2AnalyticsVariant) theme() string   { return "style2" }

func (v *style2AnalyticsVariant) build(ctx context.Context, b *build) ([]*Section, error) {
	return analyticsSections(ctx, b)
}

func analyticsSections(ctx context.Context, b *build) ([]*Section, error) {
	sections := make([]*Section, 0, 7)

	strip, err := b.buildSection(ctx, "breaking-strip", "Breaking", "strip", domain.QueryBreaking, nil, 3, 0)
	if err != nil {
		return nil, err
	}
	sections = append(sections, strip)

	ranker, err := b.ranked(ctx)
	if err != nil {
		return nil, err
	}
	for i, rc := range ranker.TakeNext(4) {
		sec, catErr := b.categorySection(ctx, rc, "category-"+rc.Category.Slug, "block", 4, 1+i)
		if catErr != nil {
			return nil, catErr
		}
		sections = append(sections, sec)
	}

	mostRead, err := b.buildSection(ctx, "most-read", "Most Read", "rail", domain.QueryMostRead, nil, 6, 5)
	if err != nil {
		return nil, err
	}
	sections = append(sections, mostRead)

	more, err := b.buildSection(ctx, "more-latest", "More News", "list", domain.QueryLatest, nil, 8, 6)
	if err != nil {
		return nil, err
	}
	sections = append(sections, more)

	return sections, nil
}

// ---------------------------------------------------------------------------
// style2 v3 — DB-driven: admin section configs define the layout, falling
// back to the analytics layout when the domain has no active rows. A config
// fetch error propagates; only genuine absence falls through.
// ---------------------------------------------------------------------------

type style2DBVariant struct{}

func (*style2DBVariant) version() string { return "v3" }
func (*style2DBVariant) theme() string   { return "style2" }

func (v *style2DBVariant) build(ctx context.Context, b *build) ([]*Section, error) {
	configs, err := b.c.domains.SectionConfigs(ctx, b.site.Domain.ID)
	if err != nil {
		return nil, fmt.Errorf("section configs: %w", err)
	}

	active := make([]*domain.SectionConfig, 0, len(configs))
	for _, cfg := range configs {
		if cfg.IsActive {
			active = append(active, cfg)
		}
	}
	if len(active) == 0 {
		return analyticsSections(ctx, b)
	}

	sections := make([]*Section, 0, len(active))
	for _, cfg := range active {
		limit := cfg.ArticleLimit
		if limit <= 0 {
			limit = 5
		}
		sec, secErr := b.buildSection(ctx, cfg.Key, "", cfg.SectionType, cfg.QueryKind, cfg.CategorySlugs, limit, cfg.Position)
		if secErr != nil {
			return nil, secErr
		}
		sections = append(sections, sec)
	}
	return sections, nil
}
