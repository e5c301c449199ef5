// Package homepage implements the content aggregation engine: typed article
// feeds, category ranking, per-response deduplication with a four-phase
// fallback cascade, and the variant-dispatched section composer.
package homepage

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/newsgrid/newsgrid/internal/domain"
	"github.com/newsgrid/newsgrid/internal/resolver"
)

// noContentMessage marks a section that stayed empty because the tenant has
// nothing published, as opposed to an error.
const noContentMessage = "no content available for this section"

type ArticleItem struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt,omitempty"`
	CoverImage  string    `json:"coverImage,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Breaking    bool      `json:"breaking,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	ViewCount   int64     `json:"viewCount"`
}

type Section struct {
	Key          string        `json:"key"`
	Title        string        `json:"title,omitempty"`
	Type         string        `json:"type"`
	Position     int           `json:"position"`
	Query        string        `json:"query"`
	CategorySlug string        `json:"categorySlug,omitempty"`
	Articles     []ArticleItem `json:"articles"`
	Empty        bool          `json:"empty,omitempty"`
	Message      string        `json:"message,omitempty"`

	categoryID *uuid.UUID // for translation enrichment, not serialized
}

type TenantInfo struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	DefaultLanguage string    `json:"defaultLanguage"`
}

type PageLink struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type AdItem struct {
	Placement string `json:"placement"`
	ImageURL  string `json:"imageUrl"`
	TargetURL string `json:"targetUrl"`
}

// Homepage is the version-tagged response envelope. The section tree's layout
// depends on the selected contract variant; the envelope fields do not.
type Homepage struct {
	Version     string     `json:"version"`
	Theme       string     `json:"theme"`
	Tenant      TenantInfo `json:"tenant"`
	Domain      string     `json:"domain"`
	Language    string     `json:"language,omitempty"`
	Sections    []*Section `json:"sections"`
	Links       []PageLink `json:"links,omitempty"`
	Ads         []AdItem   `json:"ads,omitempty"`
	GeneratedAt time.Time  `json:"generatedAt"`
}

// strategy is one contract variant. Variants are mutually exclusive terminal
// strategies: selecting one fully determines the response shape.
type strategy interface {
	version() string
	theme() string
	build(ctx context.Context, b *build) ([]*Section, error)
}

// Composer dispatches a request onto a contract variant and assembles the
// ordered section tree.
type Composer struct {
	articles   domain.ArticleRepository
	categories domain.CategoryRepository
	domains    domain.DomainRepository
	pages      domain.StaticPageRepository
	ads        domain.AdRepository
	variants   map[string]strategy
}

func NewComposer(
	articles domain.ArticleRepository,
	categories domain.CategoryRepository,
	domains domain.DomainRepository,
	pages domain.StaticPageRepository,
	ads domain.AdRepository,
) *Composer {
	c := &Composer{
		articles:   articles,
		categories: categories,
		domains:    domains,
		pages:      pages,
		ads:        ads,
		variants:   make(map[string]strategy),
	}
	for _, s := range []strategy{&legacyVariant{}, &style1Variant{}, &style2AnalyticsVariant{}, &style2DBVariant{}} {
		c.variants[s.version()] = s
	}
	return c
}

// selectVariant maps the shape/v request parameters onto a strategy.
// legacy is the default; style1 is v1; style2 splits into the analytics v2
// and DB-driven v3 sub-variants. Anything else is a client error raised
// before any repository call.
func (c *Composer) selectVariant(shape, v string) (strategy, error) {
	var key string
	switch shape {
	case "", "legacy":
		if v != "" {
			return nil, fmt.Errorf("homepage: shape %q with v=%q: %w", shape, v, domain.ErrUnsupportedVariant)
		}
		key = "legacy"
	case "style1":
		if v != "" && v != "1" {
			return nil, fmt.Errorf("homepage: shape %q with v=%q: %w", shape, v, domain.ErrUnsupportedVariant)
		}
		key = "v1"
	case "style2":
		switch v {
		case "", "2":
			key = "v2"
		case "3":
			key = "v3"
		default:
			return nil, fmt.Errorf("homepage: shape %q with v=%q: %w", shape, v, domain.ErrUnsupportedVariant)
		}
	default:
		return nil, fmt.Errorf("homepage: shape %q: %w", shape, domain.ErrUnsupportedVariant)
	}
	return c.variants[key], nil
}

// Compose builds the full homepage for one request. Article query failures
// propagate; peripheral enrichment failures are swallowed with defaults.
func (c *Composer) Compose(ctx context.Context, site *resolver.Site, shape, v, lang string) (*Homepage, error) {
	strat, err := c.selectVariant(shape, v)
	if err != nil {
		return nil, err
	}

	var language *domain.Language
	if lang != "" {
		language = site.Language(lang)
		if language == nil {
			return nil, fmt.Errorf("homepage: language %q: %w", lang, domain.ErrInvalidLanguage)
		}
	}

	var langID *uuid.UUID
	if language != nil {
		langID = &language.ID
	}
	scope := site.Scope(langID)

	total, err := c.articles.CountPublished(ctx, site.Tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("homepage.Compose: count published: %w", err)
	}

	b := &build{
		c:     c,
		site:  site,
		scope: scope,
		lang:  language,
		feeds: NewFeedBuilder(c.articles, c.categories, scope),
		alloc: NewAllocator(),
		total: total,
	}

	sections, err := strat.build(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("homepage.Compose: variant %s: %w", strat.version(), err)
	}

	slices.SortStableFunc(sections, func(a, b *Section) int { return a.Position - b.Position })

	hp := &Homepage{
		Version: strat.version(),
		Theme:   strat.theme(),
		Tenant: TenantInfo{
			ID:              site.Tenant.ID,
			Name:            site.Tenant.Name,
			Slug:            site.Tenant.Slug,
			DefaultLanguage: site.Tenant.DefaultLanguage,
		},
		Domain:      site.Domain.Hostname,
		Sections:    sections,
		GeneratedAt: time.Now().UTC(),
	}
	if language != nil {
		hp.Language = language.Code
	}

	c.enrich(ctx, hp, b)

	return hp, nil
}

// enrich decorates the envelope with category translations, static page
// links, and ad placements. All of it is peripheral: failures log a warning
// and leave defaults in place so the homepage still renders.
func (c *Composer) enrich(ctx context.Context, hp *Homepage, b *build) {
	if b.lang != nil {
		var ids []uuid.UUID
		for _, sec := range hp.Sections {
			if sec.categoryID != nil {
				ids = append(ids, *sec.categoryID)
			}
		}
		if len(ids) > 0 {
			translated, err := c.categories.Translations(ctx, ids, b.lang.Code)
			if err != nil {
				log.Warn().Err(err).Str("lang", b.lang.Code).Msg("category translation lookup failed, serving default names")
			} else {
				for _, sec := range hp.Sections {
					if sec.categoryID == nil {
						continue
					}
					if name, ok := translated[*sec.categoryID]; ok {
						sec.Title = name
					}
				}
			}
		}
	}

	pages, err := c.pages.ListPublished(ctx, b.site.Tenant.ID)
	if err != nil {
		log.Warn().Err(err).Msg("static page lookup failed, omitting footer links")
	} else {
		for _, p := range pages {
			hp.Links = append(hp.Links, PageLink{Slug: p.Slug, Title: p.Title})
		}
	}

	ads, err := c.ads.ListByPlacement(ctx, b.site.Domain.ID, "homepage")
	if err != nil {
		log.Warn().Err(err).Msg("ads lookup failed, omitting placements")
	} else {
		for _, ad := range ads {
			hp.Ads = append(hp.Ads, AdItem{Placement: ad.Placement, ImageURL: ad.ImageURL, TargetURL: ad.TargetURL})
		}
	}
}

func toItems(articles []*domain.Article) []ArticleItem {
	items := make([]ArticleItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, ArticleItem{
			ID:          a.ID,
			Slug:        a.Slug,
			Title:       a.Title,
			Excerpt:     a.Excerpt,
			CoverImage:  a.CoverImage,
			Tags:        a.Tags,
			Breaking:    a.Breaking,
			PublishedAt: a.PublishedAt,
			ViewCount:   a.ViewCount,
		})
	}
	return items
}
