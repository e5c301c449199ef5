package homepage_test

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/newsgrid/newsgrid/internal/domain"
	"github.com/newsgrid/newsgrid/internal/resolver"
)

// ---------------------------------------------------------------------------
// In-memory ArticleRepository with real scoping and ordering semantics, plus
// per-operation error injection and call counting.
// ---------------------------------------------------------------------------

type memArticleRepo struct {
	articles []*domain.Article
	errOn    map[string]error
	calls    map[string]int
}

func newMemArticleRepo(articles ...*domain.Article) *memArticleRepo {
	return &memArticleRepo{
		articles: articles,
		errOn:    make(map[string]error),
		calls:    make(map[string]int),
	}
}

func (m *memArticleRepo) op(name string) error {
	m.calls[name]++
	return m.errOn[name]
}

func (m *memArticleRepo) scoped(scope domain.ArticleScope) []*domain.Article {
	var out []*domain.Article
	for _, a := range m.articles {
		if a.TenantID != scope.TenantID || a.Status != domain.ArticleStatusPublished {
			continue
		}
		if a.DomainID != nil && *a.DomainID != scope.DomainID {
			continue
		}
		if scope.LanguageID != nil && a.LanguageID != nil && *a.LanguageID != *scope.LanguageID {
			continue
		}
		if !scope.AllowsCategory(a.CategoryID) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func byLatest(articles []*domain.Article) []*domain.Article {
	out := slices.Clone(articles)
	slices.SortStableFunc(out, func(a, b *domain.Article) int {
		if !a.PublishedAt.Equal(b.PublishedAt) {
			return b.PublishedAt.Compare(a.PublishedAt)
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func window(articles []*domain.Article, limit, offset int) []*domain.Article {
	if offset >= len(articles) {
		return nil
	}
	end := min(offset+limit, len(articles))
	return articles[offset:end]
}

func (m *memArticleRepo) ListLatest(_ context.Context, scope domain.ArticleScope, limit, offset int) ([]*domain.Article, error) {
	if err := m.op("ListLatest"); err != nil {
		return nil, err
	}
	return window(byLatest(m.scoped(scope)), limit, offset), nil
}

func (m *memArticleRepo) ListMostRead(_ context.Context, scope domain.ArticleScope, limit int) ([]*domain.Article, error) {
	if err := m.op("ListMostRead"); err != nil {
		return nil, err
	}
	out := m.scoped(scope)
	slices.SortStableFunc(out, func(a, b *domain.Article) int {
		if a.ViewCount != b.ViewCount {
			if a.ViewCount > b.ViewCount {
				return -1
			}
			return 1
		}
		return b.PublishedAt.Compare(a.PublishedAt)
	})
	return window(out, limit, 0), nil
}

func (m *memArticleRepo) ListByCategory(_ context.Context, scope domain.ArticleScope, categoryID uuid.UUID, limit int) ([]*domain.Article, error) {
	if err := m.op("ListByCategory"); err != nil {
		return nil, err
	}
	var out []*domain.Article
	for _, a := range m.scoped(scope) {
		if a.CategoryID != nil && *a.CategoryID == categoryID {
			out = append(out, a)
		}
	}
	return window(byLatest(out), limit, 0), nil
}

func (m *memArticleRepo) ListBreaking(_ context.Context, scope domain.ArticleScope, limit int) ([]*domain.Article, error) {
	if err := m.op("ListBreaking"); err != nil {
		return nil, err
	}
	var out []*domain.Article
	for _, a := range m.scoped(scope) {
		if a.Breaking {
			out = append(out, a)
		}
	}
	return window(byLatest(out), limit, 0), nil
}

func (m *memArticleRepo) CategoryStats(_ context.Context, scope domain.ArticleScope) ([]domain.CategoryStat, error) {
	if err := m.op("CategoryStats"); err != nil {
		return nil, err
	}
	agg := make(map[uuid.UUID]*domain.CategoryStat)
	var order []uuid.UUID
	for _, a := range m.scoped(scope) {
		if a.CategoryID == nil {
			continue
		}
		st, ok := agg[*a.CategoryID]
		if !ok {
			st = &domain.CategoryStat{CategoryID: *a.CategoryID}
			agg[*a.CategoryID] = st
			order = append(order, *a.CategoryID)
		}
		st.ArticleCount++
		st.TotalViews += a.ViewCount
	}
	out := make([]domain.CategoryStat, 0, len(order))
	for _, id := range order {
		out = append(out, *agg[id])
	}
	return out, nil
}

func (m *memArticleRepo) CountPublished(_ context.Context, tenantID uuid.UUID) (int64, error) {
	if err := m.op("CountPublished"); err != nil {
		return 0, err
	}
	var n int64
	for _, a := range m.articles {
		if a.TenantID == tenantID && a.Status == domain.ArticleStatusPublished {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// In-memory CategoryRepository
// ---------------------------------------------------------------------------

type memCategoryRepo struct {
	categories   []*domain.Category
	translations map[uuid.UUID]map[string]string
	errOn        map[string]error
}

func newMemCategoryRepo(categories ...*domain.Category) *memCategoryRepo {
	return &memCategoryRepo{
		categories:   categories,
		translations: make(map[uuid.UUID]map[string]string),
		errOn:        make(map[string]error),
	}
}

func (m *memCategoryRepo) GetBySlug(_ context.Context, tenantID uuid.UUID, slug string) (*domain.Category, error) {
	if err := m.errOn["GetBySlug"]; err != nil {
		return nil, err
	}
	for _, c := range m.categories {
		if c.TenantID == tenantID && c.Slug == slug && c.DeletedAt == nil {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCategoryRepo) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Category, error) {
	if err := m.errOn["ListByIDs"]; err != nil {
		return nil, err
	}
	var out []*domain.Category
	for _, c := range m.categories {
		if slices.Contains(ids, c.ID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCategoryRepo) Translations(_ context.Context, categoryIDs []uuid.UUID, languageCode string) (map[uuid.UUID]string, error) {
	if err := m.errOn["Translations"]; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]string)
	for _, id := range categoryIDs {
		if name, ok := m.translations[id][languageCode]; ok {
			out[id] = name
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// In-memory DomainRepository (only SectionConfigs matters to the composer)
// ---------------------------------------------------------------------------

type memDomainRepo struct {
	sections []*domain.SectionConfig
	errOn    map[string]error
}

func (m *memDomainRepo) GetByHostname(context.Context, string) (*domain.Domain, error) {
	return nil, domain.ErrNotFound
}

func (m *memDomainRepo) GetAnyActiveByTenantSlug(context.Context, string) (*domain.Domain, error) {
	return nil, domain.ErrNotFound
}

func (m *memDomainRepo) GetAnyActiveByTenantID(context.Context, uuid.UUID) (*domain.Domain, error) {
	return nil, domain.ErrNotFound
}

func (m *memDomainRepo) GetNewestActive(context.Context) (*domain.Domain, error) {
	return nil, domain.ErrNotFound
}

func (m *memDomainRepo) AllowedCategoryIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (m *memDomainRepo) AllowedLanguages(context.Context, uuid.UUID) ([]*domain.Language, error) {
	return nil, nil
}

func (m *memDomainRepo) SectionConfigs(context.Context, uuid.UUID) ([]*domain.SectionConfig, error) {
	if m.errOn != nil {
		if err := m.errOn["SectionConfigs"]; err != nil {
			return nil, err
		}
	}
	return m.sections, nil
}

// ---------------------------------------------------------------------------
// In-memory page and ad repositories
// ---------------------------------------------------------------------------

type memPageRepo struct {
	pages []*domain.StaticPage
	err   error
}

func (m *memPageRepo) GetPublished(_ context.Context, tenantID uuid.UUID, slug string) (*domain.StaticPage, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.pages {
		if p.TenantID == tenantID && p.Slug == slug && p.Published {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPageRepo) ListPublished(_ context.Context, tenantID uuid.UUID) ([]*domain.StaticPage, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.StaticPage
	for _, p := range m.pages {
		if p.TenantID == tenantID && p.Published {
			out = append(out, p)
		}
	}
	return out, nil
}

type memAdRepo struct {
	ads []*domain.Ad
	err error
}

func (m *memAdRepo) ListByPlacement(_ context.Context, domainID uuid.UUID, placement string) ([]*domain.Ad, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Ad
	for _, ad := range m.ads {
		if ad.DomainID == domainID && ad.Placement == placement && ad.IsActive {
			out = append(out, ad)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Fixture helpers
// ---------------------------------------------------------------------------

type corpus struct {
	tenant *domain.Tenant
	site   *resolver.Site

	articles   *memArticleRepo
	categories *memCategoryRepo
	domains    *memDomainRepo
	pages      *memPageRepo
	ads        *memAdRepo
}

func newCorpus() *corpus {
	tenant := &domain.Tenant{ID: uuid.New(), Name: "Daily Planet", Slug: "daily-planet", DefaultLanguage: "en"}
	d := &domain.Domain{ID: uuid.New(), TenantID: tenant.ID, Hostname: "news.example.com", Status: domain.DomainStatusActive}
	return &corpus{
		tenant: tenant,
		site: &resolver.Site{
			Tenant:     tenant,
			Domain:     d,
			ResolvedAt: time.Now(),
		},
		articles:   newMemArticleRepo(),
		categories: newMemCategoryRepo(),
		domains:    &memDomainRepo{},
		pages:      &memPageRepo{},
		ads:        &memAdRepo{},
	}
}

func (c *corpus) addCategory(slug, name string) *domain.Category {
	cat := &domain.Category{ID: uuid.New(), TenantID: c.tenant.ID, Slug: slug, Name: name}
	c.categories.categories = append(c.categories.categories, cat)
	return cat
}

func (c *corpus) addLanguage(code string) *domain.Language {
	lang := &domain.Language{ID: uuid.New(), Code: code, Name: code}
	c.site.AllowedLanguages = append(c.site.AllowedLanguages, lang)
	return lang
}

// addArticle appends a published article. age controls publication recency:
// smaller age means newer.
func (c *corpus) addArticle(title string, cat *domain.Category, age time.Duration, views int64, breaking bool) *domain.Article {
	a := &domain.Article{
		ID:          uuid.New(),
		TenantID:    c.tenant.ID,
		Slug:        title,
		Title:       title,
		Status:      domain.ArticleStatusPublished,
		Breaking:    breaking,
		PublishedAt: time.Now().Add(-age),
		CreatedAt:   time.Now().Add(-age),
		ViewCount:   views,
	}
	if cat != nil {
		a.CategoryID = &cat.ID
	}
	c.articles.articles = append(c.articles.articles, a)
	return a
}
