package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/newsgrid/newsgrid/internal/domain"
	"github.com/newsgrid/newsgrid/internal/homepage"
	"github.com/newsgrid/newsgrid/internal/resolver"
	"github.com/newsgrid/newsgrid/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject a resolved site into context for DoCtx
// ---------------------------------------------------------------------------

func fixedTenantID() uuid.UUID {
	return uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
}

func fixedSite() *resolver.Site {
	tenantID := fixedTenantID()
	return &resolver.Site{
		Tenant: &domain.Tenant{
			ID:              tenantID,
			Name:            "News Inc",
			Slug:            "news-inc",
			DefaultLanguage: "en",
		},
		Domain: &domain.Domain{
			ID:       uuid.MustParse("11111111-2222-3333-4444-555555555555"),
			TenantID: tenantID,
			Hostname: "news.example.com",
			Status:   domain.DomainStatusActive,
		},
	}
}

func siteCtx(site *resolver.Site) context.Context {
	return context.WithValue(context.Background(), middleware.ContextKeySite, site)
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	tenants    domain.TenantRepository
	domains    domain.DomainRepository
	categories domain.CategoryRepository
	articles   domain.ArticleRepository
	pages      domain.StaticPageRepository
	ads        domain.AdRepository
}

func (m *mockDataStore) Tenants() domain.TenantRepository       { return m.tenants }
func (m *mockDataStore) Domains() domain.DomainRepository       { return m.domains }
func (m *mockDataStore) Categories() domain.CategoryRepository  { return m.categories }
func (m *mockDataStore) Articles() domain.ArticleRepository     { return m.articles }
func (m *mockDataStore) Pages() domain.StaticPageRepository     { return m.pages }
func (m *mockDataStore) Ads() domain.AdRepository               { return m.ads }

// ---------------------------------------------------------------------------
// Mock StaticPageRepository
// ---------------------------------------------------------------------------

type mockPageRepo struct {
	getPublishedFunc  func(ctx context.Context, tenantID uuid.UUID, slug string) (*domain.StaticPage, error)
	listPublishedFunc func(ctx context.Context, tenantID uuid.UUID) ([]*domain.StaticPage, error)
}

func (m *mockPageRepo) GetPublished(ctx context.Context, tenantID uuid.UUID, slug string) (*domain.StaticPage, error) {
	return m.getPublishedFunc(ctx, tenantID, slug)
}

func (m *mockPageRepo) ListPublished(ctx context.Context, tenantID uuid.UUID) ([]*domain.StaticPage, error) {
	return m.listPublishedFunc(ctx, tenantID)
}

// ---------------------------------------------------------------------------
// Mock AdRepository
// ---------------------------------------------------------------------------

type mockAdRepo struct {
	listByPlacementFunc func(ctx context.Context, domainID uuid.UUID, placement string) ([]*domain.Ad, error)
}

func (m *mockAdRepo) ListByPlacement(ctx context.Context, domainID uuid.UUID, placement string) ([]*domain.Ad, error) {
	return m.listByPlacementFunc(ctx, domainID, placement)
}

// ---------------------------------------------------------------------------
// Mock HomepageComposer
// ---------------------------------------------------------------------------

type mockComposer struct {
	composeFunc func(ctx context.Context, site *resolver.Site, shape, v, lang string) (*homepage.Homepage, error)
}

func (m *mockComposer) Compose(ctx context.Context, site *resolver.Site, shape, v, lang string) (*homepage.Homepage, error) {
	return m.composeFunc(ctx, site, shape, v, lang)
}

// ---------------------------------------------------------------------------
// Mock CachePurger
// ---------------------------------------------------------------------------

type mockPurger struct {
	purgeFunc func(ctx context.Context, host string) error
}

func (m *mockPurger) Purge(ctx context.Context, host string) error {
	return m.purgeFunc(ctx, host)
}
