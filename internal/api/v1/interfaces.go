package v1

import (
	"context"

	"github.com/newsgrid/newsgrid/internal/domain"
	"github.com/newsgrid/newsgrid/internal/homepage"
	"github.com/newsgrid/newsgrid/internal/resolver"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Tenants() domain.TenantRepository
	Domains() domain.DomainRepository
	Categories() domain.CategoryRepository
	Articles() domain.ArticleRepository
	Pages() domain.StaticPageRepository
	Ads() domain.AdRepository
}

// HomepageComposer abstracts homepage assembly for handler testing.
// *homepage.Composer satisfies this interface.
type HomepageComposer interface {
	Compose(ctx context.Context, site *resolver.Site, shape, v, lang string) (*homepage.Homepage, error)
}

// CachePurger abstracts domain cache invalidation for handler testing.
// *resolver.Service satisfies this interface.
type CachePurger interface {
	Purge(ctx context.Context, host string) error
}
