package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ArticleStatus string

const (
	ArticleStatusPublished ArticleStatus = "published"
	ArticleStatusDraft     ArticleStatus = "draft"
)

// Article is the tenant web read-model unit. A nil DomainID marks the
// article as shared across every domain of its tenant; a nil LanguageID
// marks it language-agnostic (legacy rows predate the language join).
type Article struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Slug        string
	Title       string
	Excerpt     string
	CoverImage  string
	Tags        []string
	Status      ArticleStatus
	Breaking    bool
	PublishedAt time.Time
	CreatedAt   time.Time
	ViewCount   int64
	CategoryID  *uuid.UUID
	DomainID    *uuid.UUID
	LanguageID  *uuid.UUID
}

// ArticleScope is the named, composable filter applied to every homepage
// query: published only, domain-scoped or shared, optionally language-scoped,
// and restricted to the domain's allowed categories when it declares any.
type ArticleScope struct {
	TenantID           uuid.UUID
	DomainID           uuid.UUID
	LanguageID         *uuid.UUID
	AllowedCategoryIDs []uuid.UUID
}

// Restricted reports whether the domain declares an allowed-category set.
// An empty set means no restriction, not "nothing allowed".
func (s ArticleScope) Restricted() bool {
	return len(s.AllowedCategoryIDs) > 0
}

// AllowsCategory reports whether articles of the given category pass the
// scope. Uncategorized articles always pass.
func (s ArticleScope) AllowsCategory(id *uuid.UUID) bool {
	if id == nil || !s.Restricted() {
		return true
	}
	for _, allowed := range s.AllowedCategoryIDs {
		if allowed == *id {
			return true
		}
	}
	return false
}

type ArticleRepository interface {
	// ListLatest orders by published_at desc, created_at desc. Offset enables
	// disjoint windows so adjacent feeds do not trivially overlap.
	ListLatest(ctx context.Context, scope ArticleScope, limit, offset int) ([]*Article, error)
	// ListMostRead orders by view_count desc, published_at desc.
	ListMostRead(ctx context.Context, scope ArticleScope, limit int) ([]*Article, error)
	ListByCategory(ctx context.Context, scope ArticleScope, categoryID uuid.UUID, limit int) ([]*Article, error)
	ListBreaking(ctx context.Context, scope ArticleScope, limit int) ([]*Article, error)
	// CategoryStats aggregates (articleCount, totalViews) per category under
	// the scope. Shared (domain-less) articles count toward the aggregate.
	CategoryStats(ctx context.Context, scope ArticleScope) ([]CategoryStat, error)
	CountPublished(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
