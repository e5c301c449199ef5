package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Slug      string
	Name      string
	CreatedAt time.Time
	DeletedAt *time.Time // soft delete; deleted categories never resolve
}

type CategoryTranslation struct {
	CategoryID   uuid.UUID
	LanguageCode string
	Name         string
}

// CategoryStat is the per-category aggregate the homepage ranker scores.
// Counts and views are taken under the same scope as the article feeds.
type CategoryStat struct {
	CategoryID   uuid.UUID
	ArticleCount int64
	TotalViews   int64
}

type CategoryRepository interface {
	// GetBySlug resolves a live (not soft-deleted) category within a tenant.
	GetBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Category, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Category, error)
	// Translations returns translated display names keyed by category ID.
	// Categories without a translation for the language are absent from the map.
	Translations(ctx context.Context, categoryIDs []uuid.UUID, languageCode string) (map[uuid.UUID]string, error)
}
