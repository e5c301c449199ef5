package domain

import (
	"time"

	"github.com/google/uuid"
)

type QueryKind string

const (
	QueryLatest        QueryKind = "latest"
	QueryCategory      QueryKind = "category"
	QueryMostRead      QueryKind = "most_read"
	QueryBreaking      QueryKind = "breaking"
	QueryTrending      QueryKind = "trending"
	QueryMultiCategory QueryKind = "multi_category"
)

// SectionConfig is an admin-managed homepage section definition. When a
// domain has no active rows, the composer falls back to deterministic
// defaults derived from the domain's allowed categories.
type SectionConfig struct {
	ID            uuid.UUID
	DomainID      uuid.UUID
	Key           string
	Position      int
	SectionType   string
	QueryKind     QueryKind
	CategorySlugs []string
	ArticleLimit  int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
