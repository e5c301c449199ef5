package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StaticPage is the published-HTML lookup surface the homepage links to.
// Page CRUD itself lives outside this service.
type StaticPage struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Slug      string
	Title     string
	HTML      string
	Published bool
	UpdatedAt time.Time
}

type StaticPageRepository interface {
	GetPublished(ctx context.Context, tenantID uuid.UUID, slug string) (*StaticPage, error)
	// ListPublished returns slug+title pairs for homepage footer links.
	ListPublished(ctx context.Context, tenantID uuid.UUID) ([]*StaticPage, error)
}

// Ad is one creative in a named placement. Placement configuration is
// external; the engine only reads the resolved list.
type Ad struct {
	ID        uuid.UUID
	DomainID  uuid.UUID
	Placement string
	ImageURL  string
	TargetURL string
	Position  int
	IsActive  bool
}

type AdRepository interface {
	ListByPlacement(ctx context.Context, domainID uuid.UUID, placement string) ([]*Ad, error)
}
