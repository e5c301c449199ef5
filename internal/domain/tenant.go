package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID              uuid.UUID
	Name            string
	Slug            string
	DefaultLanguage string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type TenantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
}

type DomainStatus string

const (
	DomainStatusActive   DomainStatus = "active"
	DomainStatusInactive DomainStatus = "inactive"
)

// Domain is a hostname bound to exactly one Tenant; the routing and
// isolation unit for content filtering. Its category and language joins
// define the allowed set for homepage content on that hostname.
type Domain struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Hostname  string
	Status    DomainStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (d *Domain) Active() bool {
	return d.Status == DomainStatusActive
}

type Language struct {
	ID   uuid.UUID
	Code string
	Name string
}

type DomainRepository interface {
	GetByHostname(ctx context.Context, hostname string) (*Domain, error)
	// GetAnyActiveByTenantSlug and GetAnyActiveByTenantID back the
	// out-of-band tenant override used for testing and administration.
	GetAnyActiveByTenantSlug(ctx context.Context, slug string) (*Domain, error)
	GetAnyActiveByTenantID(ctx context.Context, tenantID uuid.UUID) (*Domain, error)
	// GetNewestActive backs the localhost development fallback.
	GetNewestActive(ctx context.Context) (*Domain, error)
	AllowedCategoryIDs(ctx context.Context, domainID uuid.UUID) ([]uuid.UUID, error)
	AllowedLanguages(ctx context.Context, domainID uuid.UUID) ([]*Language, error)
	SectionConfigs(ctx context.Context, domainID uuid.UUID) ([]*SectionConfig, error)
}
