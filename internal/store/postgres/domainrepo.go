package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/newsgrid/newsgrid/internal/domain"
)

type DomainRepo struct {
	pool *pgxpool.Pool
}

func NewDomainRepo(pool *pgxpool.Pool) *DomainRepo {
	return &DomainRepo{pool: pool}
}

const domainColumns = `id, tenant_id, hostname, status, created_at, updated_at`

func scanDomain(row pgx.Row, op string) (*domain.Domain, error) {
	var d domain.Domain

	err := row.Scan(&d.ID, &d.TenantID, &d.Hostname, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &d, nil
}

func (r *DomainRepo) GetByHostname(ctx context.Context, hostname string) (*domain.Domain, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+domainColumns+` FROM domains WHERE hostname = $1`,
		hostname,
	)
	return scanDomain(row, "domainRepo.GetByHostname")
}

func (r *DomainRepo) GetAnyActiveByTenantSlug(ctx context.Context, slug string) (*domain.Domain, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT d.id, d.tenant_id, d.hostname, d.status, d.created_at, d.updated_at
		 FROM domains d
		 JOIN tenants t ON t.id = d.tenant_id
		 WHERE t.slug = $1 AND d.status = 'active'
		 ORDER BY d.created_at DESC
		 LIMIT 1`,
		slug,
	)
	return scanDomain(row, "domainRepo.GetAnyActiveByTenantSlug")
}

func (r *DomainRepo) GetAnyActiveByTenantID(ctx context.Context, tenantID uuid.UUID) (*domain.Domain, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+domainColumns+` FROM domains
		 WHERE tenant_id = $1 AND status = 'active'
		 ORDER BY created_at DESC
		 LIMIT 1`,
		tenantID,
	)
	return scanDomain(row, "domainRepo.GetAnyActiveByTenantID")
}

func (r *DomainRepo) GetNewestActive(ctx context.Context) (*domain.Domain, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+domainColumns+` FROM domains
		 WHERE status = 'active'
		 ORDER BY created_at DESC
		 LIMIT 1`,
	)
	return scanDomain(row, "domainRepo.GetNewestActive")
}

func (r *DomainRepo) AllowedCategoryIDs(ctx context.Context, domainID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category_id FROM domain_categories WHERE domain_id = $1`,
		domainID,
	)
	if err != nil {
		return nil, fmt.Errorf("domainRepo.AllowedCategoryIDs: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID

		err = rows.Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("domainRepo.AllowedCategoryIDs: scan: %w", err)
		}

		ids = append(ids, id)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("domainRepo.AllowedCategoryIDs: rows: %w", err)
	}

	return ids, nil
}

func (r *DomainRepo) AllowedLanguages(ctx context.Context, domainID uuid.UUID) ([]*domain.Language, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT l.id, l.code, l.name
		 FROM languages l
		 JOIN domain_languages dl ON dl.language_id = l.id
		 WHERE dl.domain_id = $1
		 ORDER BY l.code`,
		domainID,
	)
	if err != nil {
		return nil, fmt.Errorf("domainRepo.AllowedLanguages: %w", err)
	}
	defer rows.Close()

	var languages []*domain.Language
	for rows.Next() {
		var l domain.Language

		err = rows.Scan(&l.ID, &l.Code, &l.Name)
		if err != nil {
			return nil, fmt.Errorf("domainRepo.AllowedLanguages: scan: %w", err)
		}

		languages = append(languages, &l)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("domainRepo.AllowedLanguages: rows: %w", err)
	}

	return languages, nil
}

func (r *DomainRepo) SectionConfigs(ctx context.Context, domainID uuid.UUID) ([]*domain.SectionConfig, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, domain_id, key, position, section_type, query_kind, category_slugs, article_limit, is_active, created_at, updated_at
		 FROM section_configs
		 WHERE domain_id = $1
		 ORDER BY position`,
		domainID,
	)
	if err != nil {
		return nil, fmt.Errorf("domainRepo.SectionConfigs: %w", err)
	}
	defer rows.Close()

	var configs []*domain.SectionConfig
	for rows.Next() {
		var sc domain.SectionConfig

		err = rows.Scan(&sc.ID, &sc.DomainID, &sc.Key, &sc.Position, &sc.SectionType,
			&sc.QueryKind, &sc.CategorySlugs, &sc.ArticleLimit, &sc.IsActive, &sc.CreatedAt, &sc.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("domainRepo.SectionConfigs: scan: %w", err)
		}

		configs = append(configs, &sc)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("domainRepo.SectionConfigs: rows: %w", err)
	}

	return configs, nil
}
