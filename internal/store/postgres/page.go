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

type StaticPageRepo struct {
	pool *pgxpool.Pool
}

func NewStaticPageRepo(pool *pgxpool.Pool) *StaticPageRepo {
	return &StaticPageRepo{pool: pool}
}

func (r *StaticPageRepo) GetPublished(ctx context.Context, tenantID uuid.UUID, slug string) (*domain.StaticPage, error) {
	var p domain.StaticPage

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, slug, title, html, published, updated_at
		 FROM static_pages
		 WHERE tenant_id = $1 AND slug = $2 AND published`,
		tenantID, slug,
	).Scan(&p.ID, &p.TenantID, &p.Slug, &p.Title, &p.HTML, &p.Published, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("staticPageRepo.GetPublished: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("staticPageRepo.GetPublished: %w", err)
	}

	return &p, nil
}

func (r *StaticPageRepo) ListPublished(ctx context.Context, tenantID uuid.UUID) ([]*domain.StaticPage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, slug, title, html, published, updated_at
		 FROM static_pages
		 WHERE tenant_id = $1 AND published
		 ORDER BY slug`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("staticPageRepo.ListPublished: %w", err)
	}
	defer rows.Close()

	var pages []*domain.StaticPage
	for rows.Next() {
		var p domain.StaticPage

		err = rows.Scan(&p.ID, &p.TenantID, &p.Slug, &p.Title, &p.HTML, &p.Published, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("staticPageRepo.ListPublished: scan: %w", err)
		}

		pages = append(pages, &p)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("staticPageRepo.ListPublished: rows: %w", err)
	}

	return pages, nil
}

type AdRepo struct {
	pool *pgxpool.Pool
}

func NewAdRepo(pool *pgxpool.Pool) *AdRepo {
	return &AdRepo{pool: pool}
}

func (r *AdRepo) ListByPlacement(ctx context.Context, domainID uuid.UUID, placement string) ([]*domain.Ad, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, domain_id, placement, image_url, target_url, position, is_active
		 FROM ads
		 WHERE domain_id = $1 AND placement = $2 AND is_active
		 ORDER BY position`,
		domainID, placement,
	)
	if err != nil {
		return nil, fmt.Errorf("adRepo.ListByPlacement: %w", err)
	}
	defer rows.Close()

	var ads []*domain.Ad
	for rows.Next() {
		var ad domain.Ad

		err = rows.Scan(&ad.ID, &ad.DomainID, &ad.Placement, &ad.ImageURL, &ad.TargetURL, &ad.Position, &ad.IsActive)
		if err != nil {
			return nil, fmt.Errorf("adRepo.ListByPlacement: scan: %w", err)
		}

		ads = append(ads, &ad)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("adRepo.ListByPlacement: rows: %w", err)
	}

	return ads, nil
}
