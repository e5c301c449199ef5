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

type CategoryRepo struct {
	pool *pgxpool.Pool
}

func NewCategoryRepo(pool *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

func (r *CategoryRepo) GetBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*domain.Category, error) {
	var c domain.Category

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, slug, name, created_at, deleted_at
		 FROM categories
		 WHERE tenant_id = $1 AND slug = $2 AND deleted_at IS NULL`,
		tenantID, slug,
	).Scan(&c.ID, &c.TenantID, &c.Slug, &c.Name, &c.CreatedAt, &c.DeletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("categoryRepo.GetBySlug: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("categoryRepo.GetBySlug: %w", err)
	}

	return &c, nil
}

func (r *CategoryRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, slug, name, created_at, deleted_at
		 FROM categories WHERE id = ANY($1::uuid[])`,
		uuidStrings(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("categoryRepo.ListByIDs: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var c domain.Category

		err = rows.Scan(&c.ID, &c.TenantID, &c.Slug, &c.Name, &c.CreatedAt, &c.DeletedAt)
		if err != nil {
			return nil, fmt.Errorf("categoryRepo.ListByIDs: scan: %w", err)
		}

		categories = append(categories, &c)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("categoryRepo.ListByIDs: rows: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepo) Translations(ctx context.Context, categoryIDs []uuid.UUID, languageCode string) (map[uuid.UUID]string, error) {
	if len(categoryIDs) == 0 {
		return map[uuid.UUID]string{}, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT category_id, name
		 FROM category_translations
		 WHERE category_id = ANY($1::uuid[]) AND language_code = $2`,
		uuidStrings(categoryIDs), languageCode,
	)
	if err != nil {
		return nil, fmt.Errorf("categoryRepo.Translations: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]string)
	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)

		err = rows.Scan(&id, &name)
		if err != nil {
			return nil, fmt.Errorf("categoryRepo.Translations: scan: %w", err)
		}

		out[id] = name
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("categoryRepo.Translations: rows: %w", err)
	}

	return out, nil
}
