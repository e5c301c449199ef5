package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/newsgrid/newsgrid/internal/domain"
)

type ArticleRepo struct {
	pool *pgxpool.Pool
}

func NewArticleRepo(pool *pgxpool.Pool) *ArticleRepo {
	return &ArticleRepo{pool: pool}
}

const articleColumns = `id, tenant_id, slug, title, excerpt, cover_image, tags, status, breaking, published_at, created_at, view_count, category_id, domain_id, language_id`

// scopeWhere compiles an ArticleScope into a WHERE clause. The predicates are
// fixed here once so every feed query applies identical scoping: published
// only, domain-local or shared, language-local or language-agnostic, and the
// allowed-category restriction when the domain declares one.
func scopeWhere(scope domain.ArticleScope) (string, []any) {
	conds := []string{
		"tenant_id = $1",
		"status = 'published'",
		"(domain_id = $2 OR domain_id IS NULL)",
	}
	args := []any{scope.TenantID, scope.DomainID}

	if scope.LanguageID != nil {
		args = append(args, *scope.LanguageID)
		conds = append(conds, fmt.Sprintf("(language_id = $%d OR language_id IS NULL)", len(args)))
	}
	if scope.Restricted() {
		args = append(args, uuidStrings(scope.AllowedCategoryIDs))
		conds = append(conds, fmt.Sprintf("(category_id = ANY($%d::uuid[]) OR category_id IS NULL)", len(args)))
	}

	return strings.Join(conds, " AND "), args
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func scanArticles(rows pgx.Rows, op string) ([]*domain.Article, error) {
	defer rows.Close()

	var articles []*domain.Article
	for rows.Next() {
		var a domain.Article

		err := rows.Scan(&a.ID, &a.TenantID, &a.Slug, &a.Title, &a.Excerpt, &a.CoverImage,
			&a.Tags, &a.Status, &a.Breaking, &a.PublishedAt, &a.CreatedAt, &a.ViewCount,
			&a.CategoryID, &a.DomainID, &a.LanguageID)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		articles = append(articles, &a)
	}
	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return articles, nil
}

func (r *ArticleRepo) ListLatest(ctx context.Context, scope domain.ArticleScope, limit, offset int) ([]*domain.Article, error) {
	where, args := scopeWhere(scope)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM articles WHERE %s
		 ORDER BY published_at DESC, created_at DESC
		 LIMIT $%d OFFSET $%d`,
		articleColumns, where, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("articleRepo.ListLatest: %w", err)
	}

	return scanArticles(rows, "articleRepo.ListLatest")
}

func (r *ArticleRepo) ListMostRead(ctx context.Context, scope domain.ArticleScope, limit int) ([]*domain.Article, error) {
	where, args := scopeWhere(scope)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM articles WHERE %s
		 ORDER BY view_count DESC, published_at DESC
		 LIMIT $%d`,
		articleColumns, where, len(args)),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("articleRepo.ListMostRead: %w", err)
	}

	return scanArticles(rows, "articleRepo.ListMostRead")
}

func (r *ArticleRepo) ListByCategory(ctx context.Context, scope domain.ArticleScope, categoryID uuid.UUID, limit int) ([]*domain.Article, error) {
	where, args := scopeWhere(scope)
	args = append(args, categoryID)
	where += fmt.Sprintf(" AND category_id = $%d", len(args))
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM articles WHERE %s
		 ORDER BY published_at DESC, created_at DESC
		 LIMIT $%d`,
		articleColumns, where, len(args)),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("articleRepo.ListByCategory: %w", err)
	}

	return scanArticles(rows, "articleRepo.ListByCategory")
}

func (r *ArticleRepo) ListBreaking(ctx context.Context, scope domain.ArticleScope, limit int) ([]*domain.Article, error) {
	where, args := scopeWhere(scope)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM articles WHERE %s AND breaking
		 ORDER BY published_at DESC, created_at DESC
		 LIMIT $%d`,
		articleColumns, where, len(args)),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("articleRepo.ListBreaking: %w", err)
	}

	return scanArticles(rows, "articleRepo.ListBreaking")
}

func (r *ArticleRepo) CategoryStats(ctx context.Context, scope domain.ArticleScope) ([]domain.CategoryStat, error) {
	where, args := scopeWhere(scope)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT category_id, COUNT(*), COALESCE(SUM(view_count), 0)
		 FROM articles WHERE %s AND category_id IS NOT NULL
		 GROUP BY category_id`,
		where),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("articleRepo.CategoryStats: %w", err)
	}
	defer rows.Close()

	var stats []domain.CategoryStat
	for rows.Next() {
		var st domain.CategoryStat

		err = rows.Scan(&st.CategoryID, &st.ArticleCount, &st.TotalViews)
		if err != nil {
			return nil, fmt.Errorf("articleRepo.CategoryStats: scan: %w", err)
		}

		stats = append(stats, st)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("articleRepo.CategoryStats: rows: %w", err)
	}

	return stats, nil
}

func (r *ArticleRepo) CountPublished(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM articles WHERE tenant_id = $1 AND status = 'published'`,
		tenantID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("articleRepo.CountPublished: %w", err)
	}

	return n, nil
}
