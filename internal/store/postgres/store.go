package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/newsgrid/newsgrid/internal/domain"
)

type Store struct {
	pool       *pgxpool.Pool
	tenants    *TenantRepo
	domains    *DomainRepo
	categories *CategoryRepo
	articles   *ArticleRepo
	pages      *StaticPageRepo
	ads        *AdRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:       pool,
		tenants:    NewTenantRepo(pool),
		domains:    NewDomainRepo(pool),
		categories: NewCategoryRepo(pool),
		articles:   NewArticleRepo(pool),
		pages:      NewStaticPageRepo(pool),
		ads:        NewAdRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Tenants() domain.TenantRepository        { return s.tenants }
func (s *Store) Domains() domain.DomainRepository        { return s.domains }
func (s *Store) Categories() domain.CategoryRepository   { return s.categories }
func (s *Store) Articles() domain.ArticleRepository      { return s.articles }
func (s *Store) Pages() domain.StaticPageRepository      { return s.pages }
func (s *Store) Ads() domain.AdRepository                { return s.ads }
