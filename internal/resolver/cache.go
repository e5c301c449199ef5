// Package resolver maps request hostnames to tenant/domain site context.
// It is the only cross-request shared mutable state in the service: a TTL
// cache whose cold misses collapse into one upstream query per host.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/newsgrid/newsgrid/internal/domain"
)

// DefaultTTL bounds staleness of cached resolutions. There is no automatic
// invalidation on domain mutation; admins purge explicitly when they cannot
// wait it out.
const DefaultTTL = 60 * time.Second

// Site is an immutable snapshot of everything request handling needs to know
// about the resolved domain. A new resolution replaces the snapshot, never
// mutates it in place.
type Site struct {
	Tenant             *domain.Tenant
	Domain             *domain.Domain
	AllowedCategoryIDs []uuid.UUID
	AllowedLanguages   []*domain.Language
	ResolvedAt         time.Time
}

// Scope derives the article filter for this site, optionally narrowed to one
// of the domain's languages.
func (s *Site) Scope(languageID *uuid.UUID) domain.ArticleScope {
	return domain.ArticleScope{
		TenantID:           s.Tenant.ID,
		DomainID:           s.Domain.ID,
		LanguageID:         languageID,
		AllowedCategoryIDs: s.AllowedCategoryIDs,
	}
}

// Language returns the allowed language matching code, or nil.
func (s *Site) Language(code string) *domain.Language {
	for _, l := range s.AllowedLanguages {
		if strings.EqualFold(l.Code, code) {
			return l
		}
	}
	return nil
}

// Override selects a tenant out-of-band (testing/administration), bypassing
// hostname matching and the cache entirely.
type Override struct {
	TenantSlug string
	TenantID   uuid.UUID
}

func (o Override) Empty() bool {
	return o.TenantSlug == "" && o.TenantID == uuid.Nil
}

// Bus relays cache purges to peer instances.
type Bus interface {
	PublishPurge(ctx context.Context, host string) error
}

// PurgeAll is the bus payload meaning "drop every entry".
const PurgeAll = "*"

type cacheEntry struct {
	site      *Site
	expiresAt time.Time
}

// Service resolves hosts with single-flight de-duplication: concurrent cold
// lookups for the same host share one repository query via a keyed flight
// group, so readers await the same pending result instead of piling on.
type Service struct {
	tenants     domain.TenantRepository
	domains     domain.DomainRepository
	ttl         time.Duration
	now         func() time.Time
	devFallback bool
	bus         Bus

	mu      sync.RWMutex
	entries map[string]cacheEntry
	flight  singleflight.Group
}

type Option func(*Service)

// WithTTL overrides the default 60s entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithClock injects a time source for deterministic TTL testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDevFallback enables resolving localhost/127.0.0.1 to the most recently
// created active domain. Development only.
func WithDevFallback(enabled bool) Option {
	return func(s *Service) { s.devFallback = enabled }
}

// WithBus attaches a purge relay for multi-instance deployments.
func WithBus(bus Bus) Option {
	return func(s *Service) { s.bus = bus }
}

func NewService(tenants domain.TenantRepository, domains domain.DomainRepository, opts ...Option) *Service {
	s := &Service{
		tenants: tenants,
		domains: domains,
		ttl:     DefaultTTL,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeHost lowercases the host and strips any port.
func NormalizeHost(host string) string {
	host = strings.TrimSpace(strings.ToLower(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// Resolve returns the site for host. Overrides bypass the cache; plain hosts
// hit the cache first and collapse concurrent misses into one query. A
// missing or inactive domain is a terminal domain.ErrNotFound for the
// request; callers must not retry or serve content.
func (s *Service) Resolve(ctx context.Context, host string, ov Override) (*Site, error) {
	if !ov.Empty() {
		return s.resolveOverride(ctx, ov)
	}

	key := NormalizeHost(host)
	if key == "" {
		return nil, fmt.Errorf("resolver.Resolve: empty host: %w", domain.ErrNotFound)
	}

	if site, ok := s.cached(key); ok {
		return site, nil
	}

	v, err, _ := s.flight.Do(key, func() (any, error) {
		// A concurrent flight may have filled the entry while we queued.
		if site, ok := s.cached(key); ok {
			return site, nil
		}

		site, resolveErr := s.resolveHost(ctx, key)
		if resolveErr != nil {
			return nil, resolveErr
		}

		s.put(key, site)
		return site, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Site), nil
}

// Invalidate drops one host's entry.
func (s *Service) Invalidate(host string) {
	key := NormalizeHost(host)

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// InvalidateAll drops every entry.
func (s *Service) InvalidateAll() {
	s.mu.Lock()
	s.entries = make(map[string]cacheEntry)
	s.mu.Unlock()
}

// Purge invalidates locally and relays the purge to peer instances when a
// bus is attached. host == PurgeAll drops everything.
func (s *Service) Purge(ctx context.Context, host string) error {
	if host == PurgeAll || host == "" {
		s.InvalidateAll()
		host = PurgeAll
	} else {
		s.Invalidate(host)
	}

	if s.bus == nil {
		return nil
	}
	if err := s.bus.PublishPurge(ctx, host); err != nil {
		return fmt.Errorf("resolver.Purge: relay: %w", err)
	}
	return nil
}

// ConsumeInvalidations applies purges relayed from peer instances. Blocks
// until ctx is done or the channel closes.
func (s *Service) ConsumeInvalidations(ctx context.Context, purges <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case host, ok := <-purges:
			if !ok {
				return
			}
			if host == PurgeAll {
				s.InvalidateAll()
			} else {
				s.Invalidate(host)
			}
			log.Debug().Str("host", host).Msg("applied relayed domain cache purge")
		}
	}
}

func (s *Service) cached(key string) (*Site, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || !s.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.site, true
}

func (s *Service) put(key string, site *Site) {
	s.mu.Lock()
	s.entries[key] = cacheEntry{site: site, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
}

func (s *Service) resolveHost(ctx context.Context, key string) (*Site, error) {
	d, err := s.domains.GetByHostname(ctx, key)
	switch {
	case err == nil:
	case isNotFound(err) && s.devFallback && isLoopback(key):
		d, err = s.domains.GetNewestActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolver.resolveHost(%q): dev fallback: %w", key, err)
		}
	default:
		return nil, fmt.Errorf("resolver.resolveHost(%q): %w", key, err)
	}

	return s.buildSite(ctx, d)
}

func (s *Service) resolveOverride(ctx context.Context, ov Override) (*Site, error) {
	var (
		d   *domain.Domain
		err error
	)
	if ov.TenantID != uuid.Nil {
		d, err = s.domains.GetAnyActiveByTenantID(ctx, ov.TenantID)
	} else {
		d, err = s.domains.GetAnyActiveByTenantSlug(ctx, ov.TenantSlug)
	}
	if err != nil {
		return nil, fmt.Errorf("resolver.resolveOverride: %w", err)
	}

	return s.buildSite(ctx, d)
}

func (s *Service) buildSite(ctx context.Context, d *domain.Domain) (*Site, error) {
	if !d.Active() {
		return nil, fmt.Errorf("resolver: domain %q inactive: %w", d.Hostname, domain.ErrNotFound)
	}

	tenant, err := s.tenants.GetByID(ctx, d.TenantID)
	if err != nil {
		return nil, fmt.Errorf("resolver.buildSite(%q): tenant: %w", d.Hostname, err)
	}

	categoryIDs, err := s.domains.AllowedCategoryIDs(ctx, d.ID)
	if err != nil {
		return nil, fmt.Errorf("resolver.buildSite(%q): categories: %w", d.Hostname, err)
	}

	languages, err := s.domains.AllowedLanguages(ctx, d.ID)
	if err != nil {
		return nil, fmt.Errorf("resolver.buildSite(%q): languages: %w", d.Hostname, err)
	}

	return &Site{
		Tenant:             tenant,
		Domain:             d,
		AllowedCategoryIDs: categoryIDs,
		AllowedLanguages:   languages,
		ResolvedAt:         s.now(),
	}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

func isLoopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
