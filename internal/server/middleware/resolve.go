package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/newsgrid/newsgrid/internal/domain"
	"github.com/newsgrid/newsgrid/internal/resolver"
)

// SiteResolver is satisfied by *resolver.Service.
type SiteResolver interface {
	Resolve(ctx context.Context, host string, ov resolver.Override) (*resolver.Site, error)
}

// ResolveSite maps the request's Host header onto a tenant site and stores the
// snapshot in the request context. X-Site-Host overrides the Host header for
// proxied setups; X-Tenant-Slug and X-Tenant-ID bypass hostname matching
// entirely. An unresolvable host is terminal for the request.
func ResolveSite(svc SiteResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := r.Host
			if h := r.Header.Get("X-Site-Host"); h != "" {
				host = h
			}

			var ov resolver.Override
			if slug := r.Header.Get("X-Tenant-Slug"); slug != "" {
				ov.TenantSlug = slug
			}
			if raw := r.Header.Get("X-Tenant-ID"); raw != "" {
				id, err := uuid.Parse(raw)
				if err != nil {
					http.Error(w, `{"title":"Bad Request","status":400,"detail":"malformed X-Tenant-ID"}`, http.StatusBadRequest)
					return
				}
				ov.TenantID = id
			}

			site, err := svc.Resolve(r.Context(), host, ov)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					http.Error(w, `{"title":"Not Found","status":404,"detail":"unknown or inactive domain"}`, http.StatusNotFound)
					return
				}
				log.Error().Err(err).Str("host", host).Msg("site resolution failed")
				http.Error(w, `{"title":"Internal Server Error","status":500,"detail":"site resolution failed"}`, http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySite, site)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
