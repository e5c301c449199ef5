package middleware

import (
	"context"

	"github.com/newsgrid/newsgrid/internal/resolver"
)

type contextKey string

const (
	ContextKeySite contextKey = "site"
)

func SiteFromContext(ctx context.Context) (*resolver.Site, bool) {
	v, ok := ctx.Value(ContextKeySite).(*resolver.Site)
	return v, ok
}
