package v1

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

type PurgeDomainCacheInput struct {
	AdminToken string `header:"X-Admin-Token" doc:"Static admin token"`
	Body       struct {
		Host string `json:"host,omitempty" doc:"Hostname to purge; empty or * purges every entry" example:"news.example.com"`
	}
}

type PurgeDomainCacheOutput struct {
	Body struct {
		Purged string `json:"purged"`
	}
}

// RegisterAdminRoutes wires the operational endpoints. They are guarded by a
// static token rather than the tenant resolution chain: an admin purging a
// misconfigured domain cannot be asked to resolve through it first.
func RegisterAdminRoutes(api huma.API, purger CachePurger, adminToken string) {
	huma.Register(api, huma.Operation{
		OperationID: "purge-domain-cache",
		Method:      http.MethodPost,
		Path:        "/admin/cache/domains/purge",
		Summary:     "Purge the domain resolution cache",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *PurgeDomainCacheInput) (*PurgeDomainCacheOutput, error) {
		if adminToken == "" {
			return nil, huma.Error403Forbidden("admin endpoints are disabled")
		}
		if subtle.ConstantTimeCompare([]byte(input.AdminToken), []byte(adminToken)) != 1 {
			return nil, huma.Error403Forbidden("invalid admin token")
		}

		if err := purger.Purge(ctx, input.Body.Host); err != nil {
			return nil, huma.Error500InternalServerError("failed to purge domain cache", err)
		}

		out := &PurgeDomainCacheOutput{}
		out.Body.Purged = input.Body.Host
		if out.Body.Purged == "" {
			out.Body.Purged = "*"
		}
		return out, nil
	})
}
