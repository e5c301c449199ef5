package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/newsgrid/newsgrid/internal/domain"
	"github.com/newsgrid/newsgrid/internal/server/middleware"
)

type GetPageInput struct {
	Slug string `path:"slug" doc:"Static page slug" example:"about-us"`
}

type StaticPageBody struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	HTML      string `json:"html"`
	UpdatedAt string `json:"updatedAt"`
}

type GetPageOutput struct {
	Body *StaticPageBody
}

func RegisterPageRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "get-page",
		Method:      http.MethodGet,
		Path:        "/pages/{slug}",
		Summary:     "Get a published static page for the resolved site",
		Tags:        []string{"Pages"},
	}, func(ctx context.Context, input *GetPageInput) (*GetPageOutput, error) {
		site, ok := middleware.SiteFromContext(ctx)
		if !ok {
			return nil, huma.Error404NotFound("no site resolved for this request")
		}

		page, err := store.Pages().GetPublished(ctx, site.Tenant.ID, input.Slug)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("page not found")
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load page", err)
		}

		return &GetPageOutput{Body: &StaticPageBody{
			Slug:      page.Slug,
			Title:     page.Title,
			HTML:      page.HTML,
			UpdatedAt: page.UpdatedAt.UTC().Format(time.RFC3339),
		}}, nil
	})
}
