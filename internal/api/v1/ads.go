package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/newsgrid/newsgrid/internal/server/middleware"
)

type ListAdsInput struct {
	Placement string `path:"placement" doc:"Placement name" example:"sidebar"`
}

type AdBody struct {
	Placement string `json:"placement"`
	ImageURL  string `json:"imageUrl"`
	TargetURL string `json:"targetUrl"`
	Position  int    `json:"position"`
}

type ListAdsOutput struct {
	Body []AdBody
}

func RegisterAdRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-ads",
		Method:      http.MethodGet,
		Path:        "/ads/{placement}",
		Summary:     "List active ads in a placement for the resolved domain",
		Tags:        []string{"Ads"},
	}, func(ctx context.Context, input *ListAdsInput) (*ListAdsOutput, error) {
		site, ok := middleware.SiteFromContext(ctx)
		if !ok {
			return nil, huma.Error404NotFound("no site resolved for this request")
		}

		ads, err := store.Ads().ListByPlacement(ctx, site.Domain.ID, input.Placement)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list ads", err)
		}

		out := make([]AdBody, 0, len(ads))
		for _, ad := range ads {
			out = append(out, AdBody{
				Placement: ad.Placement,
				ImageURL:  ad.ImageURL,
				TargetURL: ad.TargetURL,
				Position:  ad.Position,
			})
		}

		return &ListAdsOutput{Body: out}, nil
	})
}
