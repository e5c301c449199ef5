package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/newsgrid/newsgrid/internal/domain"
	"github.com/newsgrid/newsgrid/internal/homepage"
	"github.com/newsgrid/newsgrid/internal/server/middleware"
)

type GetHomepageInput struct {
	Shape string `query:"shape" doc:"Response contract: legacy (default), style1, or style2" example:"style2"`
	V     string `query:"v" doc:"Contract version within the shape" example:"3"`
	Lang  string `query:"lang" doc:"Language code; must be one of the domain's languages" example:"en"`
}

type GetHomepageOutput struct {
	Body *homepage.Homepage
}

func RegisterHomepageRoutes(api huma.API, composer HomepageComposer) {
	huma.Register(api, huma.Operation{
		OperationID: "get-homepage",
		Method:      http.MethodGet,
		Path:        "/homepage",
		Summary:     "Get the assembled homepage for the resolved site",
		Tags:        []string{"Homepage"},
	}, func(ctx context.Context, input *GetHomepageInput) (*GetHomepageOutput, error) {
		site, ok := middleware.SiteFromContext(ctx)
		if !ok {
			return nil, huma.Error404NotFound("no site resolved for this request")
		}

		hp, err := composer.Compose(ctx, site, input.Shape, input.V, input.Lang)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUnsupportedVariant):
				return nil, huma.Error400BadRequest("unsupported homepage variant")
			case errors.Is(err, domain.ErrInvalidLanguage):
				return nil, huma.Error422UnprocessableEntity("language not available on this domain")
			default:
				return nil, huma.Error500InternalServerError("failed to build homepage", err)
			}
		}

		return &GetHomepageOutput{Body: hp}, nil
	})
}
