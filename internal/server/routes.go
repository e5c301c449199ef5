package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/newsgrid/newsgrid/internal/api/v1"
	"github.com/newsgrid/newsgrid/internal/homepage"
	"github.com/newsgrid/newsgrid/internal/resolver"
	"github.com/newsgrid/newsgrid/internal/store/postgres"
)

func registerDeliveryRoutes(api huma.API, store *postgres.Store, composer *homepage.Composer) {
	v1.RegisterHomepageRoutes(api, composer)
	v1.RegisterPageRoutes(api, store)
	v1.RegisterAdRoutes(api, store)
}

func registerAdminRoutes(api huma.API, sites *resolver.Service, adminToken string) {
	v1.RegisterAdminRoutes(api, sites, adminToken)
}
