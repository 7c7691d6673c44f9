package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/dashcore/dashboard"
)

func (a *API) registerCatalogRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("catalog"))

	if err := g.GET("/catalog/dashboards", a.listCatalog,
		forge.WithSummary("List static dashboards"),
		forge.WithDescription("Returns the static dashboard catalog, optionally filtered by feature pack."),
		forge.WithOperationID("listCatalogDashboards"),
		forge.WithRequestSchema(ListCatalogRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Static dashboard list", []*DashboardResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/catalog/dashboards/:key", a.getCatalogDashboard,
		forge.WithSummary("Get static dashboard"),
		forge.WithDescription("Returns a single static catalog dashboard by key."),
		forge.WithOperationID("getCatalogDashboard"),
		forge.WithResponseSchema(http.StatusOK, "Static dashboard", &DashboardResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) listCatalog(ctx forge.Context, req *ListCatalogRequest) ([]*DashboardResponse, error) {
	resolver := a.eng.Catalog()
	if resolver == nil {
		empty := []*DashboardResponse{}
		return empty, ctx.JSON(http.StatusOK, empty)
	}

	var (
		defs []*dashboard.Definition
		err  error
	)
	if req.Pack != "" {
		defs, err = resolver.StaticDashboardsForPack(ctx.Context(), req.Pack, includeGlobal(req.IncludeGlobal))
	} else {
		defs, err = resolver.StaticDashboards(ctx.Context())
	}
	if err != nil {
		return nil, mapError(err)
	}

	resp := toDashboardResponses(defs)
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) getCatalogDashboard(ctx forge.Context, _ *GetCatalogDashboardRequest) (*DashboardResponse, error) {
	resolver := a.eng.Catalog()
	if resolver == nil {
		return nil, forge.NotFound("static dashboard not found")
	}

	d, err := resolver.StaticDashboardByKey(ctx.Context(), ctx.Param("key"))
	if err != nil {
		return nil, mapError(err)
	}
	if d == nil {
		return nil, forge.NotFound("static dashboard not found")
	}

	resp := toDashboardResponse(d)
	return resp, ctx.JSON(http.StatusOK, resp)
}
