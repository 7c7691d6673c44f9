package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/dashcore"
	"github.com/xraph/dashcore/dashboard"
)

func (a *API) registerDashboardRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("dashboards"))

	if err := g.POST("/dashboards", a.createDashboard,
		forge.WithSummary("Create dashboard"),
		forge.WithDescription("Creates a dynamic dashboard owned by the caller."),
		forge.WithOperationID("createDashboard"),
		forge.WithRequestSchema(CreateDashboardRequest{}),
		forge.WithCreatedResponse(&DashboardResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/dashboards", a.listDashboards,
		forge.WithSummary("List dashboards"),
		forge.WithDescription("Lists dashboards visible to the caller under the resolved read scope."),
		forge.WithOperationID("listDashboards"),
		forge.WithRequestSchema(ListDashboardsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Dashboard list", []*DashboardResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/dashboards/:key", a.getDashboard,
		forge.WithSummary("Get dashboard"),
		forge.WithDescription("Returns a dashboard by key, static catalog entries included."),
		forge.WithOperationID("getDashboard"),
		forge.WithResponseSchema(http.StatusOK, "Dashboard details", &DashboardResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/dashboards/:key", a.updateDashboard,
		forge.WithSummary("Update dashboard"),
		forge.WithDescription("Updates a dashboard. A new definition document bumps the version."),
		forge.WithOperationID("updateDashboard"),
		forge.WithRequestSchema(UpdateDashboardRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated dashboard", &DashboardResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/dashboards/:key", a.deleteDashboard,
		forge.WithSummary("Delete dashboard"),
		forge.WithDescription("Deletes a dashboard and its shares."),
		forge.WithOperationID("deleteDashboard"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/packs/:pack/dashboards", a.listPackDashboards,
		forge.WithSummary("List pack dashboards"),
		forge.WithDescription("Returns static catalog dashboards merged with dynamic dashboards for a feature pack."),
		forge.WithOperationID("listPackDashboards"),
		forge.WithRequestSchema(ListPackDashboardsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Merged dashboard list", []*DashboardResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) createDashboard(ctx forge.Context, req *CreateDashboardRequest) (*DashboardResponse, error) {
	if req.Key == "" {
		return nil, forge.BadRequest("key is required")
	}

	d, err := a.eng.CreateDashboard(requestContext(ctx), dashcore.CreateDashboardInput{
		Key:         req.Key,
		Name:        req.Name,
		Description: req.Description,
		Visibility:  req.Visibility,
		Pack:        req.Pack,
		Definition:  req.Definition,
	})
	if err != nil {
		return nil, mapError(err)
	}

	resp := toDashboardResponse(d)
	return resp, ctx.JSON(http.StatusCreated, resp)
}

func (a *API) getDashboard(ctx forge.Context, _ *GetDashboardRequest) (*DashboardResponse, error) {
	d, err := a.eng.GetDashboardByKey(requestContext(ctx), ctx.Param("key"))
	if err != nil {
		return nil, mapError(err)
	}

	resp := toDashboardResponse(d)
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) updateDashboard(ctx forge.Context, req *UpdateDashboardRequest) (*DashboardResponse, error) {
	d, err := a.eng.UpdateDashboard(requestContext(ctx), ctx.Param("key"), dashcore.UpdateDashboardInput{
		Name:        req.Name,
		Description: req.Description,
		Visibility:  req.Visibility,
		Definition:  req.Definition,
	})
	if err != nil {
		return nil, mapError(err)
	}

	resp := toDashboardResponse(d)
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) deleteDashboard(ctx forge.Context, _ *GetDashboardRequest) (*struct{}, error) {
	if err := a.eng.DeleteDashboard(requestContext(ctx), ctx.Param("key")); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listDashboards(ctx forge.Context, req *ListDashboardsRequest) ([]*DashboardResponse, error) {
	filter := &dashboard.ListFilter{
		OwnerUserID: req.Owner,
		Pack:        req.Pack,
		Search:      req.Search,
		Limit:       defaultLimit(req.Limit),
		Offset:      req.Offset,
	}
	if req.Visibility != "" {
		v := dashboard.NormalizeVisibility(req.Visibility)
		filter.Visibility = &v
	}

	defs, err := a.eng.ListDashboards(requestContext(ctx), filter)
	if err != nil {
		return nil, mapError(err)
	}

	resp := toDashboardResponses(defs)
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) listPackDashboards(ctx forge.Context, req *ListPackDashboardsRequest) ([]*DashboardResponse, error) {
	pack := ctx.Param("pack")
	if pack == "" {
		return nil, forge.BadRequest("pack is required")
	}

	defs, err := a.eng.ListDashboardsForPack(requestContext(ctx), pack, includeGlobal(req.IncludeGlobal))
	if err != nil {
		return nil, mapError(err)
	}

	resp := toDashboardResponses(defs)
	return resp, ctx.JSON(http.StatusOK, resp)
}
