package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/dashcore"
	"github.com/xraph/dashcore/share"
)

func (a *API) registerShareRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("shares"))

	if err := g.GET("/dashboards/:key/shares", a.listShares,
		forge.WithSummary("List shares"),
		forge.WithDescription("Returns the shares of a dashboard. Owner-only."),
		forge.WithOperationID("listShares"),
		forge.WithResponseSchema(http.StatusOK, "Share list", []*share.Share{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/dashboards/:key/shares", a.addShare,
		forge.WithSummary("Add share"),
		forge.WithDescription("Grants a principal access to a dashboard. Repeat grants update the existing share."),
		forge.WithOperationID("addShare"),
		forge.WithRequestSchema(AddShareRequest{}),
		forge.WithCreatedResponse(&share.Share{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.DELETE("/dashboards/:key/shares/:principalType/:principalId", a.removeShare,
		forge.WithSummary("Remove share"),
		forge.WithDescription("Revokes a principal's share on a dashboard."),
		forge.WithOperationID("removeShare"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	)
}

func (a *API) listShares(ctx forge.Context, _ *ListSharesRequest) ([]*share.Share, error) {
	shares, err := a.eng.ListShares(requestContext(ctx), ctx.Param("key"))
	if err != nil {
		return nil, mapError(err)
	}

	return shares, ctx.JSON(http.StatusOK, shares)
}

func (a *API) addShare(ctx forge.Context, req *AddShareRequest) (*share.Share, error) {
	if req.PrincipalType == "" || req.PrincipalID == "" {
		return nil, forge.BadRequest("principal_type and principal_id are required")
	}

	s, err := a.eng.AddShare(requestContext(ctx), ctx.Param("key"), dashcore.AddShareInput{
		PrincipalType: req.PrincipalType,
		PrincipalID:   req.PrincipalID,
		Permission:    req.Permission,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return s, ctx.JSON(http.StatusCreated, s)
}

func (a *API) removeShare(ctx forge.Context, _ *RemoveShareRequest) (*struct{}, error) {
	err := a.eng.RemoveShare(requestContext(ctx), ctx.Param("key"), ctx.Param("principalType"), ctx.Param("principalId"))
	if err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}
