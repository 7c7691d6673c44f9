package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/dashcore"
)

func (a *API) registerScopeRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("scope"))

	return g.GET("/scope-mode", a.resolveScopeMode,
		forge.WithSummary("Resolve scope mode"),
		forge.WithDescription("Resolves the caller's scope mode (none, own, ldd, all) for a verb on an entity."),
		forge.WithOperationID("resolveScopeMode"),
		forge.WithRequestSchema(ResolveScopeModeRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Resolved scope mode", ScopeModeResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) resolveScopeMode(ctx forge.Context, req *ResolveScopeModeRequest) (*ScopeModeResponse, error) {
	verb, ok := dashcore.ParseVerb(req.Verb)
	if !ok {
		return nil, forge.BadRequest("verb must be read, write, or delete")
	}
	entity := dashcore.EntityDashboards
	if req.Entity != "" {
		entity = dashcore.Entity(req.Entity)
	}

	mode, err := a.eng.ResolveScopeMode(requestContext(ctx), verb, entity)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ScopeModeResponse{
		Verb:   string(verb),
		Entity: string(entity),
		Mode:   string(mode),
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}
