package api

import (
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/xraph/dashcore/auditlog"
)

func (a *API) registerAuditLogRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("audit-logs"))

	return g.GET("/audit-logs", a.listAuditLogs,
		forge.WithSummary("Query audit logs"),
		forge.WithDescription("Returns access-decision audit logs with optional filters."),
		forge.WithOperationID("listAuditLogs"),
		forge.WithRequestSchema(ListAuditLogsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Audit log list", ListResponse[*auditlog.Entry]{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) listAuditLogs(ctx forge.Context, req *ListAuditLogsRequest) (*ListResponse[*auditlog.Entry], error) {
	filter := &auditlog.QueryFilter{
		SubjectID:    req.SubjectID,
		Verb:         req.Verb,
		Entity:       req.Entity,
		DashboardKey: req.DashboardKey,
		Decision:     req.Decision,
		Limit:        defaultLimit(req.Limit),
		Offset:       req.Offset,
	}

	if req.After != "" {
		t, err := time.Parse(time.RFC3339, req.After)
		if err != nil {
			return nil, forge.BadRequest("invalid after timestamp")
		}
		filter.After = &t
	}
	if req.Before != "" {
		t, err := time.Parse(time.RFC3339, req.Before)
		if err != nil {
			return nil, forge.BadRequest("invalid before timestamp")
		}
		filter.Before = &t
	}

	logs, err := a.eng.Store().ListAuditLogs(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}
	total, err := a.eng.Store().CountAuditLogs(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListResponse[*auditlog.Entry]{
		Items:  logs,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}
