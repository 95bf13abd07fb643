package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"moneynote/internal/core"
	applog "moneynote/internal/log"
)

func requestLog(ctx context.Context) *applog.StructuredLogger {
	return applog.NewStructuredLogger(applog.FromContext(ctx))
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	kind, err := ParseKindQuery(query)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	recs := s.repo.Search(kind, query.Get("q"))
	NewJSONResponse().JSON(recordListView(recs)).Write(w)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	rec, err := ParseRecordInput(parser)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		requestLog(ctx).LogError(ctx, "Record create failed", err, applog.OpCreate,
			applog.NewFields().WithRecord("", rec.Kind.Label(), rec.Category.Slug(), rec.Amount))
		ErrorFor(err).Write(w)
		return
	}

	requestLog(ctx).LogRecordCreated(ctx, created.ID, created.Kind.Label(), created.Category.Slug(), created.Amount)
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/records/"+created.ID).
		JSON(recordView(created)).
		Write(w)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		BadRequestError("missing record id").Write(w)
		return
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		requestLog(ctx).LogError(ctx, "Record delete failed", err, applog.OpDelete,
			applog.LogFields{applog.FieldRecordID: id})
		ErrorFor(err).Write(w)
		return
	}
	applog.FromContext(ctx).InfoContext(ctx, "Record deleted",
		applog.FieldRecordID, id,
		applog.FieldOperation, applog.OpDelete)
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.repo.Refresh(ctx); err != nil {
		requestLog(ctx).LogError(ctx, "Record refresh failed", err, applog.OpRefresh, nil)
		ErrorFor(err).Write(w)
		return
	}
	NewJSONResponse().JSON(map[string]any{
		"count":   len(s.repo.Snapshot()),
		"version": s.repo.Version(),
	}).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	kind, err := ParseKindQuery(r.URL.Query())
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	NewJSONResponse().JSON(newSummaryView(kind, s.repo.Summary(kind))).Write(w)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	month, err := ParseMonthPath(r)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	kind, err := ParseKindQuery(r.URL.Query())
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	NewJSONResponse().JSON(newReportView(kind, s.repo.Report(month, kind))).Write(w)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats := core.Categories()
	out := make([]CategoryView, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryView(c))
	}
	NewJSONResponse().JSON(map[string]any{"categories": out}).Write(w)
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports ready once the record list has been loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status, code := "ready", http.StatusOK
	if !s.repo.Loaded() {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	NewJSONResponse().Status(code).JSON(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks": map[string]any{
			"records": map[string]any{
				"loaded":  s.repo.Loaded(),
				"version": s.repo.Version(),
			},
			"rate_limiter": map[string]any{
				"active_clients": s.limiter.ActiveClients(),
			},
			"security": map[string]any{
				"suspicious_requests": s.detector.GetMetrics().SuspiciousRequests,
			},
		},
	}).Write(w)
}
