package public

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"rescueRoute/internal/domain"
	"rescueRoute/pkg/e"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Reports interface {
	ListReports(ctx context.Context, req domain.ListReportsRequest) ([]domain.RankedReport, error)
	CreateReport(ctx context.Context, req domain.CreateReportRequest) (uuid.UUID, error)
}

type Requests interface {
	CreateRequest(ctx context.Context, req domain.CreateResourceRequest) (*domain.ResourceRequest, error)
	ListRequests(ctx context.Context, order domain.SortOrder) ([]domain.ResourceRequest, error)
}

type ViewerResolver interface {
	Resolve(ctx context.Context, q url.Values) (*domain.Coordinate, error)
}

type Handler struct {
	logger   *slog.Logger
	Reports  Reports
	Requests Requests
	Viewer   ViewerResolver
}

func NewHandler(logger *slog.Logger, reports Reports, requests Requests, viewer ViewerResolver) *Handler {
	return &Handler{
		logger:   logger,
		Reports:  reports,
		Requests: requests,
		Viewer:   viewer,
	}
}

// ReportList ranks every report for the caller. lat/lng (or address) are
// optional; malformed coordinates are rejected rather than ignored.
func (h *Handler) ReportList(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	q := r.URL.Query()

	viewer, err := h.Viewer.Resolve(r.Context(), q)
	if err != nil {
		if !errors.Is(err, e.ErrLocationUnavailable) {
			h.handleError(w, r, err)
			return
		}
		viewer = nil
	}

	req := domain.ListReportsRequest{Viewer: viewer}

	if t := strings.TrimSpace(q.Get("type")); t != "" {
		req.Type = domain.NormalizeReportType(domain.ReportType(t))
		if !req.Type.Valid() {
			h.handleError(w, r, fmt.Errorf("unknown report type %q: %w", t, e.ErrInvalidInput))
			return
		}
	}

	switch sort := strings.TrimSpace(q.Get("sort")); sort {
	case "", string(domain.OrderRecency):
		req.Order = domain.OrderRecency
	case string(domain.OrderProximity):
		req.Order = domain.OrderProximity
	default:
		h.handleError(w, r, fmt.Errorf("unknown sort %q: %w", sort, e.ErrInvalidInput))
		return
	}

	reports, err := h.Reports.ListReports(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Debug("reports listed",
		slog.Int("count", len(reports)),
		slog.Bool("has_viewer", viewer != nil),
	)
	h.writeJSON(w, http.StatusOK, reports)
}

func (h *Handler) ReportCreate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	var req domain.CreateReportRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.Reports.CreateReport(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("report created",
		slog.String("id", id.String()),
		slog.String("type", string(req.ReportType)),
	)
	h.writeJSON(w, http.StatusCreated, domain.CreateReportResponse{
		Success: true,
		ID:      id.String(),
		Message: "Report submitted successfully",
	})
}

func (h *Handler) RequestCreate(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateResourceRequest
	if !h.decode(w, r, &req) {
		return
	}

	created, err := h.Requests.CreateRequest(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.log(r).Info("resource request created", slog.String("id", created.ID.String()))
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) RequestList(w http.ResponseWriter, r *http.Request) {
	order := domain.SortOrder(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("order"))))

	items, err := h.Requests.ListRequests(r.Context(), order)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.ResourceRequest{}
	}
	h.writeJSON(w, http.StatusOK, items)
}

// decode reads exactly one JSON object from the body.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		h.log(r).Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return false
	}
	return true
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}
