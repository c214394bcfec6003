package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"

	"venue-pulse/backend/internal/analytics/service"
	entrydomain "venue-pulse/backend/internal/entry/domain"
	insightdomain "venue-pulse/backend/internal/insight/domain"
	locationdomain "venue-pulse/backend/internal/location/domain"
	"venue-pulse/backend/internal/telemetry"
	telemetrydomain "venue-pulse/backend/internal/telemetry/domain"
)

// Analytics is the service surface the HTTP layer depends on.
type Analytics interface {
	Locations(ctx context.Context) ([]*locationdomain.Location, error)
	Overview(ctx context.Context, locationID string, rng entrydomain.TimeRange) (*service.Overview, error)
	Issues(ctx context.Context, locationID string, rng entrydomain.TimeRange) (*service.IssueReport, error)
	Insights(ctx context.Context, locationID string, rng entrydomain.TimeRange) ([]insightdomain.Insight, error)
	Devices(ctx context.Context, locationID string) ([]service.DeviceStatus, error)
}

// Handler serves the read API. Telemetry emission is best-effort and async.
type Handler struct {
	svc     Analytics
	emitter telemetry.EventEmitter
	now     func() time.Time
	views   otelmetric.Int64Counter
}

// NewHandler returns a Handler. emitter may be nil (no telemetry); now may be
// nil (defaults to time.Now).
func NewHandler(svc Analytics, emitter telemetry.EventEmitter, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	views, err := otel.Meter("venuepulse.server").Int64Counter("venuepulse.api.views",
		otelmetric.WithDescription("Analytics views served, by endpoint."))
	if err != nil {
		log.Printf("server: view counter: %v", err)
	}
	return &Handler{svc: svc, emitter: emitter, now: now, views: views}
}

func (h *Handler) countView(ctx context.Context, endpoint string) {
	if h.views == nil {
		return
	}
	h.views.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("endpoint", endpoint)))
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) listLocations(w http.ResponseWriter, r *http.Request) {
	h.countView(r.Context(), "locations")
	locs, err := h.svc.Locations(r.Context())
	if err != nil {
		h.serverError(w, "list locations", err)
		return
	}
	out := make([]locationResponse, 0, len(locs))
	for _, loc := range locs {
		out = append(out, toLocationResponse(loc))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) locationMetrics(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rng, err := h.parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	overview, err := h.svc.Overview(r.Context(), id, rng)
	if err != nil {
		h.analyticsError(w, "overview", err)
		return
	}
	h.countView(r.Context(), "metrics")
	h.emit(r.Context(), id, "metrics_viewed", rng)
	writeJSON(w, http.StatusOK, toOverviewResponse(overview))
}

func (h *Handler) locationIssues(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rng, err := h.parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.svc.Issues(r.Context(), id, rng)
	if err != nil {
		h.analyticsError(w, "issues", err)
		return
	}
	h.countView(r.Context(), "issues")
	h.emit(r.Context(), id, "issues_viewed", rng)
	writeJSON(w, http.StatusOK, toIssueReportResponse(report))
}

func (h *Handler) locationInsights(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rng, err := h.parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	insights, err := h.svc.Insights(r.Context(), id, rng)
	if err != nil {
		h.analyticsError(w, "insights", err)
		return
	}
	h.countView(r.Context(), "insights")
	h.emit(r.Context(), id, "insights_viewed", rng)
	out := make([]insightResponse, 0, len(insights))
	for _, in := range insights {
		out = append(out, toInsightResponse(in))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) locationDevices(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	h.countView(r.Context(), "devices")
	statuses, err := h.svc.Devices(r.Context(), id)
	if err != nil {
		h.analyticsError(w, "devices", err)
		return
	}
	out := make([]deviceStatusResponse, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, toDeviceStatusResponse(st))
	}
	writeJSON(w, http.StatusOK, out)
}

// parseRange builds the analysis window from query parameters: either a
// preset (?range=day|week|month|year, ending now) or an explicit custom
// window (?start=RFC3339&end=RFC3339).
func (h *Handler) parseRange(r *http.Request) (entrydomain.TimeRange, error) {
	q := r.URL.Query()
	startParam, endParam := q.Get("start"), q.Get("end")
	if startParam != "" || endParam != "" {
		if startParam == "" || endParam == "" {
			return entrydomain.TimeRange{}, errors.New("start and end must be set together")
		}
		start, err := time.Parse(time.RFC3339, startParam)
		if err != nil {
			return entrydomain.TimeRange{}, fmt.Errorf("invalid start: %v", err)
		}
		end, err := time.Parse(time.RFC3339, endParam)
		if err != nil {
			return entrydomain.TimeRange{}, fmt.Errorf("invalid end: %v", err)
		}
		if !end.After(start) {
			return entrydomain.TimeRange{}, errors.New("end must be after start")
		}
		return entrydomain.TimeRange{Kind: entrydomain.RangeCustom, Start: start, End: end}, nil
	}

	kind := entrydomain.RangeKind(q.Get("range"))
	switch kind {
	case "":
		kind = entrydomain.RangeDay
	case entrydomain.RangeDay, entrydomain.RangeWeek, entrydomain.RangeMonth, entrydomain.RangeYear:
	default:
		return entrydomain.TimeRange{}, fmt.Errorf("unknown range preset %q", kind)
	}
	return entrydomain.RangeForKind(kind, h.now()), nil
}

func (h *Handler) emit(ctx context.Context, locationID, eventType string, rng entrydomain.TimeRange) {
	if h.emitter == nil {
		return
	}
	meta, _ := json.Marshal(map[string]string{
		"range_kind": string(rng.Kind),
		"start":      rng.Start.Format(time.RFC3339),
		"end":        rng.End.Format(time.RFC3339),
	})
	telemetry.EmitAsync(h.emitter, ctx, &telemetrydomain.Event{
		LocationID: locationID,
		EventType:  eventType,
		Source:     "server",
		Metadata:   meta,
		CreatedAt:  h.now().UTC(),
	})
}

func (h *Handler) analyticsError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, service.ErrLocationNotFound) {
		writeError(w, http.StatusNotFound, "location not found")
		return
	}
	h.serverError(w, op, err)
}

func (h *Handler) serverError(w http.ResponseWriter, op string, err error) {
	log.Printf("server: %s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
