package server

import (
	"time"

	"venue-pulse/backend/internal/analytics/service"
	entrydomain "venue-pulse/backend/internal/entry/domain"
	insightdomain "venue-pulse/backend/internal/insight/domain"
	integritydomain "venue-pulse/backend/internal/integrity/domain"
	locationdomain "venue-pulse/backend/internal/location/domain"
	metricsdomain "venue-pulse/backend/internal/metrics/domain"
)

// Response DTOs. Analytics values pass through untouched; formatting and
// localization belong to clients.

type locationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	TimeZone  string    `json:"time_zone"`
	CreatedAt time.Time `json:"created_at"`
}

type rangeResponse struct {
	Kind  string    `json:"kind"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type metricsResponse struct {
	LocationID       string        `json:"location_id"`
	Range            rangeResponse `json:"range"`
	TotalIn          int           `json:"total_in"`
	TotalOut         int           `json:"total_out"`
	NetChange        int           `json:"net_change"`
	DaysCovered      int           `json:"days_covered"`
	AvgEntriesPerDay float64       `json:"avg_entries_per_day"`
	AvgOccupancy     float64       `json:"avg_occupancy"`
	PeakCount        int           `json:"peak_count"`
	PeakAt           *time.Time    `json:"peak_at,omitempty"`
}

type issueResponse struct {
	Kind       string    `json:"kind"`
	Severity   string    `json:"severity"`
	Message    string    `json:"message"`
	DetectedAt time.Time `json:"detected_at"`
}

type signalResponse struct {
	Kind          string        `json:"kind"`
	Message       string        `json:"message"`
	DetectedAt    time.Time     `json:"detected_at"`
	AffectedRange rangeResponse `json:"affected_range"`
}

type gapResponse struct {
	Interval        rangeResponse `json:"interval"`
	DurationSeconds float64       `json:"duration_seconds"`
	Severity        string        `json:"severity"`
}

type coverageResponse struct {
	Start time.Time     `json:"start"`
	End   time.Time     `json:"end"`
	Gaps  []gapResponse `json:"gaps"`
}

type overviewResponse struct {
	Location locationResponse `json:"location"`
	Metrics  metricsResponse  `json:"metrics"`
	Issues   []issueResponse  `json:"issues"`
	Signals  []signalResponse `json:"signals"`
	Coverage coverageResponse `json:"coverage"`
}

type issueReportResponse struct {
	Issues   []issueResponse  `json:"issues"`
	Signals  []signalResponse `json:"signals"`
	Coverage coverageResponse `json:"coverage"`
}

type deviceStatusResponse struct {
	ID         string         `json:"id"`
	LocationID string         `json:"location_id"`
	Name       string         `json:"name,omitempty"`
	LastSeenAt *time.Time     `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	Stale      *issueResponse `json:"stale,omitempty"`
}

type insightResponse struct {
	Title           string             `json:"title"`
	RuleDescription string             `json:"rule_description"`
	InputValues     map[string]float64 `json:"input_values"`
	Thresholds      map[string]float64 `json:"thresholds"`
}

func toLocationResponse(loc *locationdomain.Location) locationResponse {
	return locationResponse{
		ID:        loc.ID,
		Name:      loc.Name,
		Capacity:  loc.Capacity,
		TimeZone:  loc.TimeZone,
		CreatedAt: loc.CreatedAt,
	}
}

func toRangeResponse(rng entrydomain.TimeRange) rangeResponse {
	return rangeResponse{Kind: string(rng.Kind), Start: rng.Start, End: rng.End}
}

func toMetricsResponse(m metricsdomain.MetricsSnapshot) metricsResponse {
	return metricsResponse{
		LocationID:       m.LocationID,
		Range:            toRangeResponse(m.Range),
		TotalIn:          m.TotalIn,
		TotalOut:         m.TotalOut,
		NetChange:        m.NetChange,
		DaysCovered:      m.DaysCovered,
		AvgEntriesPerDay: m.AvgEntriesPerDay,
		AvgOccupancy:     m.AvgOccupancy,
		PeakCount:        m.PeakCount,
		PeakAt:           m.PeakAt,
	}
}

func toIssueResponses(issues []integritydomain.DataIntegrityIssue) []issueResponse {
	out := make([]issueResponse, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issueResponse{
			Kind:       string(issue.Kind),
			Severity:   string(issue.Severity),
			Message:    issue.Message,
			DetectedAt: issue.DetectedAt,
		})
	}
	return out
}

func toSignalResponses(signals []integritydomain.DataFlowSignal) []signalResponse {
	out := make([]signalResponse, 0, len(signals))
	for _, s := range signals {
		out = append(out, signalResponse{
			Kind:          string(s.Kind),
			Message:       s.Message,
			DetectedAt:    s.DetectedAt,
			AffectedRange: toRangeResponse(s.AffectedRange),
		})
	}
	return out
}

func toCoverageResponse(c integritydomain.CoverageWindow) coverageResponse {
	gaps := make([]gapResponse, 0, len(c.Gaps))
	for _, g := range c.Gaps {
		gaps = append(gaps, gapResponse{
			Interval:        toRangeResponse(g.Interval),
			DurationSeconds: g.Duration.Seconds(),
			Severity:        string(g.Severity),
		})
	}
	return coverageResponse{Start: c.Start, End: c.End, Gaps: gaps}
}

func toOverviewResponse(o *service.Overview) overviewResponse {
	return overviewResponse{
		Location: toLocationResponse(o.Location),
		Metrics:  toMetricsResponse(o.Metrics),
		Issues:   toIssueResponses(o.Issues),
		Signals:  toSignalResponses(o.Signals),
		Coverage: toCoverageResponse(o.Coverage),
	}
}

func toIssueReportResponse(rep *service.IssueReport) issueReportResponse {
	return issueReportResponse{
		Issues:   toIssueResponses(rep.Issues),
		Signals:  toSignalResponses(rep.Signals),
		Coverage: toCoverageResponse(rep.Coverage),
	}
}

func toDeviceStatusResponse(st service.DeviceStatus) deviceStatusResponse {
	out := deviceStatusResponse{
		ID:         st.Device.ID,
		LocationID: st.Device.LocationID,
		Name:       st.Device.Name,
		LastSeenAt: st.Device.LastSeenAt,
		CreatedAt:  st.Device.CreatedAt,
	}
	if st.Stale != nil {
		issue := issueResponse{
			Kind:       string(st.Stale.Kind),
			Severity:   string(st.Stale.Severity),
			Message:    st.Stale.Message,
			DetectedAt: st.Stale.DetectedAt,
		}
		out.Stale = &issue
	}
	return out
}

func toInsightResponse(in insightdomain.Insight) insightResponse {
	return insightResponse{
		Title:           in.Title,
		RuleDescription: in.RuleDescription,
		InputValues:     in.InputValues,
		Thresholds:      in.Thresholds,
	}
}
