// Package service orchestrates the analytic engines over the entry ledger:
// it fetches entries for a location and range, replays them into metrics,
// classifies integrity findings, and derives period-over-period insights.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	devicedomain "venue-pulse/backend/internal/device/domain"
	entrydomain "venue-pulse/backend/internal/entry/domain"
	"venue-pulse/backend/internal/insight"
	insightdomain "venue-pulse/backend/internal/insight/domain"
	"venue-pulse/backend/internal/integrity"
	integritydomain "venue-pulse/backend/internal/integrity/domain"
	locationdomain "venue-pulse/backend/internal/location/domain"
	"venue-pulse/backend/internal/metrics"
	metricsdomain "venue-pulse/backend/internal/metrics/domain"
)

// ErrLocationNotFound is returned when the requested location does not exist.
// The handler maps it to a 404.
var ErrLocationNotFound = errors.New("location not found")

// EntryLedger is the minimal entry repository needed by the analytics service.
type EntryLedger interface {
	Fetch(ctx context.Context, rng entrydomain.TimeRange, locationID, deviceID string) ([]*entrydomain.Entry, error)
	LastSeen(ctx context.Context, locationID, deviceID string) (*time.Time, error)
}

// LocationRepo is the minimal location repository needed by the analytics service.
type LocationRepo interface {
	GetByID(ctx context.Context, id string) (*locationdomain.Location, error)
	List(ctx context.Context) ([]*locationdomain.Location, error)
}

// DeviceRegistry lists the counting devices assigned to a location. A nil
// registry disables per-device freshness checks.
type DeviceRegistry interface {
	ListByLocation(ctx context.Context, locationID string) ([]*devicedomain.Device, error)
}

// DeviceStatus pairs a registered device with its freshness finding, if any.
type DeviceStatus struct {
	Device *devicedomain.Device
	Stale  *integritydomain.DataIntegrityIssue
}

// Overview bundles one location's period metrics with its integrity findings.
type Overview struct {
	Location *locationdomain.Location
	Metrics  metricsdomain.MetricsSnapshot
	Issues   []integritydomain.DataIntegrityIssue
	Signals  []integritydomain.DataFlowSignal
	Coverage integritydomain.CoverageWindow
}

// IssueReport carries the display-ready integrity findings for one location and range.
type IssueReport struct {
	Issues   []integritydomain.DataIntegrityIssue
	Signals  []integritydomain.DataFlowSignal
	Coverage integritydomain.CoverageWindow
}

// Service wires the ledger and the location registry to the analytic engines.
type Service struct {
	entries         EntryLedger
	locations       LocationRepo
	devices         DeviceRegistry
	integrityCfg    integritydomain.Config
	staleThreshold  time.Duration
	defaultCapacity int
	displayLimit    int
	now             func() time.Time
}

// New returns an analytics service. displayLimit caps surfaced issues;
// staleThreshold grades silent devices; defaultCapacity covers locations
// without a configured capacity. now may be nil (defaults to time.Now).
func New(entries EntryLedger, locations LocationRepo, devices DeviceRegistry, cfg integritydomain.Config,
	staleThreshold time.Duration, defaultCapacity, displayLimit int, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		entries:         entries,
		locations:       locations,
		devices:         devices,
		integrityCfg:    cfg,
		staleThreshold:  staleThreshold,
		defaultCapacity: defaultCapacity,
		displayLimit:    displayLimit,
		now:             now,
	}
}

// Locations lists all registered locations.
func (s *Service) Locations(ctx context.Context) ([]*locationdomain.Location, error) {
	return s.locations.List(ctx)
}

// Overview replays the location's entries over the range and returns the
// metrics snapshot together with the deduplicated integrity findings.
func (s *Service) Overview(ctx context.Context, locationID string, rng entrydomain.TimeRange) (*Overview, error) {
	loc, err := s.location(ctx, locationID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.Fetch(ctx, rng, locationID, "")
	if err != nil {
		return nil, fmt.Errorf("fetch entries: %w", err)
	}

	report := s.classify(entries, rng)
	return &Overview{
		Location: loc,
		Metrics:  metrics.Compute(entries, rng, s.capacity(loc), locationID),
		Issues:   report.Issues,
		Signals:  report.Signals,
		Coverage: report.Coverage,
	}, nil
}

// Issues classifies the location's entries over the range and appends the
// stale-source check based on the newest ledger timestamp.
func (s *Service) Issues(ctx context.Context, locationID string, rng entrydomain.TimeRange) (*IssueReport, error) {
	if _, err := s.location(ctx, locationID); err != nil {
		return nil, err
	}

	entries, err := s.entries.Fetch(ctx, rng, locationID, "")
	if err != nil {
		return nil, fmt.Errorf("fetch entries: %w", err)
	}

	report := s.classify(entries, rng)

	lastSeen, err := s.entries.LastSeen(ctx, locationID, "")
	if err != nil {
		return nil, fmt.Errorf("last seen: %w", err)
	}
	if stale := integrity.DetectStaleSource(lastSeen, s.staleThreshold, s.now()); stale != nil {
		report.Issues = append(report.Issues, *stale)
		report.Issues = integrity.DedupeForDisplay(report.Issues, s.displayLimit)
	}

	return &report, nil
}

// Devices lists the location's counting devices with each one's freshness
// finding. Findings are graded against the stale threshold individually, so
// one healthy device cannot mask a silent one.
func (s *Service) Devices(ctx context.Context, locationID string) ([]DeviceStatus, error) {
	if _, err := s.location(ctx, locationID); err != nil {
		return nil, err
	}
	if s.devices == nil {
		return nil, nil
	}

	devices, err := s.devices.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	now := s.now()
	statuses := make([]DeviceStatus, 0, len(devices))
	for _, d := range devices {
		statuses = append(statuses, DeviceStatus{
			Device: d,
			Stale:  integrity.DetectStaleSource(d.LastSeenAt, s.staleThreshold, now),
		})
	}
	return statuses, nil
}

// Insights compares the range against its previous period and returns the
// gated period-over-period findings.
func (s *Service) Insights(ctx context.Context, locationID string, rng entrydomain.TimeRange) ([]insightdomain.Insight, error) {
	loc, err := s.location(ctx, locationID)
	if err != nil {
		return nil, err
	}
	capacity := s.capacity(loc)

	curEntries, err := s.entries.Fetch(ctx, rng, locationID, "")
	if err != nil {
		return nil, fmt.Errorf("fetch current entries: %w", err)
	}
	prevRange := rng.PreviousPeriod()
	prevEntries, err := s.entries.Fetch(ctx, prevRange, locationID, "")
	if err != nil {
		return nil, fmt.Errorf("fetch previous entries: %w", err)
	}

	current := metrics.Compute(curEntries, rng, capacity, locationID)
	var previous *metricsdomain.MetricsSnapshot
	if len(prevEntries) > 0 {
		p := metrics.Compute(prevEntries, prevRange, capacity, locationID)
		previous = &p
	}

	return insight.Generate(current, previous, curEntries, prevEntries, rng, prevRange), nil
}

// classify runs the full batch classification for one fetched slice.
func (s *Service) classify(entries []*entrydomain.Entry, rng entrydomain.TimeRange) IssueReport {
	return IssueReport{
		Issues:   integrity.DedupeForDisplay(integrity.Validate(entries, rng), s.displayLimit),
		Signals:  integrity.AnalyzeFlowSignals(entries, rng, s.integrityCfg),
		Coverage: integrity.ComputeCoverageWindow(entries, s.integrityCfg),
	}
}

func (s *Service) location(ctx context.Context, id string) (*locationdomain.Location, error) {
	loc, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	if loc == nil {
		return nil, ErrLocationNotFound
	}
	return loc, nil
}

func (s *Service) capacity(loc *locationdomain.Location) int {
	if loc != nil && loc.Capacity > 0 {
		return loc.Capacity
	}
	return s.defaultCapacity
}
