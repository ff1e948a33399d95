package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/signalsfoundry/contact-scheduler/catalog"
	"github.com/signalsfoundry/contact-scheduler/core"
	"github.com/signalsfoundry/contact-scheduler/internal/logging"
	"github.com/signalsfoundry/contact-scheduler/internal/observability"
	"github.com/signalsfoundry/contact-scheduler/model"
	"github.com/signalsfoundry/contact-scheduler/store"
)

// ErrUnknownSatellite is returned when an admitted window references a
// satellite missing from the catalog.
var ErrUnknownSatellite = errors.New("window references unknown satellite")

// Engine drives full simulation passes: purge expired windows, generate
// fresh ones, schedule them against station capacity, simulate telemetry
// for admitted contacts, and persist the results.
type Engine struct {
	catalog   *catalog.Catalog
	generator *core.WindowGenerator
	scheduler *core.ContactScheduler
	telemetry *core.TelemetrySimulator
	store     store.Store
	collector *observability.ContactCollector
	log       logging.Logger

	// Workers bounds the generator fan-out. Zero or below generates serially.
	Workers int
	// PersistRejected stores rejected windows alongside admitted ones.
	PersistRejected bool
}

// NewEngine constructs an engine. A nil store falls back to an in-memory
// one, a nil logger to the noop logger; the collector may be nil.
func NewEngine(
	cat *catalog.Catalog,
	generator *core.WindowGenerator,
	scheduler *core.ContactScheduler,
	telemetry *core.TelemetrySimulator,
	st store.Store,
	collector *observability.ContactCollector,
	log logging.Logger,
) *Engine {
	if st == nil {
		st = store.NewMemoryStore()
	}
	if log == nil {
		log = logging.Noop()
	}
	return &Engine{
		catalog:   cat,
		generator: generator,
		scheduler: scheduler,
		telemetry: telemetry,
		store:     st,
		collector: collector,
		log:       log,
	}
}

// PassResult reports what one pass produced.
type PassResult struct {
	PassID    string
	Timestamp time.Time

	// Windows holds every generated window with its final status.
	Windows []model.ContactWindow
	// Telemetry holds one record per admitted window.
	Telemetry []model.Telemetry

	Generated int
	Admitted  int
	Rejected  int
	Purged    int64
}

// RunPass executes one pass at the given simulation time. If scheduling
// fails, nothing is persisted.
func (e *Engine) RunPass(ctx context.Context, now time.Time) (*PassResult, error) {
	ctx, log := logging.WithPassLogger(ctx, e.log)
	passID := logging.PassIDFromContext(ctx)

	ctx, span := startPhaseSpan(ctx, "Pass", passID,
		attribute.String("timestamp", now.Format(time.RFC3339)))
	defer span.End()

	sats := e.catalog.Satellites()
	stations := e.catalog.GroundStations()
	e.collector.SetCatalogCounts(len(sats), len(stations))

	log.Info(ctx, "pass started",
		logging.String("timestamp", now.Format(time.RFC3339)),
		logging.Int("satellites", len(sats)),
		logging.Int("ground_stations", len(stations)),
	)

	purged, err := e.purgeExpired(ctx, now)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	windows, err := e.generate(ctx, sats, stations, now)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	scheduled, err := e.schedule(ctx, windows, stations)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	records, err := e.simulateTelemetry(ctx, scheduled)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := e.persist(ctx, scheduled, records); err != nil {
		span.RecordError(err)
		return nil, err
	}

	result := &PassResult{
		PassID:    passID,
		Timestamp: now,
		Windows:   scheduled,
		Telemetry: records,
		Generated: len(scheduled),
		Purged:    purged,
	}
	for _, w := range scheduled {
		if w.Assigned() {
			result.Admitted++
		} else {
			result.Rejected++
		}
	}

	log.Info(ctx, "pass complete",
		logging.Int("generated", result.Generated),
		logging.Int("admitted", result.Admitted),
		logging.Int("rejected", result.Rejected),
		logging.Int("purged", int(result.Purged)),
	)
	return result, nil
}

func (e *Engine) purgeExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, span := startPhaseSpan(ctx, "Pass/purge", logging.PassIDFromContext(ctx))
	defer span.End()

	purged, err := e.store.PurgeExpiredWindows(ctx, now)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("purge phase: %w", err)
	}
	e.collector.AddWindowsPurged(purged)
	return purged, nil
}

func (e *Engine) generate(ctx context.Context, sats []model.Satellite, stations []model.GroundStation, now time.Time) ([]model.ContactWindow, error) {
	ctx, span := startPhaseSpan(ctx, "Pass/generate", logging.PassIDFromContext(ctx),
		attribute.Int("satellites", len(sats)))
	defer span.End()

	windows, err := e.generator.GenerateAllParallel(ctx, sats, stations, now, e.Workers)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("generate phase: %w", err)
	}
	span.SetAttributes(attribute.Int("windows", len(windows)))
	e.collector.AddWindowsGenerated(len(windows))
	return windows, nil
}

func (e *Engine) schedule(ctx context.Context, windows []model.ContactWindow, stations []model.GroundStation) ([]model.ContactWindow, error) {
	ctx, span := startPhaseSpan(ctx, "Pass/schedule", logging.PassIDFromContext(ctx),
		attribute.Int("windows", len(windows)))
	defer span.End()

	scheduled, err := e.scheduler.Schedule(ctx, windows, stations)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("schedule phase: %w", err)
	}
	return scheduled, nil
}

func (e *Engine) simulateTelemetry(ctx context.Context, scheduled []model.ContactWindow) ([]model.Telemetry, error) {
	ctx, span := startPhaseSpan(ctx, "Pass/telemetry", logging.PassIDFromContext(ctx))
	defer span.End()

	records := make([]model.Telemetry, 0, len(scheduled))
	for _, w := range scheduled {
		if !w.Assigned() {
			continue
		}
		sat, ok := e.catalog.Satellite(w.SatelliteID)
		if !ok {
			err := fmt.Errorf("telemetry phase: %w: %q", ErrUnknownSatellite, w.SatelliteID)
			span.RecordError(err)
			return nil, err
		}
		rec, err := e.telemetry.SimulateTelemetry(w, sat.OrbitPeriodMin)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("telemetry phase: %w", err)
		}
		records = append(records, rec)
	}
	span.SetAttributes(attribute.Int("records", len(records)))
	e.collector.AddTelemetryRecords(len(records))
	return records, nil
}

func (e *Engine) persist(ctx context.Context, scheduled []model.ContactWindow, records []model.Telemetry) error {
	batch := scheduled
	if !e.PersistRejected {
		batch = make([]model.ContactWindow, 0, len(scheduled))
		for _, w := range scheduled {
			if w.Assigned() {
				batch = append(batch, w)
			}
		}
	}

	ctx, span := startPhaseSpan(ctx, "Pass/persist", logging.PassIDFromContext(ctx),
		attribute.Int("windows", len(batch)),
		attribute.Int("telemetry", len(records)))
	defer span.End()

	if err := e.store.SaveContactWindows(ctx, batch); err != nil {
		span.RecordError(err)
		return fmt.Errorf("persist phase: %w", err)
	}
	if err := e.store.SaveTelemetry(ctx, records); err != nil {
		span.RecordError(err)
		return fmt.Errorf("persist phase: %w", err)
	}
	return nil
}
