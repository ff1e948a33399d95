package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/signalsfoundry/contact-scheduler/catalog"
	"github.com/signalsfoundry/contact-scheduler/core"
	"github.com/signalsfoundry/contact-scheduler/internal/logging"
	"github.com/signalsfoundry/contact-scheduler/internal/observability"
	"github.com/signalsfoundry/contact-scheduler/internal/sim"
	"github.com/signalsfoundry/contact-scheduler/store"
	"github.com/signalsfoundry/contact-scheduler/timectrl"
)

func main() {
	once := flag.Bool("once", false, "run a single pass and exit")
	duration := flag.Duration("duration", 0, "total simulated duration (0 runs until interrupted)")
	tick := flag.Duration("tick", time.Minute, "simulated time between passes")
	accel := flag.Float64("accel", 60, "acceleration factor (simulated time per unit of wall time)")
	seed := flag.Int64("seed", 0, "seed for catalog synthesis and random draws (0 derives one from the clock)")
	scenario := flag.String("scenario", "", "path to a JSON ground-segment file (synthesized when empty)")
	satellites := flag.Int("satellites", 100, "synthetic fleet size when no scenario file is given")
	stations := flag.Int("stations", 7, "synthetic ground-segment size when no scenario file is given")
	workers := flag.Int("workers", 4, "parallel window generation workers (0 = serial)")
	metricsAddr := flag.String("metrics-addr", ":9090", "HTTP address for Prometheus /metrics")
	persistRejected := flag.Bool("persist-rejected", false, "store rejected windows alongside admitted ones")
	flag.Parse()

	// Best-effort .env load for the TIDB_*/SIM_*/LOG_* variables.
	_ = godotenv.Load()

	log := logging.NewFromEnv()
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewContactCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}
	metricsSrv := serveMetrics(*metricsAddr, collector, log)

	seedVal := *seed
	if seedVal == 0 {
		seedVal = time.Now().UnixNano()
	}

	cat, err := buildCatalog(ctx, *scenario, *satellites, *stations, seedVal, log)
	if err != nil {
		log.Error(ctx, "failed to build catalog", logging.String("error", err.Error()))
		os.Exit(1)
	}
	nSat, nGS := cat.Counts()
	collector.SetCatalogCounts(nSat, nGS)
	log.Info(ctx, "catalog ready",
		logging.Int("satellites", nSat),
		logging.Int("ground_stations", nGS),
		logging.Any("seed", seedVal),
	)

	st, err := buildStore(ctx, log)
	if err != nil {
		log.Error(ctx, "failed to initialise store", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer st.Close()

	generator := core.NewWindowGenerator(seedVal, 0)
	scheduler := core.NewContactScheduler(core.OverlapIntersection, collector, log)
	telemetry := core.NewTelemetrySimulator(rand.New(rand.NewSource(seedVal)))

	engine := sim.NewEngine(cat, generator, scheduler, telemetry, st, collector, log)
	engine.Workers = *workers
	engine.PersistRejected = *persistRejected

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		if _, err := engine.RunPass(runCtx, time.Now().UTC()); err != nil {
			log.Error(runCtx, "pass failed", logging.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		tc := timectrl.NewTimeController(time.Now().UTC(), *tick, *accel)
		tc.AddListener(func(simTime time.Time) {
			if _, err := engine.RunPass(runCtx, simTime); err != nil {
				log.Error(runCtx, "pass failed",
					logging.String("timestamp", simTime.Format(time.RFC3339)),
					logging.String("error", err.Error()),
				)
			}
		})

		log.Info(ctx, "starting simulation",
			logging.String("tick", tick.String()),
			logging.Any("accel", *accel),
			logging.String("duration", duration.String()),
		)
		<-tc.Start(runCtx, *duration)
	}

	log.Info(ctx, "simulation complete")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

// buildCatalog loads the ground segment from a scenario file, or synthesizes
// one when no path is given.
func buildCatalog(ctx context.Context, path string, satellites, stations int, seed int64, log logging.Logger) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Synthesize(catalog.SynthConfig{
			Satellites:     satellites,
			GroundStations: stations,
			Seed:           seed,
		})
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario %q: %w", path, err)
	}
	defer f.Close()

	cat := catalog.New()
	segment, err := catalog.LoadGroundSegment(cat, f)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "loaded ground segment",
		logging.String("path", path),
		logging.Int("satellites", len(segment.SatelliteIDs)),
		logging.Int("ground_stations", len(segment.GroundStationIDs)),
	)
	return cat, nil
}

// buildStore connects to TiDB when TIDB_HOST is set, falling back to the
// in-memory store otherwise.
func buildStore(ctx context.Context, log logging.Logger) (store.Store, error) {
	cfg := store.TiDBConfigFromEnv()
	if cfg.Host == "" {
		log.Info(ctx, "TIDB_HOST not set; using in-memory store")
		return store.NewMemoryStore(), nil
	}

	st, err := store.NewTiDBStore(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := st.EnsureSchema(ctx); err != nil {
		st.Close()
		return nil, err
	}
	log.Info(ctx, "connected to TiDB",
		logging.String("host", cfg.Host),
		logging.String("database", cfg.Database),
	)
	return st, nil
}

func serveMetrics(addr string, collector *observability.ContactCollector, log logging.Logger) *http.Server {
	if collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
