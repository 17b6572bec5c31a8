// Stagelight Core - Lighting Control Engine
//
// This is the main entry point for the Stagelight Core application.
// Stagelight is a standalone lighting control core designed for:
//   - Deterministic DMX output over Art-Net
//   - Offline-first operation (no cloud dependency)
//   - Open protocols (Art-Net, MQTT, WebSocket)
//   - Small venues, installations, and touring rigs
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/stagelight-core/migrations"

	"github.com/nerrad567/stagelight-core/internal/api"
	"github.com/nerrad567/stagelight-core/internal/dmx"
	"github.com/nerrad567/stagelight-core/internal/fade"
	"github.com/nerrad567/stagelight-core/internal/infrastructure/config"
	"github.com/nerrad567/stagelight-core/internal/infrastructure/database"
	"github.com/nerrad567/stagelight-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/stagelight-core/internal/infrastructure/logging"
	"github.com/nerrad567/stagelight-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/stagelight-core/internal/playback"
	"github.com/nerrad567/stagelight-core/internal/show"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	// This is the Go pattern for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run the application
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Stagelight Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath, "show", cfg.Show.Name)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise show registry
	showRepo := show.NewSQLiteRepository(db.DB)
	registry := show.NewRegistry(showRepo)
	registry.SetLogger(log)

	fixtures, err := registry.ListFixtures(ctx)
	if err != nil {
		return fmt.Errorf("loading show data: %w", err)
	}
	log.Info("show registry initialised", "fixtures", len(fixtures))

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		// Set up MQTT logging callbacks
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		// Set up InfluxDB error callback
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Start the DMX output service.
	// The fade engine writes into it, so it must be running first and
	// must stop last: its deferred Stop() sends the final zeroed frames.
	dmxService := dmx.NewService(cfg.DMX)
	dmxService.SetLogger(log)
	if startErr := dmxService.Start(ctx); startErr != nil {
		return fmt.Errorf("starting DMX service: %w", startErr)
	}
	defer func() {
		log.Info("stopping DMX output")
		if stopErr := dmxService.Stop(); stopErr != nil {
			log.Error("error stopping DMX service", "error", stopErr)
		}
	}()
	log.Info("DMX service started",
		"universes", cfg.DMX.UniverseCount,
		"artnet", cfg.DMX.ArtNet.Enabled,
	)

	// Start the fade engine
	fadeEngine := fade.NewEngine(dmxService)
	fadeEngine.SetLogger(log)
	if startErr := fadeEngine.Start(ctx); startErr != nil {
		return fmt.Errorf("starting fade engine: %w", startErr)
	}
	defer func() {
		log.Info("stopping fade engine")
		if stopErr := fadeEngine.Stop(); stopErr != nil {
			log.Error("error stopping fade engine", "error", stopErr)
		}
	}()
	log.Info("fade engine started")

	// Create the playback engine
	playbackEngine := playback.NewEngine(registry, fadeEngine)
	playbackEngine.SetLogger(log)
	defer playbackEngine.StopAll()

	// Event fan-out: the WebSocket hub and MQTT mirror receive playback
	// and DMX rate events. The hub is created here rather than inside the
	// API server because the event publisher needs it first.
	hub := api.NewHub(cfg.WebSocket, log)
	go hub.Run(ctx)

	events := api.NewEvents(hub, mqttClient, log)
	playbackEngine.SetNotifier(events)

	// Wire telemetry. InfluxDB (when enabled) and the event publisher
	// both observe DMX rate changes.
	if influxClient != nil {
		dmxService.SetRecorder(multiRecorder{events, influxClient})
	} else {
		dmxService.SetRecorder(events)
	}

	// Start the API server
	apiServer, err := api.New(api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Security: cfg.Security,
		Logger:   log,
		DMX:      dmxService,
		Fades:    fadeEngine,
		Playback: playbackEngine,
		Shows:    registry,
		MQTT:     mqttClient,
		Hub:      hub,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"auth", cfg.Security.JWT.Enabled,
	)

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server (stop accepting control input)
	// 2. Playback (cancel follow timers)
	// 3. Fade engine (stop the tick loop)
	// 4. DMX service (zero all universes, final transmit)
	// 5. InfluxDB / MQTT (if enabled)
	// 6. Database

	log.Info("Stagelight Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses STAGELIGHT_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("STAGELIGHT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check (may be nil if disabled)
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//   - apiServer: API server to check
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client, apiServer *api.Server) error {
	// Check database
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	// Check MQTT (if enabled)
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	// Check InfluxDB (if enabled)
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	// Check API server
	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}

// multiRecorder fans DMX telemetry out to multiple recorders.
// The send loop calls these on every rate change, so each recorder
// must be non-blocking.
type multiRecorder []dmx.Recorder

// RecordRateChange implements dmx.Recorder.
func (m multiRecorder) RecordRateChange(rate float64, active bool) {
	for _, r := range m {
		r.RecordRateChange(rate, active)
	}
}

// RecordTransmit implements dmx.Recorder.
func (m multiRecorder) RecordTransmit(universes int) {
	for _, r := range m {
		r.RecordTransmit(universes)
	}
}
