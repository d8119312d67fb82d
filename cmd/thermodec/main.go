// TMP102 bus decoder service.
//
// This is the main entry point for the decoder. It reads an I²C analyzer
// event stream (a JSONL capture export or a live MQTT feed), decodes the
// TMP102 register protocol into annotations, and fans the output out to
// the archive, MQTT, the WebSocket API, and the time-series store.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/openprobe/thermodec/migrations"

	"github.com/openprobe/thermodec/internal/annotation"
	"github.com/openprobe/thermodec/internal/api"
	"github.com/openprobe/thermodec/internal/archive"
	"github.com/openprobe/thermodec/internal/infrastructure/config"
	"github.com/openprobe/thermodec/internal/infrastructure/database"
	"github.com/openprobe/thermodec/internal/infrastructure/influxdb"
	"github.com/openprobe/thermodec/internal/infrastructure/logging"
	"github.com/openprobe/thermodec/internal/infrastructure/mqtt"
	"github.com/openprobe/thermodec/internal/pipeline"
	"github.com/openprobe/thermodec/internal/tmp102"
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

// finishTimeout bounds the session close write during shutdown.
const finishTimeout = 5 * time.Second

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

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
	log.Info("starting thermodec",
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
	log.Info("configuration loaded", "path", configPath)

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

	repo := archive.NewSQLiteRepository(db.DB)

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
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

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

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Start API server (optional)
	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer, err = api.New(api.Deps{
			Config:   cfg.API,
			WS:       cfg.WebSocket,
			Security: cfg.Security,
			Logger:   log,
			Archive:  repo,
			Influx:   influxClient,
			Version:  version,
		})
		if err != nil {
			return fmt.Errorf("creating API server: %w", err)
		}
		if startErr := apiServer.Start(ctx); startErr != nil {
			return fmt.Errorf("starting API server: %w", startErr)
		}
		defer func() {
			if closeErr := apiServer.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
		log.Info("API server started",
			"host", cfg.API.Host,
			"port", cfg.API.Port,
		)
	} else {
		log.Info("API server disabled")
	}

	// Parse decoder display settings
	radix, err := annotation.ParseRadix(cfg.Decoder.Radix)
	if err != nil {
		return fmt.Errorf("parsing radix: %w", err)
	}
	unit, err := tmp102.ParseUnit(cfg.Decoder.Unit)
	if err != nil {
		return fmt.Errorf("parsing unit: %w", err)
	}

	// Open the archive session and assemble the sink fan-out
	source := cfg.Source.Path
	if cfg.Source.Mode == "mqtt" {
		source = mqtt.Topics{}.CaptureEvents()
	}
	recorder, err := archive.NewRecorder(ctx, repo, archive.NewSession(source, radix.String(), unit.String()), log)
	if err != nil {
		return fmt.Errorf("creating archive session: %w", err)
	}
	log.Info("decode session opened", "session_id", recorder.Session().ID, "source", source)

	sinks := []annotation.Sink{recorder}
	measurements := []tmp102.MeasurementSink{recorder}

	var publisher *pipeline.Publisher
	if mqttClient != nil {
		// #nosec G115 -- QoS validated to 0..2 by config
		publisher = pipeline.NewPublisher(mqttClient, recorder.Session().ID, byte(cfg.MQTT.QoS), log)
		sinks = append(sinks, publisher)
		measurements = append(measurements, publisher)
	}
	if apiServer != nil {
		hub := apiServer.Hub()
		sinks = append(sinks, hub)
		measurements = append(measurements, hub)
	}
	if influxClient != nil {
		measurements = append(measurements, pipeline.NewInfluxSink(influxClient))
	}

	runner, err := pipeline.New(pipeline.Options{
		Decoder:      tmp102.Options{Radix: radix, Unit: unit},
		Sinks:        sinks,
		Measurements: measurements,
		Logger:       log,
		Influx:       influxClient,
	})
	if err != nil {
		return fmt.Errorf("creating pipeline: %w", err)
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	if publisher != nil {
		publisher.PublishSessionStatus(recorder.Session(), "running")
	}

	// Decode
	switch cfg.Source.Mode {
	case "mqtt":
		err = runner.RunMQTT(ctx, mqttClient)
	default:
		err = runner.RunFile(ctx, cfg.Source.Path)
	}

	// Stamp the session closed regardless of how the run ended.
	finishCtx, cancel := context.WithTimeout(context.Background(), finishTimeout)
	defer cancel()
	if finishErr := recorder.Finish(finishCtx); finishErr != nil {
		log.Error("error finishing session", "error", finishErr)
	}
	if publisher != nil {
		publisher.PublishSessionStatus(recorder.Session(), "finished")
	}

	if err != nil && !isShutdown(err) {
		return fmt.Errorf("decode run: %w", err)
	}

	log.Info("decode complete",
		"session_id", recorder.Session().ID,
		"events", runner.Events(),
		"decode_faults", runner.Faults(),
	)

	// A file decode with the API enabled keeps serving the archive until
	// the shutdown signal; an MQTT decode only returns on that signal.
	if cfg.Source.Mode != "mqtt" && apiServer != nil && ctx.Err() == nil {
		log.Info("serving archive, waiting for shutdown signal")
		<-ctx.Done()
	}

	log.Info("thermodec stopped")
	return nil
}

// isShutdown reports whether err is an expected cancellation.
func isShutdown(err error) bool {
	return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// getConfigPath returns the configuration file path.
// Uses THERMODEC_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("THERMODEC_CONFIG"); path != "" {
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
//   - apiServer: API server to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client, apiServer *api.Server) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	if apiServer != nil {
		if err := apiServer.HealthCheck(ctx); err != nil {
			return fmt.Errorf("api: %w", err)
		}
	}

	return nil
}
