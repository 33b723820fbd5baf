// Fleet GPS Core - vehicle GPS device registry and position log.
//
// This is the main entry point. It loads configuration, opens the SQLite
// store, wires the optional MQTT, RabbitMQ and InfluxDB integrations and
// serves the REST API until it receives SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/nerrad567/fleet-gps-core/migrations"

	"github.com/nerrad567/fleet-gps-core/internal/api"
	"github.com/nerrad567/fleet-gps-core/internal/audit"
	"github.com/nerrad567/fleet-gps-core/internal/device"
	"github.com/nerrad567/fleet-gps-core/internal/events"
	"github.com/nerrad567/fleet-gps-core/internal/fleet"
	"github.com/nerrad567/fleet-gps-core/internal/infrastructure/config"
	"github.com/nerrad567/fleet-gps-core/internal/infrastructure/database"
	"github.com/nerrad567/fleet-gps-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/fleet-gps-core/internal/infrastructure/logging"
	"github.com/nerrad567/fleet-gps-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/fleet-gps-core/internal/infrastructure/rabbitmq"
	"github.com/nerrad567/fleet-gps-core/internal/ingest"
	"github.com/nerrad567/fleet-gps-core/internal/position"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting Fleet GPS Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := config.PathFromEnv()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	defer log.Close() //nolint:errcheck // shutdown path
	log.Info("configuration loaded",
		"path", configPath,
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := database.Open(ctx, database.Config{
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

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Audit entries are written off the request path. The writer is stopped
	// after the API so queued entries from the last requests are drained.
	auditRepo := audit.NewSQLiteRepository(db.DB)
	auditRecorder := audit.NewAsyncRecorder(auditRepo, audit.DefaultQueueSize, log.Component("audit"))
	auditCtx, stopAudit := context.WithCancel(context.Background())
	go auditRecorder.Run(auditCtx)
	defer func() {
		stopAudit()
		<-auditRecorder.Done()
		log.Info("audit writer stopped")
	}()

	deviceRegistry := device.NewRegistry(device.NewSQLiteRepository(db.DB))
	deviceRegistry.SetLogger(log.Component("device"))
	positionLog := position.NewLog(position.NewSQLiteRepository(db.DB))
	positionLog.SetLogger(log.Component("position"))

	optional := make(map[string]api.HealthChecker)
	var publishers []events.Publisher

	// MQTT (optional): event publishing and position ingest
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = connectMQTT(cfg.MQTT, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		optional["mqtt"] = mqttClient
		if cfg.MQTT.Events.Enabled {
			publishers = append(publishers, events.NewMQTTPublisher(mqttClient))
		}
	} else {
		log.Info("MQTT disabled")
	}

	// RabbitMQ (optional): durable event stream
	if cfg.RabbitMQ.Enabled {
		amqpConn, amqpErr := rabbitmq.Connect(cfg.RabbitMQ)
		if amqpErr != nil {
			return fmt.Errorf("connecting to RabbitMQ: %w", amqpErr)
		}
		defer func() {
			log.Info("closing RabbitMQ connection")
			if closeErr := amqpConn.Close(); closeErr != nil {
				log.Error("error closing RabbitMQ", "error", closeErr)
			}
		}()
		log.Info("RabbitMQ connected", "exchange", amqpConn.Exchange())
		optional["rabbitmq"] = amqpConn
		publishers = append(publishers, events.NewAMQPPublisher(amqpConn))
	} else {
		log.Info("RabbitMQ disabled")
	}

	// InfluxDB (optional): position telemetry mirror
	deps := fleet.Deps{
		Devices:   deviceRegistry,
		Positions: positionLog,
		Audit:     auditRecorder,
		Events:    events.Combine(publishers...),
		Logger:    log,
	}
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Warn("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		optional["influxdb"] = influxClient
		deps.Telemetry = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	svc, err := fleet.NewService(deps)
	if err != nil {
		return fmt.Errorf("creating fleet service: %w", err)
	}

	if cfg.Database.Seed {
		seeded, seedErr := fleet.Seed(ctx, svc, time.Now())
		if seedErr != nil {
			return fmt.Errorf("seeding demo fleet: %w", seedErr)
		}
		if seeded {
			log.Info("demo fleet seeded")
		}
	}

	apiDeps := api.Deps{
		Config:        cfg.API,
		ShutdownGrace: cfg.Service.ShutdownGrace(),
		Logger:        log.Component("api"),
		Fleet:         svc,
		Audit:         auditRepo,
		Database:      db,
		Optional:      optional,
		DBStats:       db.Stats,
		Version:       version,
	}

	if mqttClient != nil && cfg.MQTT.Ingest.Enabled {
		ingestor := ingest.New(mqttClient, svc, log.Component("ingest"))
		if startErr := ingestor.Start(ctx); startErr != nil {
			return fmt.Errorf("starting position ingest: %w", startErr)
		}
		defer func() {
			if stopErr := ingestor.Stop(); stopErr != nil {
				log.Warn("error stopping position ingest", "error", stopErr)
			}
			stats := ingestor.Stats()
			log.Info("position ingest stopped", "accepted", stats.Accepted, "rejected", stats.Rejected)
		}()
		apiDeps.Ingest = ingestor
	}

	apiServer, err := api.New(apiDeps)
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

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred calls run in reverse order: API, ingest, InfluxDB, RabbitMQ,
	// MQTT, audit writer, database.

	log.Info("Fleet GPS Core stopped")
	return nil
}

// connectMQTT connects to the broker and routes client callbacks to log.
func connectMQTT(cfg config.MQTTConfig, log *logging.Logger) (*mqtt.Client, error) {
	client, err := mqtt.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log.Component("mqtt"))
	client.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.Broker.Host, cfg.Broker.Port),
		"client_id", cfg.Broker.ClientID,
		"topic_prefix", client.Topics().Prefix(),
	)
	return client, nil
}
