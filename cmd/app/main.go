package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/npcoderes/GTS-sub002/cmd"
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/notifier"
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := mustOpenDatabase(configs)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	mqttNotifier, err := notifier.NewMQTTNotifier(
		configs.MQTTBrokerURL, configs.MQTTClientID, configs.MQTTTopicPrefix)
	if err != nil {
		log.Fatalf("Error connecting to MQTT broker: %v", err)
	}
	defer mqttNotifier.Close()

	app := cmd.NewCompositionRoot(configs, gormDB, mqttNotifier, logger)

	jobManager := app.CreateJobManager()
	if startErr := jobManager.StartAll(); startErr != nil {
		log.Fatalf("Error starting background jobs: %v", startErr)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Infof("No .env file found, relying on process environment")
	}

	return cmd.Config{
		HTTPPort:          requireEnv("HTTP_PORT"),
		DBHost:            requireEnv("DB_HOST"),
		DBPort:            requireEnv("DB_PORT"),
		DBUser:            requireEnv("DB_USER"),
		DBPassword:        requireEnv("DB_PASSWORD"),
		DBName:            requireEnv("DB_NAME"),
		DBSslMode:         requireEnv("DB_SSLMODE"),
		SweepInterval:     durationEnv("SWEEP_INTERVAL", time.Minute),
		AssignmentTimeout: durationEnv("ASSIGNMENT_TIMEOUT", 5*time.Minute),
		BayCapacity:       intEnv("BAY_CAPACITY", 2),
		MQTTBrokerURL:     requireEnv("MQTT_BROKER_URL"),
		MQTTClientID:      envOr("MQTT_CLIENT_ID", "gts-coordinator"),
		MQTTTopicPrefix:   envOr("MQTT_TOPIC_PREFIX", "gts/events"),
	}
}

func requireEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Missing required environment variable %s", key)
	}
	return value
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("Invalid duration in %s: %v", key, err)
	}
	return parsed
}

func intEnv(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("Invalid integer in %s: %v", key, err)
	}
	return parsed
}

func mustOpenDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Error opening database connection: %v", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error initializing gorm: %v", err)
	}

	if err := postgres.RunMigrations(gormDB); err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}

	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := app.CreateHTTPServer()
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
