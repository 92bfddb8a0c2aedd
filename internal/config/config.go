package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// DeviceURL is the base URL of the device's HTTP API.
	DeviceURL string
	// DeviceTimeout bounds each device request; zero means no limit.
	DeviceTimeout time.Duration
	PollInterval  time.Duration

	SQLiteDriver          string
	SQLiteDSN             string
	SQLitePath            string
	SQLiteMaxOpenConns    int
	SQLiteMaxIdleConns    int
	SQLiteConnMaxLifetime time.Duration
	// SQLLog wraps the sqlite driver so every statement is logged at debug.
	SQLLog bool

	// MQTTBroker empty disables the status subscription.
	MQTTBroker   string
	MQTTPort     int
	MQTTClientID string
	MQTTTopic    string
	MQTTUsername string
	MQTTPassword string
}

// source resolves a variable from the environment first, then from the
// optional CONFIG_FILE (YAML, keys are the lower-cased variable names).
type source struct {
	file map[string]string
}

func (s source) get(name string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return strings.TrimSpace(s.file[strings.ToLower(name)])
}

func (s source) getDefault(name, def string) string {
	if v := s.get(name); v != "" {
		return v
	}
	return def
}

func loadFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("CONFIG_FILE %q: %w", path, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("CONFIG_FILE %q: %w", path, err)
	}
	out := make(map[string]string, len(doc))
	for k, v := range doc {
		if v == nil {
			continue
		}
		out[strings.ToLower(k)] = fmt.Sprint(v)
	}
	return out, nil
}

func LoadFromEnv() (Config, error) {
	file, err := loadFile(strings.TrimSpace(os.Getenv("CONFIG_FILE")))
	if err != nil {
		return Config{}, err
	}
	src := source{file: file}

	appEnv := src.getDefault("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(src.getDefault("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	httpAddr := src.getDefault("HTTP_ADDR", ":8080")

	deviceURL := strings.TrimRight(src.getDefault("DEVICE_URL", "http://localhost:8000"), "/")
	u, err := url.Parse(deviceURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Config{}, fmt.Errorf("invalid DEVICE_URL %q (want http(s)://host[:port])", deviceURL)
	}

	deviceTimeoutStr := src.getDefault("DEVICE_TIMEOUT", "0s")
	deviceTimeout, err := time.ParseDuration(deviceTimeoutStr)
	if err != nil || deviceTimeout < 0 {
		return Config{}, fmt.Errorf("invalid DEVICE_TIMEOUT %q (want a non-negative duration)", deviceTimeoutStr)
	}
	pollInterval, err := parsePositiveDuration(src, "POLL_INTERVAL", "2s")
	if err != nil {
		return Config{}, err
	}

	driver := src.getDefault("DB_DRIVER", "sqlite3")
	dsn := src.get("DB_DSN")
	path := src.getDefault("SQLITE_PATH", "data/dashboard.db")

	maxOpenConns, err := parseInt(src, "DB_MAX_OPEN_CONNS", "1")
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := parseInt(src, "DB_MAX_IDLE_CONNS", "1")
	if err != nil {
		return Config{}, err
	}

	connMaxLifetimeStr := src.getDefault("DB_CONN_MAX_LIFETIME", "0s")
	connMaxLifetime, err := time.ParseDuration(connMaxLifetimeStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME %q: %w", connMaxLifetimeStr, err)
	}

	sqlLogStr := src.getDefault("SQL_LOG", "false")
	sqlLog, err := strconv.ParseBool(sqlLogStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid SQL_LOG %q: %w", sqlLogStr, err)
	}

	mqttPort, err := parseInt(src, "MQTT_PORT", "1883")
	if err != nil {
		return Config{}, err
	}
	if mqttPort <= 0 || mqttPort > 65535 {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %d (must be 1-65535)", mqttPort)
	}

	return Config{
		AppEnv:                appEnv,
		LogLevel:              level,
		HTTPAddr:              httpAddr,
		DeviceURL:             deviceURL,
		DeviceTimeout:         deviceTimeout,
		PollInterval:          pollInterval,
		SQLiteDriver:          driver,
		SQLiteDSN:             dsn,
		SQLitePath:            path,
		SQLiteMaxOpenConns:    maxOpenConns,
		SQLiteMaxIdleConns:    maxIdleConns,
		SQLiteConnMaxLifetime: connMaxLifetime,
		SQLLog:                sqlLog,
		MQTTBroker:            src.get("MQTT_BROKER"),
		MQTTPort:              mqttPort,
		MQTTClientID:          src.getDefault("MQTT_CLIENT_ID", "revcam-dashboard"),
		MQTTTopic:             src.getDefault("MQTT_TOPIC", "revcam/status"),
		MQTTUsername:          src.get("MQTT_USERNAME"),
		MQTTPassword:          src.get("MQTT_PASSWORD"),
	}, nil
}

func parseInt(src source, name, def string) (int, error) {
	s := src.getDefault(name, def)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return n, nil
}

func parsePositiveDuration(src source, name, def string) (time.Duration, error) {
	s := src.getDefault(name, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q (must be positive)", name, s)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
