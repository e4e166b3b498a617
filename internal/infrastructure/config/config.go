package config

import (
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	OTLP      OTLPConfig
	Warehouse WarehouseConfig
}

type ServerConfig struct {
	Port string
	Host string
	// DurationMillis enables the extra millisecond duration histogram
	DurationMillis bool
}

type OTLPConfig struct {
	Endpoint    string
	ServiceName string
	Environment string
	// ExportEnabled switches between OTLP export and no-op providers
	ExportEnabled bool
	LogLevel      slog.Level
}

type WarehouseConfig struct {
	DefaultName string
}

// Environment variables and their defaults
const (
	keyServerHost        = "server_host"
	keyServerPort        = "server_port"
	keyDurationMillis    = "http_duration_ms_enabled"
	keyOTLPEndpoint      = "otel_exporter_otlp_endpoint"
	keyServiceName       = "otel_service_name"
	keyEnvironment       = "otel_environment"
	keyExportEnabled     = "otel_export_enabled"
	keyLogLevel          = "log_level"
	keyDefaultWarehouse  = "warehouse_default_name"
	defaultServiceName   = "warehouse-registry"
	defaultWarehouseName = "DefaultWarehouse"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	v.SetDefault(keyServerHost, "0.0.0.0")
	v.SetDefault(keyServerPort, "8080")
	v.SetDefault(keyDurationMillis, false)
	v.SetDefault(keyOTLPEndpoint, "localhost:4317")
	v.SetDefault(keyServiceName, defaultServiceName)
	v.SetDefault(keyEnvironment, "development")
	v.SetDefault(keyExportEnabled, true)
	v.SetDefault(keyLogLevel, "debug")
	v.SetDefault(keyDefaultWarehouse, defaultWarehouseName)

	return &Config{
		Server: ServerConfig{
			Host:           v.GetString(keyServerHost),
			Port:           v.GetString(keyServerPort),
			DurationMillis: v.GetBool(keyDurationMillis),
		},
		OTLP: OTLPConfig{
			Endpoint:      v.GetString(keyOTLPEndpoint),
			ServiceName:   v.GetString(keyServiceName),
			Environment:   v.GetString(keyEnvironment),
			ExportEnabled: v.GetBool(keyExportEnabled),
			LogLevel:      parseLevel(v.GetString(keyLogLevel)),
		},
		Warehouse: WarehouseConfig{
			DefaultName: v.GetString(keyDefaultWarehouse),
		},
	}
}

// parseLevel falls back to debug on unknown names
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelDebug
	}
	return level
}
