package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "forcepool.cfg.json"

// SizingConfig holds the factors that turn importance into unit counts.
type SizingConfig struct {
	PlanesImportanceFactor float64 `json:"planesImportanceFactor" mapstructure:"planesImportanceFactor"`
	ArmorImportanceFactor  float64 `json:"armorImportanceFactor" mapstructure:"armorImportanceFactor"`
	PlanesInGroup          int     `json:"planesInGroup" mapstructure:"planesInGroup"`
}

// CatalogConfig selects where unit prices and tasks come from.
type CatalogConfig struct {
	Source string `json:"source" mapstructure:"source"` // builtin, yaml, sqlite or postgres
	Path   string `json:"path" mapstructure:"path"`     // yaml file or sqlite database
	Seed   bool   `json:"seed" mapstructure:"seed"`     // write the builtin catalog into an empty database
}

// DBConfig holds postgres connection settings.
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("sizing.planesImportanceFactor", 2)
	viper.SetDefault("sizing.armorImportanceFactor", 4)
	viper.SetDefault("sizing.planesInGroup", 2)

	viper.SetDefault("catalog.source", "builtin")
	viper.SetDefault("catalog.path", "")
	viper.SetDefault("catalog.seed", true)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "forcepool")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "forcepool")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads configuration from the JSON file in configDir and sets default values.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// LoadDefaults sets default values without reading a file.
func LoadDefaults() {
	setDefaults()
}

func GetSizingConfig() SizingConfig {
	return SizingConfig{
		PlanesImportanceFactor: viper.GetFloat64("sizing.planesImportanceFactor"),
		ArmorImportanceFactor:  viper.GetFloat64("sizing.armorImportanceFactor"),
		PlanesInGroup:          viper.GetInt("sizing.planesInGroup"),
	}
}

func GetCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Source: viper.GetString("catalog.source"),
		Path:   viper.GetString("catalog.path"),
		Seed:   viper.GetBool("catalog.seed"),
	}
}

func GetDBConfig() DBConfig {
	return DBConfig{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: viper.GetString("db.password"),
		Database: viper.GetString("db.database"),
	}
}

func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
